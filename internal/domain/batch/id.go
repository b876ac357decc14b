package batch

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	idPrefix     = "BATCH-"
	idTimeLayout = "20060102150405"
	suffixChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixLength = 6
)

// NewID returns "BATCH-<UTC yyyymmddhhmmss>-<random suffix>". Ids sort by creation
// second, and the suffix keeps two batches generated in the same second apart.
func NewID(t time.Time) string {
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixChars))))
		if err != nil {
			n = big.NewInt(t.UnixNano() % int64(len(suffixChars)))
		}
		suffix[i] = suffixChars[n.Int64()]
	}
	return fmt.Sprintf("%s%s-%s", idPrefix, t.UTC().Format(idTimeLayout), string(suffix))
}

// CreatedAt recovers the generation time encoded in a batch id.
// Ids without a suffix are accepted too.
func CreatedAt(id string) (time.Time, bool) {
	if !strings.HasPrefix(id, idPrefix) {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(id, idPrefix)
	if len(rest) < len(idTimeLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(idTimeLayout, rest[:len(idTimeLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsValidID reports whether id looks like a batch id.
func IsValidID(id string) bool {
	_, ok := CreatedAt(id)
	return ok
}
