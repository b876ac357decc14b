package candidate

import (
	"strings"
	"time"
	"unicode"
)

// Candidate is a sales rep that work records are logged for.
type Candidate struct {
	ID           string
	Name         string
	Username     string
	Alias        *string
	PasswordHash *string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Status string

const (
	StatusProbation  Status = "probation"
	StatusTraining   Status = "training"
	StatusWorking    Status = "working"
	StatusTerminated Status = "terminated"
	StatusResigned   Status = "resigned"
)

// StatusOptions lists every status in display order.
var StatusOptions = []Status{StatusProbation, StatusTraining, StatusWorking, StatusTerminated, StatusResigned}

// ActiveStatuses are the statuses of reps that can still be assigned work.
var ActiveStatuses = []Status{StatusProbation, StatusWorking, StatusTraining}

func ParseStatus(s string) (Status, bool) {
	for _, st := range StatusOptions {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// IsActive compares case-insensitively since older rows were stored capitalised.
func (s Status) IsActive() bool {
	for _, st := range ActiveStatuses {
		if strings.EqualFold(string(s), string(st)) {
			return true
		}
	}
	return false
}

// HasAccess reports whether the rep can log in.
func (c Candidate) HasAccess() bool {
	return c.PasswordHash != nil && *c.PasswordHash != ""
}

// DisplayName prefers the alias.
func (c Candidate) DisplayName() string {
	if c.Alias != nil && strings.TrimSpace(*c.Alias) != "" {
		return *c.Alias
	}
	return c.Name
}

// UsernameFromName lower-cases the name and drops all whitespace: "Jane Doe" -> "janedoe".
func UsernameFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
