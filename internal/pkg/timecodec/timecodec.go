// Package timecodec converts between "HH:MM:SS" duration strings and whole seconds.
//
// Parsing is lenient: a missing, empty, negative or non-numeric field counts as zero,
// so a malformed value never fails a submission. A total too large for int64 also
// reads as zero; callers that accept input bound the hour digits first.
package timecodec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const zero = "00:00:00"

// ParseDuration reads up to three ":"-separated fields as hours, minutes and seconds.
// "4" is four hours and "4:30" is four hours thirty minutes.
func ParseDuration(s string) int64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}

	parts := strings.Split(s, ":")
	var fields [3]int64
	for i := 0; i < len(parts) && i < len(fields); i++ {
		fields[i] = parseField(parts[i])
	}

	// Each field is at most MaxInt64/3600, so minutes and seconds cannot overflow on their own.
	return AddSeconds(fields[0]*3600, fields[1]*60+fields[2])
}

// AddSeconds adds non-negative second counts. A sum that would overflow int64, or a
// negative operand, degrades to 0 like any other unreadable duration.
func AddSeconds(values ...int64) int64 {
	var total int64
	for _, v := range values {
		if v < 0 || total > math.MaxInt64-v {
			return 0
		}
		total += v
	}
	return total
}

// parseField takes the leading run of digits, like "12abc" -> 12.
func parseField(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n > math.MaxInt64/3600 {
		return 0
	}
	return n
}

// FormatDuration renders seconds as zero-padded HH:MM:SS. Negative input renders as 00:00:00.
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		return zero
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatSecondsFloat is FormatDuration for values that come from float math.
// NaN, infinities and negatives render as 00:00:00.
func FormatSecondsFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt64 {
		return zero
	}
	return FormatDuration(int64(math.Floor(f)))
}

// SumDurations adds durations at the seconds level and renders the result.
func SumDurations(values ...string) string {
	seconds := make([]int64, len(values))
	for i, v := range values {
		seconds[i] = ParseDuration(v)
	}
	return FormatDuration(AddSeconds(seconds...))
}

// Normalize re-renders a duration string in canonical form, e.g. "1:5" -> "01:05:00".
func Normalize(s string) string {
	return FormatDuration(ParseDuration(s))
}
