package timecodec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"01:00:00", 3600},
		{"00:30:00", 1800},
		{"4", 4 * 3600},
		{"4:30", 4*3600 + 30*60},
		{"4:30:15", 4*3600 + 30*60 + 15},
		{"123:00:01", 123*3600 + 1},
		{" 1 : 2 : 3 ", 3723},
		{"12abc:00:00", 12 * 3600},
		{"1:2:3:4", 3723},
		{"::", 0},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"aa:bb:cc", 0},
		{"-1:00:00", 0},
		{"01:-5:10", 3610},
		{"99999999999999999999:00:00", 0},
		{"2562047788015215:59:59", 0},
		{"2562047788015215:59", 0},
		{"2562047788015214:00:00", 2562047788015214 * 3600},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDuration(tt.input), "ParseDuration(%q)", tt.input)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{5400, "01:30:00"},
		{86399, "23:59:59"},
		{360000, "100:00:00"},
		{-1, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.input), "FormatDuration(%d)", tt.input)
	}
}

func TestFormatSecondsFloat(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatSecondsFloat(math.NaN()))
	assert.Equal(t, "00:00:00", FormatSecondsFloat(math.Inf(1)))
	assert.Equal(t, "00:00:00", FormatSecondsFloat(-3))
	assert.Equal(t, "00:01:01", FormatSecondsFloat(61.9))
}

func TestRoundTrip(t *testing.T) {
	values := []int64{0, 1, 59, 60, 61, 3599, 3600, 3661, 86400, 359999, 360000, 1234567}
	for n := int64(0); n < 5000; n += 7 {
		values = append(values, n)
	}
	for _, n := range values {
		assert.Equal(t, n, ParseDuration(FormatDuration(n)), "round trip of %d", n)
	}
}

func TestSumDurationsAndNormalize(t *testing.T) {
	assert.Equal(t, "01:30:00", SumDurations("01:00:00", "00:30:00"))
	assert.Equal(t, "00:00:00", SumDurations())
	assert.Equal(t, "01:05:00", Normalize("1:5"))
	assert.Equal(t, "00:00:00", Normalize("garbage"))

	huge := "2000000000000000:00:00"
	assert.Equal(t, "00:00:00", SumDurations(huge, huge))
	assert.Equal(t, "9999999:00:00", SumDurations("9999998:00:00", "1:00:00"))
}

func TestAddSeconds(t *testing.T) {
	assert.Equal(t, int64(0), AddSeconds())
	assert.Equal(t, int64(5), AddSeconds(2, 3))
	assert.Equal(t, int64(math.MaxInt64), AddSeconds(math.MaxInt64-1, 1))
	assert.Equal(t, int64(0), AddSeconds(math.MaxInt64, 1))
	assert.Equal(t, int64(0), AddSeconds(4, -1))
}

func TestParseDurationNeverNegative(t *testing.T) {
	for _, s := range []string{"2562047788015215:59:59", "2562047788015215:00:00", "2562047788015215:59", "9223372036854775807"} {
		assert.GreaterOrEqual(t, ParseDuration(s), int64(0), "ParseDuration(%q)", s)
	}
}
