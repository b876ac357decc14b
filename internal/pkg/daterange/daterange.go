package daterange

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-day layout used for work record dates.
const DateLayout = "2006-01-02"

type Preset string

const (
	PresetDaily    Preset = "daily"
	PresetWeekly   Preset = "weekly"
	PresetBiWeekly Preset = "bi-weekly"
	PresetMonthly  Preset = "monthly"
)

var ErrUnknownPreset = errors.New("unknown period preset, use daily, weekly, bi-weekly or monthly")

// Range is an inclusive span of calendar days in YYYY-MM-DD form.
type Range struct {
	From string
	To   string
}

// Resolve turns a preset into a range ending today.
// Weeks start on Monday; bi-weekly covers the last fourteen days including today.
func Resolve(preset Preset, now time.Time) (Range, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var start time.Time

	switch Preset(strings.ToLower(string(preset))) {
	case PresetDaily:
		start = today
	case PresetWeekly:
		start = WeekStart(today)
	case PresetBiWeekly:
		start = today.AddDate(0, 0, -13)
	case PresetMonthly:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	default:
		return Range{}, ErrUnknownPreset
	}

	return Range{From: start.Format(DateLayout), To: today.Format(DateLayout)}, nil
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// Contains reports whether date falls inside the range. Empty bounds are open.
// Dates compare lexically, which is correct for zero-padded YYYY-MM-DD.
func (r Range) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}
