// Package schedule computes next-fire instants for weekly recurring
// reminders and manages the live reminder set through a delivery port.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTime = errors.New("time of day out of range")

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// weekdayByLabel maps the schema's weekday labels onto time.Weekday.
var weekdayByLabel = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// Entry is one computed reminder anchor: the next instant at which the
// given weekday's reminder fires.
type Entry struct {
	Weekday string
	FireAt  time.Time
}

// Weekly computes, for each selected weekday independently, the next instant
// at the given time of day strictly after now. When today is the target
// weekday but the time has already passed (or is exactly now), the
// occurrence rolls a full week ahead. Seconds are truncated to zero.
//
// The output follows the order of the input weekday labels, not calendar
// order, and the function is pure: identical inputs produce identical
// output. An empty weekday set yields an empty result and no error; unknown
// labels are skipped.
func Weekly(tod TimeOfDay, weekdays []string, now time.Time) ([]Entry, error) {
	if !tod.valid() {
		return nil, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, tod.Hour, tod.Minute)
	}

	entries := make([]Entry, 0, len(weekdays))
	for _, label := range weekdays {
		target, ok := weekdayByLabel[label]
		if !ok {
			continue
		}
		daysUntil := (int(target) - int(now.Weekday()) + 7) % 7
		candidate := time.Date(now.Year(), now.Month(), now.Day()+daysUntil,
			tod.Hour, tod.Minute, 0, 0, now.Location())
		if daysUntil == 0 && !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		entries = append(entries, Entry{Weekday: label, FireAt: candidate})
	}
	return entries, nil
}
