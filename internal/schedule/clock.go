// Package schedule is the temporal layout and aggregation engine: pure,
// stateless functions that place a day's activities into non-overlapping
// visual columns and derive time-relative views (agenda, upcoming, weekly
// summary) from an activity snapshot and an explicit reference instant.
//
// Nothing in this package reads the wall clock, performs I/O or mutates its
// inputs; every function is a deterministic transform of its arguments.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeFormat reports a time-of-day string that is not "HH:MM".
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
	// ErrInvalidDateFormat reports a date string that is not "YYYY-MM-DD".
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
)

// DateLayout is the ISO calendar date layout used throughout the planner.
const DateLayout = "2006-01-02"

// ToMinutes parses a 24h "HH:MM" string into minutes since midnight.
// Exactly two colon-separated numeric fields are accepted; seconds and
// 12-hour notation are not.
func ToMinutes(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	return hour*60 + minute, nil
}

// FromMinutes formats minutes since midnight back into "HH:MM".
func FromMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ParseDate parses an ISO "YYYY-MM-DD" date into local wall-clock midnight.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, date)
	}
	return t, nil
}

// FormatDate renders t as an ISO "YYYY-MM-DD" string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Instant is the externally supplied "now" used by the aggregation views:
// an ISO date plus minutes since midnight, both local wall-clock. Injecting
// it keeps every view deterministic.
type Instant struct {
	Date    string
	Minutes int
}

// InstantAt derives an Instant from a time.Time.
func InstantAt(t time.Time) Instant {
	return Instant{Date: FormatDate(t), Minutes: t.Hour()*60 + t.Minute()}
}
