package schedule

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the ISO-8601 calendar date accepted on the wire.
	DateLayout = "2006-01-02"
	// WallClockLayout is the zero-padded 24-hour local time used for
	// business hours and slot rendering.
	WallClockLayout = "15:04"
)

// LocationFor resolves an IANA timezone name, falling back to UTC for an
// empty or unknown zone rather than failing the whole request.
func LocationFor(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseDate parses an ISO calendar date. The result carries no meaningful
// time component; combine it with a wall-clock time via At.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return d, nil
}

// ParseWallClock validates an "HH:MM" local time string.
func ParseWallClock(s string) (time.Time, error) {
	t, err := time.Parse(WallClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t, nil
}

// At is the one canonical conversion from a local calendar date plus a local
// wall-clock time to an absolute instant in the given location. Every
// date/time construction in the engine goes through here.
func At(date time.Time, wallClock string, loc *time.Location) (time.Time, error) {
	wc, err := ParseWallClock(wallClock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), wc.Hour(), wc.Minute(), 0, 0, loc), nil
}

// DayBounds returns the half-open [start of day, start of next day) interval
// for a calendar date in the given location.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// FormatWallClock renders an instant as its local "HH:MM" string.
func FormatWallClock(t time.Time) string {
	return t.Format(WallClockLayout)
}
