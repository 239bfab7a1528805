package model

import "time"

// DateLayout is the persisted form of calendar dates.
const DateLayout = time.DateOnly

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDay parses a YYYY-MM-DD date in the local time zone. An empty string
// yields the zero time.
func ParseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.ParseInLocation(DateLayout, s, time.Local)
}

// FormatDay renders a calendar date, or "" for the zero time.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(DateLayout)
}
