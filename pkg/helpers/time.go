package helpers

import (
	"errors"
	"time"
)

// DateLayout is the wire format for transaction dates.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a calendar date. Plain dates are the canonical form;
// full RFC3339 timestamps are accepted and truncated to their date part.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders a calendar date in wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
