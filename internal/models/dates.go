package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used for task and deadline due dates
const DateLayout = "2006-01-02"

// ParseDate parses a stored date string. A bare calendar date is midnight UTC;
// timestamps may be RFC 3339 with or without fractional seconds.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// zone-less timestamps such as "2025-09-15T10:00" or "2025-09-15T10:00:00"
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// DatePart returns the leading YYYY-MM-DD of a stored date string
func DatePart(s string) string {
	if len(s) >= len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
