package utils

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns a UTC date at midnight
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD or RFC3339", s)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseTimestamp accepts RFC3339
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q must be RFC3339", s)
	}
	return t.UTC(), nil
}

// FormatDate renders YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// FormatTimestamp renders RFC3339 in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
