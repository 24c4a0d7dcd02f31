package validation

import (
	"fmt"
	"strings"
	"time"
)

var dateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05", // local timestamp without zone, read as UTC
	time.DateOnly,
	"2006/01/02",
	"01/02/2006", // US month first
	"01-02-2006",
}

// ParseFlexibleDate parses ISO timestamps and the common date-only layouts.
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %q", dateStr)
}

// FormatTimePtr renders t as RFC3339 or nil.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
