package models

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when normalizing user-supplied dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"January 2, 2006",
	"2 January 2006",
}

// ParseDate parses a date-like string using the accepted layouts. The second
// return value is false when the input is unparseable; callers degrade to an
// empty string rather than erroring.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate converts a date-like string into the canonical YYYY-MM-DD
// form. Unparseable input yields an empty string, never an error.
func NormalizeDate(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// MonthYearOf derives the "Month YYYY" label for a date-like string, or an
// empty string when the date is unparseable.
func MonthYearOf(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		return ""
	}
	return MonthYearLabel(t)
}
