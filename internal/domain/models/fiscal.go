package models

import (
	"fmt"
	"time"
)

const anchorLayout = "2006-01"

// DefaultFinancialYearStart is the anchor month used when none is configured.
const DefaultFinancialYearStart = "2025-09"

// ParseFinancialYearStart parses a YYYY-MM anchor into the first day of that
// month (UTC).
func ParseFinancialYearStart(value string) (time.Time, error) {
	t, err := time.Parse(anchorLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid financial year start %q (want YYYY-MM): %w", value, err)
	}
	return t, nil
}

// FinancialYearMonths returns the canonical ordered "Month YYYY" labels for
// the 12-month window starting at the anchor month. Every monthly rollup in
// the system ranges over exactly this domain.
func FinancialYearMonths(anchor time.Time) []string {
	months := make([]string, 0, 12)
	anchor = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		months = append(months, MonthYearLabel(anchor.AddDate(0, i, 0)))
	}
	return months
}

// MonthYearLabel renders the "Month YYYY" label for a date, consistent with
// the labels produced by FinancialYearMonths.
func MonthYearLabel(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", t.Month().String(), t.Year())
}
