package sqlite

import (
	"time"
)

// PlanDateLayout is the storage format of plan dates.
const PlanDateLayout = "2006-01-02"

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// FormatPlanDate formats the calendar day of t as a plan key.
func FormatPlanDate(t time.Time) string {
	return t.Format(PlanDateLayout)
}

// ParsePlanDate parses a plan key back to midnight local time.
func ParsePlanDate(s string) (time.Time, error) {
	return time.ParseInLocation(PlanDateLayout, s, time.Local)
}
