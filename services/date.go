package services

import (
	"fmt"
	"time"
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// NormalizeDay truncates a timestamp to midnight UTC of its calendar day.
// All availability math runs on normalized days: day-granularity blocking,
// one canonical policy everywhere.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay checks whether two timestamps fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return NormalizeDay(a).Equal(NormalizeDay(b))
}

// DatesInRange returns the inclusive day-by-day expansion between two dates.
// start == end yields a single-day result. The cursor advances one calendar
// day at a time until it passes end, so the loop always terminates.
func DatesInRange(start, end time.Time) []time.Time {
	start = NormalizeDay(start)
	end = NormalizeDay(end)

	if end.Before(start) {
		return nil
	}

	var days []time.Time
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		days = append(days, cursor)
	}
	return days
}
