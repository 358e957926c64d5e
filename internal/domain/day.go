package domain

import (
	"strings"
	"time"
)

// DayLayout is the wire format of a market day.
const DayLayout = "2006-01-02"

const displayLayout = "Monday, January 2, 2006"

// ParseDay reads a YYYY-MM-DD string as midnight UTC.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, strings.TrimSpace(s), time.UTC)
}

// StartOfDay truncates t to midnight UTC of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayRange returns the half-open interval [day 00:00 UTC, day+1 00:00 UTC).
func DayRange(day time.Time) (time.Time, time.Time) {
	start := StartOfDay(day)
	return start, start.AddDate(0, 0, 1)
}

func FormatDay(day time.Time) string {
	return StartOfDay(day).Format(DayLayout)
}

// DisplayDay formats day at noon in loc so a timezone offset can never roll
// the label onto the neighbouring calendar day.
func DisplayDay(day time.Time, loc *time.Location) string {
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, 12, 0, 0, 0, loc).Format(displayLayout)
}

// Today returns the calendar day of now as observed in loc, expressed as midnight UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
