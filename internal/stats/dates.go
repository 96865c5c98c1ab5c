// Package stats contains the pure training aggregations behind the calendar
// and statistics views: the current streak, per-exercise totals, progress
// series and day-view grouping. Nothing here performs I/O.
package stats

import "time"

// DateLayout is the canonical day format used for session dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a day in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf returns the calendar day of t, read in t's own location, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays moves a calendar day by n days using year/month/day arithmetic.
func AddDays(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, time.UTC)
}

// Today returns the canonical date string for now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(DateOf(now.In(loc)))
}

// normalizeDate returns the canonical form of s, or false when s is not a date.
func normalizeDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return FormatDate(t), true
}

// distinctDates de-duplicates the valid dates in dates.
func distinctDates(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if norm, ok := normalizeDate(d); ok {
			set[norm] = struct{}{}
		}
	}
	return set
}
