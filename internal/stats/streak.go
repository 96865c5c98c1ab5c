package stats

import "time"

// Streak returns the number of consecutive calendar days with at least one
// session, ending today, or yesterday when nothing is logged for today yet.
// A gap right before the anchor breaks the streak to 0.
func Streak(dates []string, today time.Time) int {
	days := distinctDates(dates)
	if len(days) == 0 {
		return 0
	}

	anchor := DateOf(today)
	if _, ok := days[FormatDate(anchor)]; !ok {
		anchor = AddDays(anchor, -1)
		if _, ok := days[FormatDate(anchor)]; !ok {
			return 0
		}
	}

	count := 0
	for day := anchor; ; day = AddDays(day, -1) {
		if _, ok := days[FormatDate(day)]; !ok {
			break
		}
		count++
	}
	return count
}
