package stats

import (
	"maps"
	"slices"
	"time"
)

const monthLayout = "2006-01"

// FrequencyBucket counts sessions logged in one calendar month.
type FrequencyBucket struct {
	Month    string `json:"month"`
	Sessions int    `json:"sessions"`
}

// TrainedDates returns the distinct valid session dates in ascending order.
func TrainedDates(dates []string) []string {
	return slices.Sorted(maps.Keys(distinctDates(dates)))
}

// MonthlyTrainingDays counts distinct training days in the calendar month
// containing month.
func MonthlyTrainingDays(dates []string, month time.Time) int {
	prefix := month.Format(monthLayout)
	count := 0
	for d := range distinctDates(dates) {
		if d[:len(monthLayout)] == prefix {
			count++
		}
	}
	return count
}

// TrainingFrequency reports sessions per month for the last months calendar
// months ending with the month of now, oldest first. Every entry in dates is
// one session, so two sessions on one day count twice.
func TrainingFrequency(dates []string, now time.Time, months int) []FrequencyBucket {
	if months <= 0 {
		return []FrequencyBucket{}
	}

	perMonth := make(map[string]int)
	for _, d := range dates {
		if norm, ok := normalizeDate(d); ok {
			perMonth[norm[:len(monthLayout)]]++
		}
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]FrequencyBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		key := first.AddDate(0, -i, 0).Format(monthLayout)
		buckets = append(buckets, FrequencyBucket{Month: key, Sessions: perMonth[key]})
	}
	return buckets
}
