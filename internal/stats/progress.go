package stats

import (
	"iter"
	"maps"
	"slices"
)

// ProgressPoint is the heaviest weight logged for an exercise on one day.
type ProgressPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// ProgressSeries collapses the sets of a single exercise into one point per
// date holding the day's maximum weight, ordered by date ascending.
func ProgressSeries(sets []SetRecord) []ProgressPoint {
	best := make(map[string]float64)
	for _, set := range sets {
		date, ok := normalizeDate(set.Date)
		if !ok {
			continue
		}
		weight := sanitizeWeight(set.Weight)
		if cur, seen := best[date]; !seen || weight > cur {
			best[date] = weight
		}
	}

	points := make([]ProgressPoint, 0, len(best))
	for _, date := range slices.Sorted(maps.Keys(best)) {
		points = append(points, ProgressPoint{Date: date, Weight: best[date]})
	}
	return points
}

// ProgressPoints is ProgressSeries as a sequence. Each range over it
// recomputes the series from sets.
func ProgressPoints(sets []SetRecord) iter.Seq[ProgressPoint] {
	return func(yield func(ProgressPoint) bool) {
		for _, p := range ProgressSeries(sets) {
			if !yield(p) {
				return
			}
		}
	}
}
