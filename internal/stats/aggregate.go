package stats

import "math"

// SetRecord is one logged set annotated with its session's id and date.
type SetRecord struct {
	SessionID  string
	ExerciseID string
	Date       string
	Weight     float64
	Reps       int
}

// ExerciseStats summarises every logged set of one exercise.
type ExerciseStats struct {
	Sessions    int     `json:"sessions"`
	BestWeight  float64 `json:"best_weight"`
	TotalVolume float64 `json:"total_volume"`
	LastTrained string  `json:"last_trained,omitempty"`
}

// AggregateExercises builds ExerciseStats per exercise id. Exercises without
// sets are absent from the result; callers should treat a missing key as the
// zero ExerciseStats.
func AggregateExercises(sets []SetRecord) map[string]ExerciseStats {
	result := make(map[string]ExerciseStats)
	sessions := make(map[string]map[string]struct{})

	for _, set := range sets {
		st := result[set.ExerciseID]

		weight := sanitizeWeight(set.Weight)
		if weight > st.BestWeight {
			st.BestWeight = weight
		}
		// an overflowing product counts as nothing; the total stays finite
		if volume := st.TotalVolume + weight*float64(sanitizeReps(set.Reps)); !math.IsInf(volume, 0) {
			st.TotalVolume = volume
		}

		// canonical dates compare correctly as strings
		if date, ok := normalizeDate(set.Date); ok && date > st.LastTrained {
			st.LastTrained = date
		}

		seen, ok := sessions[set.ExerciseID]
		if !ok {
			seen = make(map[string]struct{})
			sessions[set.ExerciseID] = seen
		}
		seen[set.SessionID] = struct{}{}
		st.Sessions = len(seen)

		result[set.ExerciseID] = st
	}

	return result
}
