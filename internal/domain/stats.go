package domain

import (
	"github.com/mansoorceksport/ironlog/internal/stats"
)

// ExerciseWithStats is a library entry together with its aggregate.
// Exercises that were never trained carry zero stats.
type ExerciseWithStats struct {
	Exercise *Exercise           `json:"exercise"`
	Stats    stats.ExerciseStats `json:"stats"`
}

// SetView is a logged set inside a day view
type SetView struct {
	ID        string  `json:"id"`
	SetNumber int     `json:"set_number"`
	WeightKg  float64 `json:"weight_kg"`
	Reps      int     `json:"reps"`
}

// ExerciseSets is one exercise block of a session, in first-logged order
type ExerciseSets struct {
	ExerciseID  string      `json:"exercise_id"`
	Name        string      `json:"name"` // "?" when the exercise no longer exists
	MuscleGroup MuscleGroup `json:"muscle_group,omitempty"`
	Sets        []SetView   `json:"sets"`
}

// SessionDetail is a session as rendered in the day view
type SessionDetail struct {
	Session   *WorkoutSession `json:"session"`
	PlanName  string          `json:"plan_name,omitempty"`
	Exercises []ExerciseSets  `json:"exercises"`
}

// DayView lists every session and supplement intake logged on a date
type DayView struct {
	Date        string              `json:"date"`
	Sessions    []SessionDetail     `json:"sessions"`
	Supplements []*SupplementIntake `json:"supplements"`
}

// LogSupplementInput is the body of a supplement intake log. An empty date
// means today.
type LogSupplementInput struct {
	Supplement Supplement `json:"supplement"`
	Date       string     `json:"date"`
}

// Overview is the calendar/stats dashboard payload
type Overview struct {
	Today               string                  `json:"today"`
	Streak              int                     `json:"streak"`
	Month               string                  `json:"month"` // YYYY-MM
	MonthlyTrainingDays int                     `json:"monthly_training_days"`
	TrainedDates        []string                `json:"trained_dates"`
	Frequency           []stats.FrequencyBucket `json:"frequency"`
}

// SetDraft is an empty set row offered when starting a workout
type SetDraft struct {
	SetNumber int     `json:"set_number"`
	WeightKg  float64 `json:"weight_kg"`
	Reps      int     `json:"reps"`
}

// DraftExercise is one exercise of a workout started from a plan
type DraftExercise struct {
	ExerciseID  string      `json:"exercise_id"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	SortOrder   int         `json:"sort_order"`
	Sets        []SetDraft  `json:"sets"`
}

// WorkoutDraft is the pre-filled form for logging a plan's workout
type WorkoutDraft struct {
	PlanID    string          `json:"plan_id"`
	PlanName  string          `json:"plan_name"`
	Exercises []DraftExercise `json:"exercises"`
}

// SetInput is a raw set row from a client. Weight and reps are coerced
// from numbers or numeric strings.
type SetInput struct {
	WeightKg any `json:"weight_kg"`
	Reps     any `json:"reps"`
}

// ExerciseEntry is the sets logged for one exercise in a session
type ExerciseEntry struct {
	ExerciseID string     `json:"exercise_id"`
	Sets       []SetInput `json:"sets"`
}

// LogSessionInput is the payload for logging a workout
type LogSessionInput struct {
	Date           string          `json:"date"`
	TrainingPlanID string          `json:"training_plan_id"`
	Notes          string          `json:"notes"`
	Entries        []ExerciseEntry `json:"entries"`
}

// ToggleResult reports what a toggle-today did
type ToggleResult string

const (
	ToggleCreated ToggleResult = "created"
	ToggleDeleted ToggleResult = "deleted"
)

// ToSet coerces a raw row into a set. Missing or non-numeric values become
// 0; negative values are rejected.
func (in SetInput) ToSet(exerciseID string, setNumber int) (*WorkoutSet, error) {
	set := &WorkoutSet{
		ExerciseID: exerciseID,
		SetNumber:  setNumber,
		WeightKg:   stats.CoerceFloat(in.WeightKg),
		Reps:       stats.CoerceInt(in.Reps),
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Record projects a set onto the input of the stats aggregations
func (s *WorkoutSet) Record() stats.SetRecord {
	return stats.SetRecord{
		SessionID:  s.SessionID,
		ExerciseID: s.ExerciseID,
		Date:       s.Date,
		Weight:     s.WeightKg,
		Reps:       s.Reps,
	}
}

// Records projects a batch of sets
func Records(sets []*WorkoutSet) []stats.SetRecord {
	out := make([]stats.SetRecord, len(sets))
	for i, s := range sets {
		out[i] = s.Record()
	}
	return out
}
