package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Upper bounds on a single set.
const (
	MaxWeightKg = 1000
	MaxReps     = 10000
)

// WorkoutSet is one weight/reps entry for an exercise within a session.
// Date is copied from the owning session so stats never need a join.
type WorkoutSet struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserID     string    `json:"-" bson:"user_id"`
	SessionID  string    `json:"session_id" bson:"session_id"`
	ExerciseID string    `json:"exercise_id" bson:"exercise_id"`
	Date       string    `json:"date" bson:"date"`
	SetNumber  int       `json:"set_number" bson:"set_number"` // 1-based within exercise and session
	WeightKg   float64   `json:"weight_kg" bson:"weight_kg"`
	Reps       int       `json:"reps" bson:"reps"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

func (s *WorkoutSet) Validate() error {
	if s.ExerciseID == "" {
		return fmt.Errorf("%w: exercise_id is required", ErrValidation)
	}
	if math.IsNaN(s.WeightKg) || math.IsInf(s.WeightKg, 0) || s.WeightKg < 0 {
		return fmt.Errorf("%w: weight_kg must be a non-negative number", ErrValidation)
	}
	if s.WeightKg > MaxWeightKg {
		return fmt.Errorf("%w: weight_kg must be at most %d", ErrValidation, MaxWeightKg)
	}
	if s.Reps < 0 {
		return fmt.Errorf("%w: reps must not be negative", ErrValidation)
	}
	if s.Reps > MaxReps {
		return fmt.Errorf("%w: reps must be at most %d", ErrValidation, MaxReps)
	}
	return nil
}

type WorkoutSetRepository interface {
	CreateMany(ctx context.Context, sets []*WorkoutSet) error
	// ListBySessions returns sets in insertion order
	ListBySessions(ctx context.Context, userID string, sessionIDs []string) ([]*WorkoutSet, error)
	ListByExercise(ctx context.Context, userID, exerciseID string) ([]*WorkoutSet, error)
	ListAll(ctx context.Context, userID string) ([]*WorkoutSet, error)
	DeleteBySession(ctx context.Context, userID, sessionID string) error
}
