package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("workout session not found")
)

// WorkoutSession is one logged workout on a calendar day
type WorkoutSession struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	UserID         string    `json:"-" bson:"user_id"`
	Date           string    `json:"date" bson:"date"` // YYYY-MM-DD
	TrainingPlanID string    `json:"training_plan_id,omitempty" bson:"training_plan_id,omitempty"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// SessionFilter narrows List results. Empty fields match everything.
type SessionFilter struct {
	Date           string
	TrainingPlanID string
}

type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *WorkoutSession) error
	GetByID(ctx context.Context, userID, id string) (*WorkoutSession, error)
	List(ctx context.Context, userID string, filter SessionFilter) ([]*WorkoutSession, error)
	// ListDates returns one date per session, so repeated dates are kept
	ListDates(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, userID, id string) error
	// ClearPlan unlinks every session of the user from a deleted plan
	ClearPlan(ctx context.Context, userID, planID string) error
}
