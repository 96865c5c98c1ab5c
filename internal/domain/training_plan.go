package domain

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrPlanNotFound = errors.New("training plan not found")
)

// PlanExercise links an exercise into a plan at a rank. Ranks are unique
// within a plan but need not be contiguous.
type PlanExercise struct {
	ExerciseID string `json:"exercise_id" bson:"exercise_id"`
	SortOrder  int    `json:"sort_order" bson:"sort_order"`
}

// TrainingPlan is a named, ordered selection of exercises
type TrainingPlan struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	UserID    string         `json:"-" bson:"user_id"`
	Name      string         `json:"name" bson:"name"`
	Exercises []PlanExercise `json:"exercises" bson:"exercises"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// SetExerciseIDs replaces the plan's links, ranking them by position.
func (p *TrainingPlan) SetExerciseIDs(ids []string) {
	p.Exercises = make([]PlanExercise, 0, len(ids))
	for i, id := range ids {
		p.Exercises = append(p.Exercises, PlanExercise{ExerciseID: id, SortOrder: i})
	}
}

// SortedExercises returns the links ordered by rank.
func (p *TrainingPlan) SortedExercises() []PlanExercise {
	links := slices.Clone(p.Exercises)
	slices.SortStableFunc(links, func(a, b PlanExercise) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return links
}

// OrderedExerciseIDs returns exercise ids sorted by rank.
func (p *TrainingPlan) OrderedExerciseIDs() []string {
	links := p.SortedExercises()
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ExerciseID
	}
	return ids
}

func (p *TrainingPlan) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	ranks := make(map[int]bool, len(p.Exercises))
	for _, l := range p.Exercises {
		if l.ExerciseID == "" {
			return fmt.Errorf("%w: exercise_id is required", ErrValidation)
		}
		if ranks[l.SortOrder] {
			return fmt.Errorf("%w: duplicate sort_order %d", ErrValidation, l.SortOrder)
		}
		ranks[l.SortOrder] = true
	}
	return nil
}

type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *TrainingPlan) error
	GetByID(ctx context.Context, userID, id string) (*TrainingPlan, error)
	// List returns plans newest first
	List(ctx context.Context, userID string) ([]*TrainingPlan, error)
	Update(ctx context.Context, plan *TrainingPlan) error
	Delete(ctx context.Context, userID, id string) error
	// RemoveExercise pulls an exercise out of every plan of the user
	RemoveExercise(ctx context.Context, userID, exerciseID string) error
}
