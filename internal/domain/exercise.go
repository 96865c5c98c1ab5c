package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrDuplicateExercise  = errors.New("exercise name already exists")
	ErrInvalidMuscleGroup = errors.New("unknown muscle group")
)

// MuscleGroup is one tag from the fixed muscle group vocabulary.
type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupBiceps    MuscleGroup = "biceps"
	MuscleGroupTriceps   MuscleGroup = "triceps"
	MuscleGroupLegs      MuscleGroup = "legs"
	MuscleGroupAbs       MuscleGroup = "abs"
	MuscleGroupCalves    MuscleGroup = "calves"
	MuscleGroupForearms  MuscleGroup = "forearms"
	MuscleGroupFullBody  MuscleGroup = "full_body"
)

// MuscleGroups lists the vocabulary in display order.
var MuscleGroups = []MuscleGroup{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupShoulders,
	MuscleGroupBiceps,
	MuscleGroupTriceps,
	MuscleGroupLegs,
	MuscleGroupAbs,
	MuscleGroupCalves,
	MuscleGroupForearms,
	MuscleGroupFullBody,
}

// ParseMuscleGroup accepts a tag case-insensitively, with "-" or " " for "_".
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, g := range MuscleGroups {
		if string(g) == norm {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMuscleGroup, s)
}

// Exercise is a movement in the user's library
type Exercise struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	UserID      string      `json:"-" bson:"user_id"`
	Name        string      `json:"name" bson:"name"` // unique per user
	MuscleGroup MuscleGroup `json:"muscle_group" bson:"muscle_group"`
	Description string      `json:"description" bson:"description"`
	ImageURL    string      `json:"image_url" bson:"image_url"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

// Validate normalizes the exercise and checks required fields.
func (e *Exercise) Validate() error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if e.MuscleGroup == "" {
		return fmt.Errorf("%w: muscle_group is required", ErrValidation)
	}
	group, err := ParseMuscleGroup(string(e.MuscleGroup))
	if err != nil {
		return err
	}
	e.MuscleGroup = group
	e.Description = strings.TrimSpace(e.Description)
	return nil
}

// ExerciseFilter narrows List results
type ExerciseFilter struct {
	Name string // case-insensitive substring
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, userID, id string) (*Exercise, error)
	// List returns exercises ordered by muscle group, then name
	List(ctx context.Context, userID string, filter ExerciseFilter) ([]*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, userID, id string) error
}
