package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrSupplementNotFound = errors.New("supplement intake not found")
)

// Supplement is the fixed vocabulary of tracked supplements
type Supplement string

const (
	SupplementCreatine Supplement = "creatine"
	SupplementProtein  Supplement = "protein"
)

var Supplements = []Supplement{SupplementCreatine, SupplementProtein}

// SupplementIntake records that a supplement was taken on a calendar day.
// A day may hold several entries for the same supplement.
type SupplementIntake struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	UserID     string     `json:"-" bson:"user_id"`
	Supplement Supplement `json:"supplement" bson:"supplement"`
	Date       string     `json:"date" bson:"date"` // YYYY-MM-DD
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

// Validate lower-cases the supplement and checks it against Supplements.
// Date is checked by the caller.
func (s *SupplementIntake) Validate() error {
	s.Supplement = Supplement(strings.ToLower(strings.TrimSpace(string(s.Supplement))))
	if !slices.Contains(Supplements, s.Supplement) {
		return fmt.Errorf("%w: supplement must be one of creatine, protein", ErrValidation)
	}
	return nil
}

type SupplementIntakeRepository interface {
	Create(ctx context.Context, intake *SupplementIntake) error
	GetByID(ctx context.Context, userID, id string) (*SupplementIntake, error)
	// ListByDate returns entries in the order they were logged
	ListByDate(ctx context.Context, userID, date string) ([]*SupplementIntake, error)
	Delete(ctx context.Context, userID, id string) error
}
