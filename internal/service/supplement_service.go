package service

import (
	"context"

	"github.com/mansoorceksport/ironlog/internal/domain"
)

// SupplementService logs and deletes supplement intake. Entries are read
// back through WorkoutService.DayView.
type SupplementService struct {
	intakeRepo  domain.SupplementIntakeRepository
	calendar    *Calendar
	invalidator *Invalidator
}

func NewSupplementService(intakeRepo domain.SupplementIntakeRepository, calendar *Calendar, cache *QueryCache) *SupplementService {
	return &SupplementService{
		intakeRepo:  intakeRepo,
		calendar:    calendar,
		invalidator: NewInvalidator(cache),
	}
}

func (s *SupplementService) Log(ctx context.Context, userID string, input domain.LogSupplementInput) (*domain.SupplementIntake, error) {
	date, err := s.calendar.DateOrToday(input.Date)
	if err != nil {
		return nil, err
	}

	intake := &domain.SupplementIntake{
		UserID:     userID,
		Supplement: input.Supplement,
		Date:       date,
	}
	if err := intake.Validate(); err != nil {
		return nil, err
	}
	if err := s.intakeRepo.Create(ctx, intake); err != nil {
		return nil, err
	}

	s.invalidator.SupplementChanged(ctx, userID, date)
	return intake, nil
}

func (s *SupplementService) Delete(ctx context.Context, userID, id string) error {
	intake, err := s.intakeRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.intakeRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.invalidator.SupplementChanged(ctx, userID, intake.Date)
	return nil
}
