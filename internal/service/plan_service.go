package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/telemetry"
)

// PlanInput creates or replaces a plan. Exercise order is the list order.
type PlanInput struct {
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercise_ids"`
}

// PlanService manages training plans and the "completed today" toggle
type PlanService struct {
	planRepo     domain.TrainingPlanRepository
	exerciseRepo domain.ExerciseRepository
	sessionRepo  domain.WorkoutSessionRepository
	setRepo      domain.WorkoutSetRepository
	calendar     *Calendar
	cache        *QueryCache
	invalidator  *Invalidator
	metrics      *telemetry.Metrics
}

func NewPlanService(
	planRepo domain.TrainingPlanRepository,
	exerciseRepo domain.ExerciseRepository,
	sessionRepo domain.WorkoutSessionRepository,
	setRepo domain.WorkoutSetRepository,
	calendar *Calendar,
	cache *QueryCache,
	metrics *telemetry.Metrics,
) *PlanService {
	return &PlanService{
		planRepo:     planRepo,
		exerciseRepo: exerciseRepo,
		sessionRepo:  sessionRepo,
		setRepo:      setRepo,
		calendar:     calendar,
		cache:        cache,
		invalidator:  NewInvalidator(cache),
		metrics:      metrics,
	}
}

// List returns the user's plans, newest first
func (s *PlanService) List(ctx context.Context, userID string) ([]*domain.TrainingPlan, error) {
	return readThrough(ctx, s.cache, resourcePlans, cacheKey(userID, resourcePlans),
		func(ctx context.Context) ([]*domain.TrainingPlan, error) {
			return s.planRepo.List(ctx, userID)
		})
}

func (s *PlanService) Get(ctx context.Context, userID, id string) (*domain.TrainingPlan, error) {
	return s.planRepo.GetByID(ctx, userID, id)
}

func (s *PlanService) Create(ctx context.Context, userID string, input PlanInput) (*domain.TrainingPlan, error) {
	plan := &domain.TrainingPlan{UserID: userID, Name: input.Name}
	if err := s.applyExercises(ctx, userID, plan, input.ExerciseIDs); err != nil {
		return nil, err
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.invalidator.PlanChanged(ctx, userID)
	return plan, nil
}

// Update replaces the plan's name and its whole exercise list
func (s *PlanService) Update(ctx context.Context, userID, id string, input PlanInput) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	plan.Name = input.Name
	if err := s.applyExercises(ctx, userID, plan, input.ExerciseIDs); err != nil {
		return nil, err
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.invalidator.PlanChanged(ctx, userID)
	return plan, nil
}

// Delete removes the plan. Sessions logged from it are kept and unlinked.
func (s *PlanService) Delete(ctx context.Context, userID, id string) error {
	if err := s.planRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if err := s.sessionRepo.ClearPlan(ctx, userID, id); err != nil {
		return fmt.Errorf("plan deleted but sessions not unlinked: %w", err)
	}

	s.invalidator.PlanChanged(ctx, userID)
	return nil
}

// ToggleToday deletes today's sessions for the plan if there are any,
// otherwise logs an empty session for it dated today.
func (s *PlanService) ToggleToday(ctx context.Context, userID, planID string) (domain.ToggleResult, error) {
	if _, err := s.planRepo.GetByID(ctx, userID, planID); err != nil {
		return "", err
	}

	today := s.calendar.Today()
	existing, err := s.sessionRepo.List(ctx, userID, domain.SessionFilter{Date: today, TrainingPlanID: planID})
	if err != nil {
		return "", fmt.Errorf("failed to look up today's sessions: %w", err)
	}

	if len(existing) > 0 {
		var touched []string
		for _, session := range existing {
			exerciseIDs, err := deleteSession(ctx, s.sessionRepo, s.setRepo, userID, session.ID)
			if err != nil {
				return "", err
			}
			touched = append(touched, exerciseIDs...)
		}
		s.invalidator.SessionChanged(ctx, userID, today, touched)
		return domain.ToggleDeleted, nil
	}

	session := &domain.WorkoutSession{UserID: userID, Date: today, TrainingPlanID: planID}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}

	s.metrics.SessionLogged(ctx, "toggle", 0)
	s.invalidator.SessionChanged(ctx, userID, today, nil)
	return domain.ToggleCreated, nil
}

// CompletedToday returns ids of plans with a session dated today, in the
// order they were first logged
func (s *PlanService) CompletedToday(ctx context.Context, userID string) ([]string, error) {
	sessions, err := s.sessionRepo.List(ctx, userID, domain.SessionFilter{Date: s.calendar.Today()})
	if err != nil {
		return nil, err
	}

	ids := []string{}
	seen := make(map[string]bool)
	for _, session := range sessions {
		if session.TrainingPlanID != "" && !seen[session.TrainingPlanID] {
			seen[session.TrainingPlanID] = true
			ids = append(ids, session.TrainingPlanID)
		}
	}
	return ids, nil
}

// applyExercises checks every id belongs to an exercise of the user and
// ranks them by position
func (s *PlanService) applyExercises(ctx context.Context, userID string, plan *domain.TrainingPlan, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: exercise %s is listed twice", domain.ErrValidation, id)
		}
		seen[id] = true

		if _, err := s.exerciseRepo.GetByID(ctx, userID, id); err != nil {
			if errors.Is(err, domain.ErrExerciseNotFound) || errors.Is(err, domain.ErrInvalidID) {
				return fmt.Errorf("%w: exercise %s does not exist", domain.ErrValidation, id)
			}
			return err
		}
	}

	plan.SetExerciseIDs(ids)
	return plan.Validate()
}
