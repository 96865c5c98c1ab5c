package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/stats"
	"github.com/mansoorceksport/ironlog/internal/telemetry"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// unknownExerciseName labels sets whose exercise has been deleted
const unknownExerciseName = "?"

// WorkoutService logs, lists and deletes workout sessions
type WorkoutService struct {
	sessionRepo  domain.WorkoutSessionRepository
	setRepo      domain.WorkoutSetRepository
	exerciseRepo domain.ExerciseRepository
	planRepo     domain.TrainingPlanRepository
	intakeRepo   domain.SupplementIntakeRepository
	calendar     *Calendar
	cache        *QueryCache
	invalidator  *Invalidator
	metrics      *telemetry.Metrics
}

func NewWorkoutService(
	sessionRepo domain.WorkoutSessionRepository,
	setRepo domain.WorkoutSetRepository,
	exerciseRepo domain.ExerciseRepository,
	planRepo domain.TrainingPlanRepository,
	intakeRepo domain.SupplementIntakeRepository,
	calendar *Calendar,
	cache *QueryCache,
	metrics *telemetry.Metrics,
) *WorkoutService {
	return &WorkoutService{
		sessionRepo:  sessionRepo,
		setRepo:      setRepo,
		exerciseRepo: exerciseRepo,
		planRepo:     planRepo,
		intakeRepo:   intakeRepo,
		calendar:     calendar,
		cache:        cache,
		invalidator:  NewInvalidator(cache),
		metrics:      metrics,
	}
}

// StartFromPlan returns the plan's exercises in rank order, each with one
// empty set to fill in
func (s *WorkoutService) StartFromPlan(ctx context.Context, userID, planID string) (*domain.WorkoutDraft, error) {
	plan, err := s.planRepo.GetByID(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	draft := &domain.WorkoutDraft{
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Exercises: []domain.DraftExercise{},
	}

	for _, link := range plan.SortedExercises() {
		ex, err := s.exerciseRepo.GetByID(ctx, userID, link.ExerciseID)
		if err != nil {
			if errors.Is(err, domain.ErrExerciseNotFound) || errors.Is(err, domain.ErrInvalidID) {
				continue // graceful skip
			}
			return nil, err
		}
		draft.Exercises = append(draft.Exercises, domain.DraftExercise{
			ExerciseID:  ex.ID,
			Name:        ex.Name,
			MuscleGroup: ex.MuscleGroup,
			SortOrder:   link.SortOrder,
			Sets:        []domain.SetDraft{{SetNumber: 1}},
		})
	}

	return draft, nil
}

// LogSession creates a session and then its sets. set_number restarts at 1
// for every exercise entry.
func (s *WorkoutService) LogSession(ctx context.Context, userID string, input domain.LogSessionInput) (*domain.SessionDetail, error) {
	date, err := s.calendar.DateOrToday(input.Date)
	if err != nil {
		return nil, err
	}

	if len(input.Entries) == 0 {
		return nil, fmt.Errorf("%w: at least one exercise entry is required", domain.ErrValidation)
	}

	var sets []*domain.WorkoutSet
	exercises := make(map[string]*domain.Exercise)
	for _, entry := range input.Entries {
		if entry.ExerciseID == "" {
			return nil, fmt.Errorf("%w: exercise_id is required", domain.ErrValidation)
		}
		if len(entry.Sets) == 0 {
			return nil, fmt.Errorf("%w: exercise %s has no sets", domain.ErrValidation, entry.ExerciseID)
		}
		if _, ok := exercises[entry.ExerciseID]; !ok {
			ex, err := s.exerciseRepo.GetByID(ctx, userID, entry.ExerciseID)
			if err != nil {
				if errors.Is(err, domain.ErrExerciseNotFound) || errors.Is(err, domain.ErrInvalidID) {
					return nil, fmt.Errorf("%w: exercise %s does not exist", domain.ErrValidation, entry.ExerciseID)
				}
				return nil, err
			}
			exercises[entry.ExerciseID] = ex
		}

		for i, row := range entry.Sets {
			set, err := row.ToSet(entry.ExerciseID, i+1)
			if err != nil {
				return nil, err
			}
			set.UserID = userID
			set.Date = date
			sets = append(sets, set)
		}
	}

	var plan *domain.TrainingPlan
	if input.TrainingPlanID != "" {
		p, err := s.planRepo.GetByID(ctx, userID, input.TrainingPlanID)
		if err != nil {
			if errors.Is(err, domain.ErrPlanNotFound) || errors.Is(err, domain.ErrInvalidID) {
				return nil, fmt.Errorf("%w: training plan %s does not exist", domain.ErrValidation, input.TrainingPlanID)
			}
			return nil, err
		}
		plan = p
	}

	session := &domain.WorkoutSession{
		UserID:         userID,
		Date:           date,
		TrainingPlanID: input.TrainingPlanID,
		Notes:          strings.TrimSpace(input.Notes),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	for _, set := range sets {
		set.SessionID = session.ID
	}
	if err := s.setRepo.CreateMany(ctx, sets); err != nil {
		// Roll back so a failed log leaves no empty session behind
		if _, delErr := deleteSession(ctx, s.sessionRepo, s.setRepo, userID, session.ID); delErr != nil {
			log.WithError(delErr).WithField("session_id", session.ID).Error("failed to roll back session")
		}
		return nil, err
	}

	s.metrics.SessionLogged(ctx, "log", len(sets))
	s.invalidator.SessionChanged(ctx, userID, date, exerciseIDsOf(sets))

	planNames := map[string]string{}
	if plan != nil {
		planNames[plan.ID] = plan.Name
	}
	detail := buildSessionDetail(session, sets, exercises, planNames)
	return &detail, nil
}

// DeleteSession removes a session's sets, then the session
func (s *WorkoutService) DeleteSession(ctx context.Context, userID, id string) error {
	session, err := s.sessionRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	exerciseIDs, err := deleteSession(ctx, s.sessionRepo, s.setRepo, userID, id)
	if err != nil {
		return err
	}

	s.invalidator.SessionChanged(ctx, userID, session.Date, exerciseIDs)
	return nil
}

// DayView lists the sessions on date with their sets grouped by exercise,
// plus the supplements taken that day. An empty date means today.
func (s *WorkoutService) DayView(ctx context.Context, userID, date string) (*domain.DayView, error) {
	date, err := s.calendar.DateOrToday(date)
	if err != nil {
		return nil, err
	}

	return readThrough(ctx, s.cache, resourceSessions, cacheKey(userID, resourceSessions, date),
		func(ctx context.Context) (*domain.DayView, error) {
			return s.loadDayView(ctx, userID, date)
		})
}

func (s *WorkoutService) loadDayView(ctx context.Context, userID, date string) (*domain.DayView, error) {
	var (
		sessions []*domain.WorkoutSession
		intakes  []*domain.SupplementIntake
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.sessionRepo.List(gCtx, userID, domain.SessionFilter{Date: date})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		intakes, err = s.intakeRepo.ListByDate(gCtx, userID, date)
		if err != nil {
			return fmt.Errorf("failed to list supplement intake: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &domain.DayView{
		Date:        date,
		Sessions:    []domain.SessionDetail{},
		Supplements: []*domain.SupplementIntake{},
	}
	if intakes != nil {
		view.Supplements = intakes
	}
	if len(sessions) == 0 {
		return view, nil
	}

	sessionIDs := make([]string, len(sessions))
	for i, session := range sessions {
		sessionIDs[i] = session.ID
	}

	var (
		sets      []*domain.WorkoutSet
		exercises []*domain.Exercise
		plans     []*domain.TrainingPlan
	)

	g, gCtx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sets, err = s.setRepo.ListBySessions(gCtx, userID, sessionIDs)
		return err
	})
	g.Go(func() error {
		var err error
		exercises, err = s.exerciseRepo.List(gCtx, userID, domain.ExerciseFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		plans, err = s.planRepo.List(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load day view: %w", err)
	}

	exerciseByID := make(map[string]*domain.Exercise, len(exercises))
	for _, ex := range exercises {
		exerciseByID[ex.ID] = ex
	}
	planNames := make(map[string]string, len(plans))
	for _, p := range plans {
		planNames[p.ID] = p.Name
	}

	bySession := stats.GroupBy(sets, func(set *domain.WorkoutSet) string { return set.SessionID })
	for _, session := range sessions {
		view.Sessions = append(view.Sessions, buildSessionDetail(session, bySession.Get(session.ID), exerciseByID, planNames))
	}
	return view, nil
}

// buildSessionDetail groups a session's sets by exercise in first-logged order
func buildSessionDetail(
	session *domain.WorkoutSession,
	sets []*domain.WorkoutSet,
	exercises map[string]*domain.Exercise,
	planNames map[string]string,
) domain.SessionDetail {
	detail := domain.SessionDetail{
		Session:   session,
		PlanName:  planNames[session.TrainingPlanID],
		Exercises: []domain.ExerciseSets{},
	}

	groups := stats.GroupBy(sets, func(set *domain.WorkoutSet) string { return set.ExerciseID })
	for exerciseID, group := range groups.All() {
		block := domain.ExerciseSets{
			ExerciseID: exerciseID,
			Name:       unknownExerciseName,
			Sets:       make([]domain.SetView, 0, len(group)),
		}
		if ex, ok := exercises[exerciseID]; ok {
			block.Name = ex.Name
			block.MuscleGroup = ex.MuscleGroup
		}
		for _, set := range group {
			block.Sets = append(block.Sets, domain.SetView{
				ID:        set.ID,
				SetNumber: set.SetNumber,
				WeightKg:  set.WeightKg,
				Reps:      set.Reps,
			})
		}
		detail.Exercises = append(detail.Exercises, block)
	}
	return detail
}

// deleteSession removes the sets and then the session, returning the
// exercises the sets belonged to
func deleteSession(
	ctx context.Context,
	sessionRepo domain.WorkoutSessionRepository,
	setRepo domain.WorkoutSetRepository,
	userID, sessionID string,
) ([]string, error) {
	sets, err := setRepo.ListBySessions(ctx, userID, []string{sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list session sets: %w", err)
	}
	if err := setRepo.DeleteBySession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	if err := sessionRepo.Delete(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return exerciseIDsOf(sets), nil
}

func exerciseIDsOf(sets []*domain.WorkoutSet) []string {
	return stats.GroupBy(sets, func(set *domain.WorkoutSet) string { return set.ExerciseID }).Keys()
}
