package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/stats"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFrequencyMonths = 6
	maxFrequencyMonths     = 24
	monthLayout            = "2006-01"
)

// StatsService computes calendar and per-exercise statistics from a
// snapshot of the user's sessions and sets
type StatsService struct {
	sessionRepo  domain.WorkoutSessionRepository
	setRepo      domain.WorkoutSetRepository
	exerciseRepo domain.ExerciseRepository
	calendar     *Calendar
	cache        *QueryCache
}

func NewStatsService(
	sessionRepo domain.WorkoutSessionRepository,
	setRepo domain.WorkoutSetRepository,
	exerciseRepo domain.ExerciseRepository,
	calendar *Calendar,
	cache *QueryCache,
) *StatsService {
	return &StatsService{
		sessionRepo:  sessionRepo,
		setRepo:      setRepo,
		exerciseRepo: exerciseRepo,
		calendar:     calendar,
		cache:        cache,
	}
}

// Overview returns the streak, the training-day count of month (YYYY-MM,
// default current), trained dates and the last months of frequency.
func (s *StatsService) Overview(ctx context.Context, userID, month string, months int) (*domain.Overview, error) {
	now := s.calendar.Now()
	today := stats.FormatDate(stats.DateOf(now))

	ref := now
	if month != "" {
		parsed, err := time.Parse(monthLayout, month)
		if err != nil {
			return nil, fmt.Errorf("%w: month must be YYYY-MM", domain.ErrValidation)
		}
		ref = parsed
	}
	month = ref.Format(monthLayout)

	if months == 0 {
		months = defaultFrequencyMonths
	}
	if months < 1 || months > maxFrequencyMonths {
		return nil, fmt.Errorf("%w: months must be between 1 and %d", domain.ErrValidation, maxFrequencyMonths)
	}

	// today is part of the key so the streak rolls over at midnight
	key := cacheKey(userID, resourceOverview, today, month, strconv.Itoa(months))
	return readThrough(ctx, s.cache, resourceOverview, key, func(ctx context.Context) (*domain.Overview, error) {
		dates, err := s.sessionRepo.ListDates(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list session dates: %w", err)
		}

		return &domain.Overview{
			Today:               today,
			Streak:              stats.Streak(dates, now),
			Month:               month,
			MonthlyTrainingDays: stats.MonthlyTrainingDays(dates, ref),
			TrainedDates:        stats.TrainedDates(dates),
			Frequency:           stats.TrainingFrequency(dates, now, months),
		}, nil
	})
}

// ExerciseStats returns every exercise of the library with its aggregate.
// Untrained exercises get zero stats.
func (s *StatsService) ExerciseStats(ctx context.Context, userID string) ([]domain.ExerciseWithStats, error) {
	return readThrough(ctx, s.cache, resourceExerciseStats, cacheKey(userID, resourceExerciseStats),
		func(ctx context.Context) ([]domain.ExerciseWithStats, error) {
			var (
				exercises []*domain.Exercise
				sets      []*domain.WorkoutSet
			)

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				exercises, err = s.exerciseRepo.List(gCtx, userID, domain.ExerciseFilter{})
				return err
			})
			g.Go(func() error {
				var err error
				sets, err = s.setRepo.ListAll(gCtx, userID)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, fmt.Errorf("failed to load exercise stats: %w", err)
			}

			aggregated := stats.AggregateExercises(domain.Records(sets))
			result := make([]domain.ExerciseWithStats, 0, len(exercises))
			for _, ex := range exercises {
				result = append(result, domain.ExerciseWithStats{
					Exercise: ex,
					Stats:    aggregated[ex.ID], // zero value when never trained
				})
			}
			return result, nil
		})
}

// Progress returns the best weight per training day for one exercise
func (s *StatsService) Progress(ctx context.Context, userID, exerciseID string) ([]stats.ProgressPoint, error) {
	return readThrough(ctx, s.cache, resourceProgress, cacheKey(userID, resourceProgress, exerciseID),
		func(ctx context.Context) ([]stats.ProgressPoint, error) {
			var sets []*domain.WorkoutSet

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				_, err := s.exerciseRepo.GetByID(gCtx, userID, exerciseID)
				return err
			})
			g.Go(func() error {
				var err error
				sets, err = s.setRepo.ListByExercise(gCtx, userID, exerciseID)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}

			return stats.ProgressSeries(domain.Records(sets)), nil
		})
}
