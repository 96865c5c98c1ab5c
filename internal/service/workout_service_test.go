package service

import (
	"context"
	"testing"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutService_StartFromPlan(t *testing.T) {
	svc := newServices(t, "2024-01-10", nil)
	ctx := context.Background()

	a := svc.mustExercise(t, "u1", "A", domain.MuscleGroupChest)
	b := svc.mustExercise(t, "u1", "B", domain.MuscleGroupBack)
	plan, err := svc.plans.Create(ctx, "u1", PlanInput{Name: "AB", ExerciseIDs: []string{b.ID, a.ID}})
	require.NoError(t, err)

	draft, err := svc.workouts.StartFromPlan(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "AB", draft.PlanName)
	require.Len(t, draft.Exercises, 2)
	assert.Equal(t, b.ID, draft.Exercises[0].ExerciseID)
	assert.Equal(t, a.ID, draft.Exercises[1].ExerciseID)
	assert.Equal(t, []domain.SetDraft{{SetNumber: 1}}, draft.Exercises[0].Sets)

	_, err = svc.workouts.StartFromPlan(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestWorkoutService_LogSession(t *testing.T) {
	svc := newServices(t, "2024-01-10", nil)
	ctx := context.Background()

	bench := svc.mustExercise(t, "u1", "Bench", domain.MuscleGroupChest)
	row := svc.mustExercise(t, "u1", "Row", domain.MuscleGroupBack)

	detail := svc.mustLog(t, "u1", domain.LogSessionInput{
		Date:  "2024-01-08",
		Notes: "  felt strong ",
		Entries: []domain.ExerciseEntry{
			entry(bench.ID, [2]any{60.0, 8.0}, [2]any{"62,5", "6"}),
			entry(row.ID, [2]any{50, 10}),
		},
	})

	assert.Equal(t, "2024-01-08", detail.Session.Date)
	assert.Equal(t, "felt strong", detail.Session.Notes)
	require.Len(t, detail.Exercises, 2)
	assert.Equal(t, "Bench", detail.Exercises[0].Name)
	assert.Equal(t, []domain.SetView{
		{ID: detail.Exercises[0].Sets[0].ID, SetNumber: 1, WeightKg: 60, Reps: 8},
		{ID: detail.Exercises[0].Sets[1].ID, SetNumber: 2, WeightKg: 62.5, Reps: 6},
	}, detail.Exercises[0].Sets)
	assert.Equal(t, 1, detail.Exercises[1].Sets[0].SetNumber)

	t.Run("defaults to today", func(t *testing.T) {
		d := svc.mustLog(t, "u1", domain.LogSessionInput{Entries: []domain.ExerciseEntry{entry(row.ID, [2]any{1, 1})}})
		assert.Equal(t, "2024-01-10", d.Session.Date)
	})

	tests := []struct {
		name  string
		input domain.LogSessionInput
	}{
		{name: "no entries", input: domain.LogSessionInput{}},
		{name: "bad date", input: domain.LogSessionInput{Date: "10/01/2024", Entries: []domain.ExerciseEntry{entry(row.ID, [2]any{1, 1})}}},
		{name: "negative weight", input: domain.LogSessionInput{Entries: []domain.ExerciseEntry{entry(row.ID, [2]any{-1, 1})}}},
		{name: "negative reps", input: domain.LogSessionInput{Entries: []domain.ExerciseEntry{entry(row.ID, [2]any{1, -3})}}},
		{name: "entry without sets", input: domain.LogSessionInput{Entries: []domain.ExerciseEntry{{ExerciseID: row.ID}}}},
		{name: "unknown exercise", input: domain.LogSessionInput{Entries: []domain.ExerciseEntry{entry("nope", [2]any{1, 1})}}},
		{name: "unknown plan", input: domain.LogSessionInput{TrainingPlanID: "nope", Entries: []domain.ExerciseEntry{entry(row.ID, [2]any{1, 1})}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(svc.store.sessions)
			_, err := svc.workouts.LogSession(ctx, "u1", tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Len(t, svc.store.sessions, before)
		})
	}

	t.Run("failed set insert rolls back session", func(t *testing.T) {
		svc.store.failSetInsert = true
		defer func() { svc.store.failSetInsert = false }()

		before := len(svc.store.sessions)
		_, err := svc.workouts.LogSession(ctx, "u1", domain.LogSessionInput{Entries: []domain.ExerciseEntry{entry(row.ID, [2]any{1, 1})}})
		require.Error(t, err)
		assert.Len(t, svc.store.sessions, before)
	})
}

func TestWorkoutService_DayViewGroupsAndDeletes(t *testing.T) {
	svc := newServices(t, "2024-01-10", nil)
	ctx := context.Background()

	a := svc.mustExercise(t, "u1", "A", domain.MuscleGroupChest)
	b := svc.mustExercise(t, "u1", "B", domain.MuscleGroupBack)
	gone := svc.mustExercise(t, "u1", "Gone", domain.MuscleGroupLegs)

	first := svc.mustLog(t, "u1", domain.LogSessionInput{
		Date: "2024-01-09",
		Entries: []domain.ExerciseEntry{
			entry(b.ID, [2]any{10, 10}),
			entry(a.ID, [2]any{20, 5}, [2]any{25, 5}),
			entry(gone.ID, [2]any{30, 3}),
		},
	})
	svc.mustLog(t, "u1", domain.LogSessionInput{Date: "2024-01-09", Entries: []domain.ExerciseEntry{entry(a.ID, [2]any{22, 5})}})
	svc.mustLog(t, "u1", domain.LogSessionInput{Date: "2024-01-08", Entries: []domain.ExerciseEntry{entry(a.ID, [2]any{1, 1})}})
	require.NoError(t, svc.exercises.Delete(ctx, "u1", gone.ID))

	day, err := svc.workouts.DayView(ctx, "u1", "2024-01-09")
	require.NoError(t, err)
	require.Len(t, day.Sessions, 2)

	blocks := day.Sessions[0].Exercises
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{b.ID, a.ID, gone.ID}, []string{blocks[0].ExerciseID, blocks[1].ExerciseID, blocks[2].ExerciseID})
	assert.Equal(t, []float64{20, 25}, []float64{blocks[1].Sets[0].WeightKg, blocks[1].Sets[1].WeightKg})
	assert.Equal(t, "?", blocks[2].Name)

	_, err = svc.workouts.DayView(ctx, "u1", "yesterday")
	assert.ErrorIs(t, err, domain.ErrValidation)

	empty, err := svc.workouts.DayView(ctx, "u1", "2023-12-31")
	require.NoError(t, err)
	assert.Empty(t, empty.Sessions)

	require.NoError(t, svc.workouts.DeleteSession(ctx, "u1", first.Session.ID))
	day, err = svc.workouts.DayView(ctx, "u1", "2024-01-09")
	require.NoError(t, err)
	assert.Len(t, day.Sessions, 1)

	sets, err := fakeSetRepo{svc.store}.ListBySessions(ctx, "u1", []string{first.Session.ID})
	require.NoError(t, err)
	assert.Empty(t, sets)

	assert.ErrorIs(t, svc.workouts.DeleteSession(ctx, "u1", first.Session.ID), domain.ErrSessionNotFound)
}
