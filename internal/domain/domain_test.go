package domain

import (
	"errors"
	"testing"
)

func TestParseMuscleGroup(t *testing.T) {
	tests := []struct {
		in      string
		want    MuscleGroup
		wantErr bool
	}{
		{in: "chest", want: MuscleGroupChest},
		{in: " Back ", want: MuscleGroupBack},
		{in: "full-body", want: MuscleGroupFullBody},
		{in: "Full Body", want: MuscleGroupFullBody},
		{in: "glutes", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMuscleGroup(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMuscleGroup) {
					t.Fatalf("expected ErrInvalidMuscleGroup, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExerciseValidate(t *testing.T) {
	ex := &Exercise{Name: "  Bench Press ", MuscleGroup: "CHEST"}
	if err := ex.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Name != "Bench Press" || ex.MuscleGroup != MuscleGroupChest {
		t.Errorf("not normalized: %+v", ex)
	}

	if err := (&Exercise{MuscleGroup: "chest"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("missing name: got %v", err)
	}
	if err := (&Exercise{Name: "Squat"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("missing muscle group: got %v", err)
	}
}

func TestTrainingPlanOrdering(t *testing.T) {
	plan := &TrainingPlan{Name: "Push"}
	plan.SetExerciseIDs([]string{"a", "b", "c"})

	for i, l := range plan.Exercises {
		if l.SortOrder != i {
			t.Errorf("link %d has sort_order %d", i, l.SortOrder)
		}
	}

	// gaps and arbitrary storage order are fine, rank decides
	plan.Exercises = []PlanExercise{
		{ExerciseID: "c", SortOrder: 10},
		{ExerciseID: "a", SortOrder: 1},
		{ExerciseID: "b", SortOrder: 4},
	}
	got := plan.OrderedExerciseIDs()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan.Exercises = append(plan.Exercises, PlanExercise{ExerciseID: "d", SortOrder: 4})
	if err := plan.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate sort_order: got %v", err)
	}
}

func TestSetInputToSet(t *testing.T) {
	tests := []struct {
		name       string
		in         SetInput
		wantWeight float64
		wantReps   int
		wantErr    bool
	}{
		{name: "numbers", in: SetInput{WeightKg: 60.0, Reps: 8.0}, wantWeight: 60, wantReps: 8},
		{name: "strings", in: SetInput{WeightKg: "62,5", Reps: "10"}, wantWeight: 62.5, wantReps: 10},
		{name: "empty row", in: SetInput{}, wantWeight: 0, wantReps: 0},
		{name: "garbage", in: SetInput{WeightKg: "heavy", Reps: "many"}, wantWeight: 0, wantReps: 0},
		{name: "negative weight", in: SetInput{WeightKg: -5.0, Reps: 5.0}, wantErr: true},
		{name: "negative reps", in: SetInput{WeightKg: 5.0, Reps: "-1"}, wantErr: true},
		{name: "weight at limit", in: SetInput{WeightKg: 1000.0, Reps: 1.0}, wantWeight: 1000, wantReps: 1},
		{name: "absurd weight", in: SetInput{WeightKg: 1e308, Reps: 10.0}, wantErr: true},
		{name: "absurd reps", in: SetInput{WeightKg: 20.0, Reps: "10001"}, wantErr: true},
		{name: "overflowing reps", in: SetInput{WeightKg: 20.0, Reps: "1e30"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := tt.in.ToSet("ex1", 1)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if set.WeightKg != tt.wantWeight || set.Reps != tt.wantReps {
				t.Errorf("got %v x %d, want %v x %d", set.WeightKg, set.Reps, tt.wantWeight, tt.wantReps)
			}
			if set.ExerciseID != "ex1" || set.SetNumber != 1 {
				t.Errorf("unexpected identity: %+v", set)
			}
		})
	}
}
