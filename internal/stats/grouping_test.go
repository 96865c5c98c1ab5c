package stats_test

import (
	"testing"

	"github.com/mansoorceksport/ironlog/internal/stats"
	"github.com/stretchr/testify/assert"
)

func TestGroupByExercise_PreservesOrder(t *testing.T) {
	sets := []stats.SetRecord{
		{ExerciseID: "squat", Weight: 100, Reps: 5},
		{ExerciseID: "bench", Weight: 80, Reps: 5},
		{ExerciseID: "squat", Weight: 105, Reps: 5},
		{ExerciseID: "row", Weight: 60, Reps: 10},
		{ExerciseID: "bench", Weight: 82.5, Reps: 4},
		{ExerciseID: "squat", Weight: 110, Reps: 3},
	}

	groups := stats.GroupByExercise(sets)

	assert.Len(t, groups, 3)
	assert.Equal(t, "squat", groups[0].ExerciseID)
	assert.Equal(t, "bench", groups[1].ExerciseID)
	assert.Equal(t, "row", groups[2].ExerciseID)

	assert.Equal(t, []float64{100, 105, 110}, weights(groups[0].Sets))
	assert.Equal(t, []float64{80, 82.5}, weights(groups[1].Sets))
	assert.Equal(t, []float64{60}, weights(groups[2].Sets))
}

func TestOrderedGroups(t *testing.T) {
	g := stats.NewOrderedGroups[string, int]()
	g.Add("b", 1)
	g.Add("a", 2)
	g.Add("b", 3)

	assert.Equal(t, []string{"b", "a"}, g.Keys())
	assert.Equal(t, []int{1, 3}, g.Get("b"))
	assert.Nil(t, g.Get("missing"))
	assert.Equal(t, 2, g.Len())

	var keys []string
	for k, vs := range g.All() {
		keys = append(keys, k)
		assert.NotEmpty(t, vs)
	}
	assert.Equal(t, []string{"b", "a"}, keys)

	// Keys returns a copy
	ks := g.Keys()
	ks[0] = "mutated"
	assert.Equal(t, "b", g.Keys()[0])
}

func TestGroupBy_Empty(t *testing.T) {
	g := stats.GroupBy([]int(nil), func(i int) int { return i })
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, stats.GroupByExercise(nil))
}

func weights(sets []stats.SetRecord) []float64 {
	out := make([]float64, 0, len(sets))
	for _, s := range sets {
		out = append(out, s.Weight)
	}
	return out
}

func TestOrderedGroups_ResultsDoNotAlias(t *testing.T) {
	g := stats.NewOrderedGroups[string, int]()
	for _, v := range []int{1, 2, 3} {
		g.Add("a", v)
	}

	extended := append(g.Get("a"), 99)
	g.Add("a", 4)

	assert.Equal(t, []int{1, 2, 3, 99}, extended)
	assert.Equal(t, []int{1, 2, 3, 4}, g.Get("a"))

	for _, vs := range g.All() {
		_ = append(vs, 100)
	}
	g.Add("a", 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, g.Get("a"))
}
