package stats

import (
	"iter"
	"slices"
)

// OrderedGroups maps keys to lists while remembering the order in which keys
// were first added. Values keep their insertion order within a key.
type OrderedGroups[K comparable, V any] struct {
	keys   []K
	groups map[K][]V
}

func NewOrderedGroups[K comparable, V any]() *OrderedGroups[K, V] {
	return &OrderedGroups[K, V]{groups: make(map[K][]V)}
}

// Add appends v to the group for key.
func (g *OrderedGroups[K, V]) Add(key K, v V) {
	if _, ok := g.groups[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.groups[key] = append(g.groups[key], v)
}

// Keys returns keys in first-seen order.
func (g *OrderedGroups[K, V]) Keys() []K {
	return append([]K(nil), g.keys...)
}

// Get returns the values for key. Appending to the result never touches
// the group.
func (g *OrderedGroups[K, V]) Get(key K) []V {
	return slices.Clip(g.groups[key])
}

func (g *OrderedGroups[K, V]) Len() int {
	return len(g.keys)
}

// All yields each key with its values in first-seen order.
func (g *OrderedGroups[K, V]) All() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		for _, k := range g.keys {
			if !yield(k, slices.Clip(g.groups[k])) {
				return
			}
		}
	}
}

// GroupBy groups items by key, preserving first appearance of each key and
// the original order of items inside a group.
func GroupBy[K comparable, V any](items []V, key func(V) K) *OrderedGroups[K, V] {
	g := NewOrderedGroups[K, V]()
	for _, item := range items {
		g.Add(key(item), item)
	}
	return g
}

// ExerciseGroup is the day-view listing of one exercise's sets.
type ExerciseGroup struct {
	ExerciseID string
	Sets       []SetRecord
}

// GroupByExercise groups sets by exercise for display.
func GroupByExercise(sets []SetRecord) []ExerciseGroup {
	groups := GroupBy(sets, func(s SetRecord) string { return s.ExerciseID })
	out := make([]ExerciseGroup, 0, groups.Len())
	for id, grouped := range groups.All() {
		out = append(out, ExerciseGroup{ExerciseID: id, Sets: grouped})
	}
	return out
}
