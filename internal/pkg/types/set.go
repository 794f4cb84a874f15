package types

import (
	"cmp"
	"maps"
	"slices"
)

// Set is a generic hash set for comparable types.
type Set[T comparable] map[T]struct{}

// NewSet creates a Set holding the provided elements.
func NewSet[T comparable](data ...T) Set[T] {
	set := make(Set[T], len(data))
	set.Add(data...)
	return set
}

// Add inserts one or more elements into the set.
func (s Set[T]) Add(values ...T) {
	for _, val := range values {
		s[val] = struct{}{}
	}
}

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// SortedSlice returns the elements of an ordered set in ascending order.
func SortedSlice[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}
