// Package filters holds the filter values charts select with and the
// ordered set each chart keeps them in.
package filters

import (
	"cmp"
	"fmt"
	"slices"
)

// TwoD selects a single (key, value) coordinate of a two-dimensional chart.
type TwoD[K, V cmp.Ordered] struct {
	Key   K
	Value V
}

// NewTwoD builds a two-dimensional filter for the given coordinate.
func NewTwoD[K, V cmp.Ordered](key K, value V) TwoD[K, V] {
	return TwoD[K, V]{Key: key, Value: value}
}

// String implements fmt.Stringer.
func (f TwoD[K, V]) String() string {
	return fmt.Sprintf("%v × %v", f.Key, f.Value)
}

// Set is an insertion-ordered collection of distinct filters.
type Set[F comparable] struct {
	order []F
	index map[F]struct{}
}

// NewSet creates an empty filter set.
func NewSet[F comparable]() *Set[F] {
	return &Set[F]{index: make(map[F]struct{})}
}

// Has reports whether f is in the set.
func (s *Set[F]) Has(f F) bool {
	_, ok := s.index[f]
	return ok
}

// Len returns the number of filters.
func (s *Set[F]) Len() int {
	return len(s.order)
}

// Empty reports whether no filter is active.
func (s *Set[F]) Empty() bool {
	return len(s.order) == 0
}

// Add inserts f and reports whether it was absent.
func (s *Set[F]) Add(f F) bool {
	if s.Has(f) {
		return false
	}
	if s.index == nil {
		s.index = make(map[F]struct{})
	}
	s.index[f] = struct{}{}
	s.order = append(s.order, f)
	return true
}

// Remove deletes f and reports whether it was present.
func (s *Set[F]) Remove(f F) bool {
	if !s.Has(f) {
		return false
	}
	delete(s.index, f)
	s.order = slices.DeleteFunc(s.order, func(x F) bool { return x == f })
	return true
}

// Toggle removes f when present and adds it otherwise. It returns true when
// f is in the set afterwards.
func (s *Set[F]) Toggle(f F) bool {
	if s.Remove(f) {
		return false
	}
	s.Add(f)
	return true
}

// Reset removes every filter.
func (s *Set[F]) Reset() {
	s.order = nil
	s.index = make(map[F]struct{})
}

// All returns the filters in insertion order.
func (s *Set[F]) All() []F {
	return slices.Clone(s.order)
}
