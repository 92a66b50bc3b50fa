// Package scale provides the ordinal band scale used to position heat map
// rows and columns.
package scale

import (
	"cmp"
	"math"
)

// Ordinal maps a discrete domain onto evenly spaced bands of a numeric range.
// The zero value has an empty domain and maps nothing.
type Ordinal[T cmp.Ordered] struct {
	domain []T
	index  map[T]int
	rng    []float64
	band   float64
}

// NewOrdinal returns a scale over the given domain. Repeated values keep
// their first position.
func NewOrdinal[T cmp.Ordered](domain []T) *Ordinal[T] {
	s := &Ordinal[T]{}
	s.SetDomain(domain)
	return s
}

// SetDomain replaces the domain and clears any computed range.
func (s *Ordinal[T]) SetDomain(domain []T) *Ordinal[T] {
	s.domain = make([]T, 0, len(domain))
	s.index = make(map[T]int, len(domain))
	for _, v := range domain {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = len(s.domain)
		s.domain = append(s.domain, v)
	}
	s.rng = nil
	s.band = 0
	return s
}

// Domain returns a copy of the domain in order.
func (s *Ordinal[T]) Domain() []T {
	return append([]T(nil), s.domain...)
}

// Len returns the number of domain values.
func (s *Ordinal[T]) Len() int {
	return len(s.domain)
}

// RangeRoundBands divides [start, stop] into integer-aligned bands, one per
// domain value, centering the rounding remainder. A reversed interval
// (stop < start) assigns the first domain value to the band nearest start.
func (s *Ordinal[T]) RangeRoundBands(start, stop float64) *Ordinal[T] {
	n := len(s.domain)
	s.rng = nil
	s.band = 0
	if n == 0 {
		return s
	}

	reverse := stop < start
	lo, hi := start, stop
	if reverse {
		lo, hi = stop, start
	}
	step := math.Floor((hi - lo) / float64(n))
	remainder := hi - lo - float64(n)*step
	offset := lo + math.Round(remainder/2)

	s.rng = make([]float64, n)
	for i := range n {
		s.rng[i] = offset + float64(i)*step
	}
	if reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			s.rng[i], s.rng[j] = s.rng[j], s.rng[i]
		}
	}
	s.band = step
	return s
}

// Band returns the width of a single band after RangeRoundBands.
func (s *Ordinal[T]) Band() float64 {
	return s.band
}

// Position returns the band start for v. The second result is false when v
// is outside the domain or no range has been computed.
func (s *Ordinal[T]) Position(v T) (float64, bool) {
	i, ok := s.index[v]
	if !ok || i >= len(s.rng) {
		return 0, false
	}
	return s.rng[i], true
}

// Index returns the domain position of v.
func (s *Ordinal[T]) Index(v T) (int, bool) {
	i, ok := s.index[v]
	return i, ok
}
