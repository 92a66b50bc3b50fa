package heatmap

import (
	"cmp"
	"slices"

	"github.com/kpumuk/kiqheat/internal/scale"
)

// deriveDomain collects the accessor values of data in ascending order with
// adjacent duplicates removed.
func deriveDomain[D any, T cmp.Ordered](data []D, accessor func(D) T) []T {
	values := make([]T, 0, len(data))
	for _, d := range data {
		values = append(values, accessor(d))
	}
	slices.Sort(values)
	return slices.Compact(values)
}

// Rows returns the row scale: the override domain if one was set, otherwise
// the sorted distinct row values of the current data. A new scale is built
// on every call.
func (c *Chart[D, K, V]) Rows() *scale.Ordinal[V] {
	return c.rowsFor(c.Data())
}

func (c *Chart[D, K, V]) rowsFor(data []D) *scale.Ordinal[V] {
	if c.rows != nil {
		return scale.NewOrdinal(c.rows)
	}
	return scale.NewOrdinal(deriveDomain(data, c.accessors.Value))
}

// SetRows overrides the row domain. A nil domain restores derivation from
// the data.
func (c *Chart[D, K, V]) SetRows(domain []V) *Chart[D, K, V] {
	c.rows = slices.Clone(domain)
	return c
}

// Cols returns the column scale: the override domain if one was set,
// otherwise the sorted distinct column keys of the current data. A new
// scale is built on every call.
func (c *Chart[D, K, V]) Cols() *scale.Ordinal[K] {
	return c.colsFor(c.Data())
}

func (c *Chart[D, K, V]) colsFor(data []D) *scale.Ordinal[K] {
	if c.cols != nil {
		return scale.NewOrdinal(c.cols)
	}
	return scale.NewOrdinal(deriveDomain(data, c.accessors.Key))
}

// SetCols overrides the column domain. A nil domain restores derivation from
// the data.
func (c *Chart[D, K, V]) SetCols(domain []K) *Chart[D, K, V] {
	c.cols = slices.Clone(domain)
	return c
}
