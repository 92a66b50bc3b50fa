// Package crossfilter filters one record set along several dimensions and
// aggregates it into groups that follow every filter but their own.
package crossfilter

import "sync"

// Dataset holds the records shared by all dimensions.
type Dataset[R any] struct {
	mu      sync.RWMutex
	records []R
	dims    []*Dimension[R]
}

// New creates a dataset over records.
func New[R any](records []R) *Dataset[R] {
	return &Dataset[R]{records: records}
}

// Replace swaps the record set. Dimension filters are kept.
func (d *Dataset[R]) Replace(records []R) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = records
}

// Size returns the total number of records.
func (d *Dataset[R]) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// Filtered returns the records that pass every dimension filter.
func (d *Dataset[R]) Filtered() []R {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []R
	for _, r := range d.records {
		if d.passes(r, nil) {
			out = append(out, r)
		}
	}
	return out
}

// passes reports whether r satisfies every dimension filter except skip's.
// Callers hold d.mu.
func (d *Dataset[R]) passes(r R, skip *Dimension[R]) bool {
	for _, dim := range d.dims {
		if dim == skip || dim.filter == nil {
			continue
		}
		if !dim.filter(r) {
			return false
		}
	}
	return true
}

// Dimension creates a new dimension with no filter.
func (d *Dataset[R]) Dimension(name string) *Dimension[R] {
	d.mu.Lock()
	defer d.mu.Unlock()
	dim := &Dimension[R]{ds: d, name: name}
	d.dims = append(d.dims, dim)
	return dim
}

// Dimension is one filterable axis of a dataset.
type Dimension[R any] struct {
	ds     *Dataset[R]
	name   string
	filter func(R) bool
}

// Name returns the dimension name.
func (dim *Dimension[R]) Name() string {
	return dim.name
}

// FilterFunc restricts the dataset to records for which fn returns true.
// A nil fn clears the filter.
func (dim *Dimension[R]) FilterFunc(fn func(R) bool) {
	dim.ds.mu.Lock()
	defer dim.ds.mu.Unlock()
	dim.filter = fn
}

// FilterAll clears the filter.
func (dim *Dimension[R]) FilterAll() {
	dim.FilterFunc(nil)
}

// HasFilter reports whether a filter is active.
func (dim *Dimension[R]) HasFilter() bool {
	dim.ds.mu.RLock()
	defer dim.ds.mu.RUnlock()
	return dim.filter != nil
}

// Entry is one aggregated group bucket.
type Entry[K comparable] struct {
	Key   K
	Value float64
}

// Group sums a per-record value by key. It observes the filters of every
// dimension except the one it was created on.
type Group[R any, K comparable] struct {
	dim    *Dimension[R]
	key    func(R) K
	reduce func(R) float64
}

// GroupBy creates a group on dim.
func GroupBy[R any, K comparable](dim *Dimension[R], key func(R) K, reduce func(R) float64) *Group[R, K] {
	return &Group[R, K]{dim: dim, key: key, reduce: reduce}
}

// All returns one entry per key seen in the dataset, in first-seen order.
// Keys whose records are all filtered out keep a zero value.
func (g *Group[R, K]) All() []Entry[K] {
	ds := g.dim.ds
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	index := make(map[K]int)
	var out []Entry[K]
	for _, r := range ds.records {
		k := g.key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Entry[K]{Key: k})
		}
		if ds.passes(r, g.dim) {
			out[i].Value += g.reduce(r)
		}
	}
	return out
}
