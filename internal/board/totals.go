package board

import (
	"math"

	"github.com/kpumuk/kiqheat/internal/crossfilter"
	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

// Totals sums the board metric per time bucket over the records the heat
// map selection lets through. It belongs to the heat map's chart group and
// is redrawn with it.
type Totals struct {
	board  *Board
	group  *crossfilter.Group[sidekiq.HeatPoint, int64]
	values []int64
	labels []string
}

// Anchor implements chartgroup.Chart.
func (t *Totals) Anchor() string {
	return "totals"
}

// Render implements chartgroup.Chart.
func (t *Totals) Render() error {
	return t.Redraw()
}

// Redraw implements chartgroup.Chart. Every bucket of the loaded metrics
// gets a value, zero when nothing in it is selected.
func (t *Totals) Redraw() error {
	sums := make(map[int64]float64)
	for _, e := range t.group.All() {
		sums[e.Key] = e.Value
	}
	buckets := t.board.heat.Buckets
	t.values = make([]int64, len(buckets))
	t.labels = make([]string, len(buckets))
	for i, bucket := range buckets {
		t.values[i] = int64(math.Round(sums[bucket.Unix()]))
		t.labels[i] = t.board.bucketLabel(bucket.Unix())
	}
	return nil
}

// Values returns the per-bucket sums, oldest bucket first.
func (t *Totals) Values() []int64 {
	return t.values
}

// Labels returns the bucket labels matching Values.
func (t *Totals) Labels() []string {
	return t.labels
}
