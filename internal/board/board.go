// Package board assembles the job heat map: Sidekiq metrics records in a
// crossfilter, a heat map of one metric per time bucket and job class, and
// per-bucket totals that follow the heat map selection.
package board

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/kpumuk/kiqheat/internal/chart"
	"github.com/kpumuk/kiqheat/internal/chartgroup"
	"github.com/kpumuk/kiqheat/internal/colorscale"
	"github.com/kpumuk/kiqheat/internal/crossfilter"
	"github.com/kpumuk/kiqheat/internal/heatmap"
	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

// ChartGroup is the chart group the heat map and the totals share.
const ChartGroup = "kiqheat"

// CellKey identifies a heat map cell: a bucket start in Unix seconds and a
// job class.
type CellKey struct {
	Bucket int64
	Class  string
}

// Cell is one aggregated heat map datum.
type Cell = crossfilter.Entry[CellKey]

// HeatMap is the heat map chart of a board.
type HeatMap = heatmap.Chart[Cell, int64, string]

// Filter selects one heat map cell.
type Filter = heatmap.Filter[int64, string]

func keyOf(p sidekiq.HeatPoint) CellKey {
	return CellKey{Bucket: p.Bucket.Unix(), Class: p.Class}
}

func bucketOf(p sidekiq.HeatPoint) int64 {
	return p.Bucket.Unix()
}

// Board is the heat map with its data.
type Board struct {
	heat        sidekiq.JobHeat
	metric      Metric
	labelLayout string
	rendered    bool

	records   *crossfilter.Dataset[sidekiq.HeatPoint]
	cellDim   *crossfilter.Dimension[sidekiq.HeatPoint]
	bucketDim *crossfilter.Dimension[sidekiq.HeatPoint]
	cells     *crossfilter.Group[sidekiq.HeatPoint, CellKey]

	registry *chartgroup.Registry
	chart    *HeatMap
	totals   *Totals

	colors     *colorscale.Scale
	radiusX    float64
	radiusY    float64
	colorMax   float64
	transition time.Duration
	margins    chart.Margins
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithMetric sets the metric cells are colored by.
func WithMetric(m Metric) Option {
	return func(b *Board) { b.metric = m }
}

// WithColors sets the color scale.
func WithColors(s *colorscale.Scale) Option {
	return func(b *Board) { b.colors = s }
}

// WithColorMax fixes the color domain to [0, v] instead of calibrating it
// from the loaded cells. Zero keeps calibration.
func WithColorMax(v float64) Option {
	return func(b *Board) { b.colorMax = v }
}

// WithBorderRadius sets the cell corner radii.
func WithBorderRadius(x, y float64) Option {
	return func(b *Board) { b.radiusX, b.radiusY = x, y }
}

// WithTransitionDuration sets how long cell changes animate.
func WithTransitionDuration(d time.Duration) Option {
	return func(b *Board) { b.transition = d }
}

// WithMargins sets the space around the grid.
func WithMargins(m chart.Margins) Option {
	return func(b *Board) { b.margins = m }
}

// WithClock sets the time source of transitions.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// New creates an empty board.
func New(opts ...Option) *Board {
	b := &Board{
		metric:      MetricProcessed,
		labelLayout: "15:04",
		radiusX:     heatmap.DefaultBorderRadius,
		radiusY:     heatmap.DefaultBorderRadius,
		transition:  750 * time.Millisecond,
		margins:     chart.DefaultMargins,
		now:         time.Now,
		logger:      slog.Default().With(slog.String("module", "board")),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.registry = chartgroup.NewRegistry(chartgroup.WithLogger(b.logger))
	b.records = crossfilter.New[sidekiq.HeatPoint](nil)
	b.cellDim = b.records.Dimension("cell")
	b.bucketDim = b.records.Dimension("bucket")

	hopts := []heatmap.Option[Cell, int64, string]{
		heatmap.WithRegistry[Cell, int64, string](b.registry),
		heatmap.WithBorderRadius[Cell, int64, string](b.radiusX, b.radiusY),
		heatmap.WithClock[Cell, int64, string](b.now),
		heatmap.WithTitle[Cell, int64, string](b.cellTitle),
		heatmap.WithLabels[Cell, int64, string](b.bucketLabel, func(class string) string { return class }),
	}
	if b.colors != nil {
		hopts = append(hopts, heatmap.WithColors[Cell, int64, string](b.colors))
	}
	b.chart = heatmap.New(
		"heat",
		ChartGroup,
		heatmap.Accessors[Cell, int64, string]{
			Key:   func(c Cell) int64 { return c.Key.Bucket },
			Value: func(c Cell) string { return c.Key.Class },
			Color: func(c Cell) float64 { return c.Value },
		},
		hopts...,
	)
	b.chart.SetLogger(b.logger.With(slog.String("chart", "heat")))
	b.chart.SetTransitionDuration(b.transition)
	b.chart.SetMargins(b.margins)
	b.chart.SetFilterHandler(b.filterCells)
	b.chart.OnFiltered(func(active []Filter) {
		b.logger.Debug("selection changed", slog.Int("cells", len(active)))
	})
	if b.colorMax > 0 {
		b.chart.Colors().SetDomain(0, b.colorMax)
		b.chart.SetColorCalibration(false)
	}

	b.totals = &Totals{board: b}
	b.chart.Registry().Register(ChartGroup, b.totals)

	b.setMetric(b.metric)
	return b
}

// filterCells restricts the records to the selected cells. Groups on the
// cell dimension ignore it, so the heat map keeps drawing every cell.
func (b *Board) filterCells(selected []Filter) {
	if len(selected) == 0 {
		b.cellDim.FilterAll()
		return
	}
	keys := make(map[CellKey]struct{}, len(selected))
	for _, f := range selected {
		keys[CellKey{Bucket: f.Key, Class: f.Value}] = struct{}{}
	}
	b.cellDim.FilterFunc(func(p sidekiq.HeatPoint) bool {
		_, ok := keys[keyOf(p)]
		return ok
	})
}

func (b *Board) setMetric(m Metric) {
	b.metric = m
	b.cells = crossfilter.GroupBy(b.cellDim, keyOf, m.Of)
	b.chart.SetGroup(chart.GroupFunc[Cell](b.cells.All))
	b.totals.group = crossfilter.GroupBy(b.bucketDim, bucketOf, m.Of)
}

func (b *Board) cellTitle(c Cell) string {
	return c.Key.Class + " at " + b.bucketLabel(c.Key.Bucket) + ": " + b.metric.Format(c.Value) + " " + b.metric.String()
}

func (b *Board) bucketLabel(bucket int64) string {
	return time.Unix(bucket, 0).UTC().Format(b.labelLayout)
}

// Load replaces the records with heat and updates the charts. The first
// load renders them; later loads redraw in place so cells animate. Column
// labels keep their text across redraws, so a bucket window that slid
// forward renders again.
func (b *Board) Load(heat sidekiq.JobHeat) error {
	prev := b.chart.Cols().Domain()
	b.heat = heat
	b.labelLayout = "15:04"
	if n := len(heat.Buckets); n > 0 {
		first, last := heat.Buckets[0].UTC(), heat.Buckets[n-1].UTC()
		if first.Format(time.DateOnly) != last.Format(time.DateOnly) {
			b.labelLayout = "Jan 2 15:04"
		}
	}
	b.records.Replace(heat.Points)
	b.logger.Debug("metrics loaded", slog.Int("points", len(heat.Points)), slog.Int("buckets", len(heat.Buckets)))

	if !b.rendered || !extends(b.chart.Cols().Domain(), prev) {
		return b.Render()
	}
	return b.registry.RedrawAll(ChartGroup)
}

// extends reports whether next starts with every bucket of prev.
func extends(next, prev []int64) bool {
	return len(next) >= len(prev) && slices.Equal(next[:len(prev)], prev)
}

// Render rebuilds every chart of the board.
func (b *Board) Render() error {
	b.rendered = true
	return b.chart.RenderGroup()
}

// Resize sets the drawing size and renders again if the board is on screen.
func (b *Board) Resize(width, height int) error {
	b.chart.SetSize(width, height)
	if !b.rendered {
		return nil
	}
	return b.Render()
}

// SetMargins sets the space around the grid. It applies on the next render.
func (b *Board) SetMargins(m chart.Margins) {
	b.margins = m
	b.chart.SetMargins(m)
}

// Margins returns the space around the grid.
func (b *Board) Margins() chart.Margins {
	return b.margins
}

// SetMetric switches the metric and renders again, since cell titles are
// fixed when cells are created.
func (b *Board) SetMetric(m Metric) error {
	b.setMetric(m)
	if !b.rendered {
		return nil
	}
	return b.Render()
}

// ResetSelection clears the heat map selection and redraws the group.
func (b *Board) ResetSelection() error {
	var redrawErr error
	err := b.registry.Trigger(func() {
		b.chart.ResetFilters()
		redrawErr = b.registry.RedrawAll(ChartGroup)
	})
	return errors.Join(redrawErr, err)
}

// Metric returns the metric cells are colored by.
func (b *Board) Metric() Metric {
	return b.metric
}

// Heat returns the last loaded metrics.
func (b *Board) Heat() sidekiq.JobHeat {
	return b.heat
}

// Chart returns the heat map.
func (b *Board) Chart() *HeatMap {
	return b.chart
}

// Totals returns the per-bucket totals chart.
func (b *Board) Totals() *Totals {
	return b.totals
}

// Scene samples the heat map at now.
func (b *Board) Scene(now time.Time) heatmap.Scene {
	return b.chart.Scene(now)
}

// Classes returns the job classes on the row axis, bottom row first.
func (b *Board) Classes() []string {
	return b.chart.Rows().Domain()
}

// Detail describes one heat map cell.
type Detail struct {
	Bucket     time.Time `json:"bucket"`
	Class      string    `json:"class"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	Selected   bool      `json:"selected"`
	Processed  int64     `json:"processed"`
	Failed     int64     `json:"failed"`
	AvgSeconds float64   `json:"avg_seconds"`
}

// Detail returns the metrics of the cell with the given identity.
func (b *Board) Detail(id string) (Detail, bool) {
	c, ok := b.chart.Cell(id)
	if !ok {
		return Detail{}, false
	}
	d := Detail{
		Bucket:   time.Unix(c.Key.Bucket, 0).UTC(),
		Class:    c.Key.Class,
		Metric:   b.metric.String(),
		Value:    c.Value,
		Selected: b.chart.HasFilter(Filter{Key: c.Key.Bucket, Value: c.Key.Class}),
	}
	var ms int64
	for _, p := range b.heat.Points {
		if keyOf(p) != c.Key {
			continue
		}
		d.Processed += p.Processed
		d.Failed += p.Failed
		ms += p.Milliseconds
	}
	d.AvgSeconds = sidekiq.HeatPoint{Processed: d.Processed, Failed: d.Failed, Milliseconds: ms}.AvgSeconds()
	return d, true
}

// BucketIndex maps a heat map column to its index in Heat().Buckets, or -1.
func (b *Board) BucketIndex(col int) int {
	cols := b.chart.Cols().Domain()
	if col < 0 || col >= len(cols) {
		return -1
	}
	return slices.IndexFunc(b.heat.Buckets, func(t time.Time) bool {
		return t.Unix() == cols[col]
	})
}
