// Package heatmap implements a categorical heat map: a grid of cells keyed by
// a column and a row category and colored by a metric, with click filtering
// on cells and on whole rows or columns.
package heatmap

import (
	"cmp"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kpumuk/kiqheat/internal/chart"
	"github.com/kpumuk/kiqheat/internal/chartgroup"
	"github.com/kpumuk/kiqheat/internal/colorscale"
	"github.com/kpumuk/kiqheat/internal/filters"
)

// DefaultBorderRadius is the default corner radius of a cell on both axes.
const DefaultBorderRadius = 6.75

// Filter is the filter a heat map selects cells with.
type Filter[K, V cmp.Ordered] = filters.TwoD[K, V]

// Accessors extract the coordinates and the metric of a datum.
type Accessors[D any, K, V cmp.Ordered] struct {
	Key   func(D) K       // column category
	Value func(D) V       // row category
	Color func(D) float64 // metric mapped to the cell color
}

// Chart is a heat map chart. D is the datum type, K the column category and
// V the row category.
type Chart[D any, K, V cmp.Ordered] struct {
	*chart.Base[D, Filter[K, V]]

	accessors     Accessors[D, K, V]
	title         func(D) string
	colLabel      func(K) string
	rowLabel      func(V) string
	colors        *colorscale.Scale
	calibrate     bool
	rows          []V
	cols          []K
	xBorderRadius float64
	yBorderRadius float64
	now           func() time.Time
	registry      *chartgroup.Registry

	surface  *surface[D, K, V]
	lastDiff Diff
}

// New creates a heat map attached to anchor in chartGroup. The chart must be
// given a data group with SetGroup before it is rendered.
func New[D any, K, V cmp.Ordered](anchor, chartGroup string, acc Accessors[D, K, V], opts ...Option[D, K, V]) *Chart[D, K, V] {
	c := &Chart[D, K, V]{
		accessors:     acc,
		colLabel:      func(k K) string { return fmt.Sprint(k) },
		rowLabel:      func(v V) string { return fmt.Sprint(v) },
		calibrate:     true,
		xBorderRadius: DefaultBorderRadius,
		yBorderRadius: DefaultBorderRadius,
		now:           time.Now,
	}
	c.title = c.defaultTitle
	for _, opt := range opts {
		opt(c)
	}
	if c.colors == nil {
		colors, err := colorscale.New()
		if err != nil {
			panic(fmt.Sprintf("default palette: %v", err))
		}
		c.colors = colors
	}
	if c.registry == nil {
		c.registry = chartgroup.Default()
	}
	c.Base = chart.NewBase[D, Filter[K, V]](c.registry)
	c.SetMandatoryAttributes("group")
	c.Attach(anchor, chartGroup, c)
	return c
}

func (c *Chart[D, K, V]) defaultTitle(d D) string {
	if c.accessors.Color == nil {
		return ""
	}
	return strconv.FormatFloat(c.accessors.Color(d), 'f', -1, 64)
}

// KeyAccessor returns the column accessor.
func (c *Chart[D, K, V]) KeyAccessor() func(D) K {
	return c.accessors.Key
}

// SetKeyAccessor sets the column accessor.
func (c *Chart[D, K, V]) SetKeyAccessor(fn func(D) K) *Chart[D, K, V] {
	c.accessors.Key = fn
	return c
}

// ValueAccessor returns the row accessor.
func (c *Chart[D, K, V]) ValueAccessor() func(D) V {
	return c.accessors.Value
}

// SetValueAccessor sets the row accessor.
func (c *Chart[D, K, V]) SetValueAccessor(fn func(D) V) *Chart[D, K, V] {
	c.accessors.Value = fn
	return c
}

// SetTitle sets the function that produces a cell's tooltip text. The text
// is computed once, when the cell is created.
func (c *Chart[D, K, V]) SetTitle(fn func(D) string) *Chart[D, K, V] {
	c.title = fn
	return c
}

// Title returns the tooltip function.
func (c *Chart[D, K, V]) Title() func(D) string {
	return c.title
}

// SetColLabel sets how column categories are printed on the axis.
func (c *Chart[D, K, V]) SetColLabel(fn func(K) string) *Chart[D, K, V] {
	c.colLabel = fn
	return c
}

// SetRowLabel sets how row categories are printed on the axis.
func (c *Chart[D, K, V]) SetRowLabel(fn func(V) string) *Chart[D, K, V] {
	c.rowLabel = fn
	return c
}

// SetXBorderRadius sets the horizontal corner radius of cells.
func (c *Chart[D, K, V]) SetXBorderRadius(r float64) *Chart[D, K, V] {
	c.xBorderRadius = r
	return c
}

// XBorderRadius returns the horizontal corner radius of cells.
func (c *Chart[D, K, V]) XBorderRadius() float64 {
	return c.xBorderRadius
}

// SetYBorderRadius sets the vertical corner radius of cells.
func (c *Chart[D, K, V]) SetYBorderRadius(r float64) *Chart[D, K, V] {
	c.yBorderRadius = r
	return c
}

// YBorderRadius returns the vertical corner radius of cells.
func (c *Chart[D, K, V]) YBorderRadius() float64 {
	return c.yBorderRadius
}

func (c *Chart[D, K, V]) checkAccessors() error {
	switch {
	case c.accessors.Key == nil:
		return fmt.Errorf("%w: %s.keyAccessor", chart.ErrMandatoryAttribute, c.Anchor())
	case c.accessors.Value == nil:
		return fmt.Errorf("%w: %s.valueAccessor", chart.ErrMandatoryAttribute, c.Anchor())
	case c.accessors.Color == nil:
		return fmt.Errorf("%w: %s.colorAccessor", chart.ErrMandatoryAttribute, c.Anchor())
	}
	return nil
}

// Render clears the drawing surface, establishes the grid at the margin
// offset and redraws.
func (c *Chart[D, K, V]) Render() error {
	if err := c.CheckMandatory(); err != nil {
		return err
	}
	if err := c.checkAccessors(); err != nil {
		return err
	}
	c.resetSurface()
	return c.redraw()
}

// Redraw brings the existing surface up to date with the data and filters.
// A chart that was never rendered is rendered first.
func (c *Chart[D, K, V]) Redraw() error {
	if c.surface == nil {
		return c.Render()
	}
	if err := c.CheckMandatory(); err != nil {
		return err
	}
	if err := c.checkAccessors(); err != nil {
		return err
	}
	return c.redraw()
}

func (c *Chart[D, K, V]) redraw() error {
	data := c.Data()
	rows := c.rowsFor(data)
	cols := c.colsFor(data)
	g := computeGrid(float64(c.EffectiveWidth()), float64(c.EffectiveHeight()), rows, cols)

	c.surface.gridWidth, c.surface.gridHeight = g.width, g.height
	c.surface.cellWidth, c.surface.cellHeight = g.cellWidth, g.cellHeight

	c.calibrateColors(data)
	diff := c.reconcile(data, g)
	c.lastDiff = diff
	c.drawLabels(g)
	c.applySelection()

	c.Logger().Debug("heatmap redraw",
		slog.Int("rows", rows.Len()),
		slog.Int("cols", cols.Len()),
		slog.Int("created", len(diff.Created)),
		slog.Int("updated", len(diff.Updated)),
		slog.Int("removed", len(diff.Removed)),
	)
	return nil
}

// LastDiff returns the cell changes made by the most recent redraw.
func (c *Chart[D, K, V]) LastDiff() Diff {
	return c.lastDiff
}

// Animating reports whether any cell transition is still running at now.
func (c *Chart[D, K, V]) Animating(now time.Time) bool {
	return c.surface != nil && c.surface.animating(now)
}
