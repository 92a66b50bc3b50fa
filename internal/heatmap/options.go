package heatmap

import (
	"cmp"
	"time"

	"github.com/kpumuk/kiqheat/internal/chartgroup"
	"github.com/kpumuk/kiqheat/internal/colorscale"
)

// Option configures a Chart at construction.
type Option[D any, K, V cmp.Ordered] func(*Chart[D, K, V])

// WithRegistry coordinates the chart through r instead of the default
// registry.
func WithRegistry[D any, K, V cmp.Ordered](r *chartgroup.Registry) Option[D, K, V] {
	return func(c *Chart[D, K, V]) {
		c.registry = r
	}
}

// WithColors sets the color scale.
func WithColors[D any, K, V cmp.Ordered](s *colorscale.Scale) Option[D, K, V] {
	return func(c *Chart[D, K, V]) {
		c.colors = s
	}
}

// WithBorderRadius sets the cell corner radii.
func WithBorderRadius[D any, K, V cmp.Ordered](x, y float64) Option[D, K, V] {
	return func(c *Chart[D, K, V]) {
		c.xBorderRadius = x
		c.yBorderRadius = y
	}
}

// WithTitle sets the tooltip function.
func WithTitle[D any, K, V cmp.Ordered](fn func(D) string) Option[D, K, V] {
	return func(c *Chart[D, K, V]) {
		c.title = fn
	}
}

// WithLabels sets the column and row label formatters. A nil formatter keeps
// the default.
func WithLabels[D any, K, V cmp.Ordered](col func(K) string, row func(V) string) Option[D, K, V] {
	return func(c *Chart[D, K, V]) {
		if col != nil {
			c.colLabel = col
		}
		if row != nil {
			c.rowLabel = row
		}
	}
}

// WithClock sets the time source used for transitions.
func WithClock[D any, K, V cmp.Ordered](now func() time.Time) Option[D, K, V] {
	return func(c *Chart[D, K, V]) {
		c.now = now
	}
}
