package heatmap

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/kpumuk/kiqheat/internal/colorscale"
)

// neutralFill is the fill of a freshly created cell.
var neutralFill = colorful.Color{R: 1, G: 1, B: 1}

// ColorAccessor returns the metric accessor.
func (c *Chart[D, K, V]) ColorAccessor() func(D) float64 {
	return c.accessors.Color
}

// SetColorAccessor sets the metric accessor.
func (c *Chart[D, K, V]) SetColorAccessor(fn func(D) float64) *Chart[D, K, V] {
	c.accessors.Color = fn
	return c
}

// Colors returns the color scale.
func (c *Chart[D, K, V]) Colors() *colorscale.Scale {
	return c.colors
}

// SetColors replaces the color scale.
func (c *Chart[D, K, V]) SetColors(s *colorscale.Scale) *Chart[D, K, V] {
	c.colors = s
	return c
}

// SetColorCalibration controls whether the color domain is recomputed from
// the data on every redraw. Disable it to keep a domain set on the scale.
func (c *Chart[D, K, V]) SetColorCalibration(on bool) *Chart[D, K, V] {
	c.calibrate = on
	return c
}

// GetColor returns the fill for d.
func (c *Chart[D, K, V]) GetColor(d D) colorful.Color {
	return c.colors.Color(c.accessors.Color(d))
}

func (c *Chart[D, K, V]) calibrateColors(data []D) {
	if !c.calibrate {
		return
	}
	values := make([]float64, 0, len(data))
	for _, d := range data {
		values = append(values, c.accessors.Color(d))
	}
	c.colors.Calibrate(values)
}
