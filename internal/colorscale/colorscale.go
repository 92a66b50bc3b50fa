// Package colorscale maps chart metrics onto a color palette.
package colorscale

import (
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// Mode selects how metric values are spread over the palette.
type Mode int

const (
	// Linear spreads the [min, max] interval evenly.
	Linear Mode = iota
	// Quantile spreads values by rank so skewed data keeps contrast.
	Quantile
)

// ParseMode parses "linear" or "quantile".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "quantile":
		return Quantile, nil
	default:
		return Linear, fmt.Errorf("unknown color domain %q", s)
	}
}

// quantileSteps is the number of quantile breakpoints used in Quantile mode.
const quantileSteps = 10

// DefaultPalette runs from a pale blue for quiet cells to red for hot ones.
// Colors come from the Open Color palette.
var DefaultPalette = []string{"#e7f5ff", "#a5d8ff", "#4dabf7", "#1971c2", "#c92a2a"}

// Scale maps float64 metrics to colors.
type Scale struct {
	palette []colorful.Color
	mode    Mode
	min     float64
	max     float64
	breaks  []float64
}

// Option configures a Scale.
type Option func(*Scale) error

// WithPalette sets the palette from hex colors. At least two are required.
func WithPalette(hex []string) Option {
	return func(s *Scale) error {
		palette, err := ParsePalette(hex)
		if err != nil {
			return err
		}
		s.palette = palette
		return nil
	}
}

// WithMode sets the domain mode.
func WithMode(m Mode) Option {
	return func(s *Scale) error {
		s.mode = m
		return nil
	}
}

// New creates a scale with DefaultPalette and a [0, 1] linear domain.
func New(opts ...Option) (*Scale, error) {
	palette, err := ParsePalette(DefaultPalette)
	if err != nil {
		return nil, err
	}
	s := &Scale{palette: palette, max: 1}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ParsePalette parses hex colors.
func ParsePalette(hex []string) ([]colorful.Color, error) {
	if len(hex) < 2 {
		return nil, fmt.Errorf("palette needs at least 2 colors, got %d", len(hex))
	}
	palette := make([]colorful.Color, 0, len(hex))
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("parse palette color %q: %w", h, err)
		}
		palette = append(palette, c)
	}
	return palette, nil
}

// Mode returns the domain mode.
func (s *Scale) Mode() Mode {
	return s.mode
}

// SetDomain fixes the linear domain.
func (s *Scale) SetDomain(lo, hi float64) {
	s.min, s.max = lo, hi
	s.breaks = nil
}

// Domain returns the current linear domain.
func (s *Scale) Domain() (float64, float64) {
	return s.min, s.max
}

// Calibrate recomputes the domain from the observed values.
func (s *Scale) Calibrate(values []float64) {
	if len(values) == 0 {
		s.SetDomain(0, 1)
		return
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	s.min, s.max = sorted[0], sorted[len(sorted)-1]
	s.breaks = nil
	if s.mode != Quantile {
		return
	}
	s.breaks = make([]float64, 0, quantileSteps-1)
	for i := 1; i < quantileSteps; i++ {
		s.breaks = append(s.breaks, stat.Quantile(float64(i)/quantileSteps, stat.Empirical, sorted, nil))
	}
}

// Position returns where v falls on the palette, in [0, 1].
func (s *Scale) Position(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if s.mode == Quantile && len(s.breaks) > 0 {
		rank := 0
		for _, b := range s.breaks {
			if v > b {
				rank++
			}
		}
		return float64(rank) / float64(len(s.breaks))
	}
	if s.max <= s.min {
		if v > s.min {
			return 1
		}
		return 0
	}
	return math.Min(math.Max((v-s.min)/(s.max-s.min), 0), 1)
}

// Color returns the palette color for v.
func (s *Scale) Color(v float64) colorful.Color {
	t := s.Position(v)
	segments := float64(len(s.palette) - 1)
	i := int(math.Floor(t * segments))
	if i >= len(s.palette)-1 {
		return s.palette[len(s.palette)-1]
	}
	return s.palette[i].BlendLab(s.palette[i+1], t*segments-float64(i)).Clamped()
}

// Hex returns the palette color for v as "#rrggbb".
func (s *Scale) Hex(v float64) string {
	return s.Color(v).Hex()
}

// Fade blends c toward bg. amount 0 keeps c, 1 returns bg.
func Fade(c, bg colorful.Color, amount float64) colorful.Color {
	return c.BlendRgb(bg, math.Min(math.Max(amount, 0), 1)).Clamped()
}
