package heatmap

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/kpumuk/kiqheat/internal/mathutil"
)

// Rect is a cell's geometry in grid coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
	RX, RY        float64
}

func lerpRect(a, b Rect, t float64) Rect {
	return Rect{
		X:      mathutil.Lerp(a.X, b.X, t),
		Y:      mathutil.Lerp(a.Y, b.Y, t),
		Width:  mathutil.Lerp(a.Width, b.Width, t),
		Height: mathutil.Lerp(a.Height, b.Height, t),
		RX:     mathutil.Lerp(a.RX, b.RX, t),
		RY:     mathutil.Lerp(a.RY, b.RY, t),
	}
}

// easeCubicInOut is the default easing of chart transitions.
func easeCubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

// tween animates a cell's geometry and fill from one state to another. A new
// target retargets from wherever the animation currently is.
type tween struct {
	fromRect, toRect Rect
	fromFill, toFill colorful.Color
	start            time.Time
	duration         time.Duration
}

func (tw *tween) progress(now time.Time) float64 {
	if tw.duration <= 0 {
		return 1
	}
	t := float64(now.Sub(tw.start)) / float64(tw.duration)
	return easeCubicInOut(mathutil.Clamp(t, 0, 1))
}

// at samples the animation.
func (tw *tween) at(now time.Time) (Rect, colorful.Color) {
	t := tw.progress(now)
	if t >= 1 {
		return tw.toRect, tw.toFill
	}
	return lerpRect(tw.fromRect, tw.toRect, t), tw.fromFill.BlendRgb(tw.toFill, t).Clamped()
}

func (tw *tween) done(now time.Time) bool {
	return tw.progress(now) >= 1
}

// retarget starts a new animation toward (r, fill) from the current sample.
// It reports false and leaves the animation untouched when the target is
// unchanged.
func (tw *tween) retarget(now time.Time, r Rect, fill colorful.Color, d time.Duration) bool {
	if tw.toRect == r && tw.toFill == fill {
		return false
	}
	tw.fromRect, tw.fromFill = tw.at(now)
	tw.toRect, tw.toFill = r, fill
	tw.start = now
	tw.duration = d
	return true
}
