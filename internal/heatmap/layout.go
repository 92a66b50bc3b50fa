package heatmap

import (
	"cmp"
	"math"

	"github.com/kpumuk/kiqheat/internal/scale"
)

// TextAnchor is the horizontal alignment of a label relative to its point.
type TextAnchor int

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

func (a TextAnchor) String() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

const (
	colLabelDY = 12
	rowLabelDX = -2
	rowLabelDY = 6
)

// grid is the layout of one redraw: banded scales and the cell size.
type grid[K, V cmp.Ordered] struct {
	width, height float64
	cols          *scale.Ordinal[K]
	rows          *scale.Ordinal[V]
	cellWidth     float64
	cellHeight    float64
}

// computeGrid bands columns left to right over [0, width] and rows bottom to
// top over [height, 0], so the first row is drawn lowest.
func computeGrid[K, V cmp.Ordered](width, height float64, rows *scale.Ordinal[V], cols *scale.Ordinal[K]) grid[K, V] {
	g := grid[K, V]{width: width, height: height, cols: cols, rows: rows}
	if g.empty() {
		return g
	}
	cols.RangeRoundBands(0, width)
	rows.RangeRoundBands(height, 0)
	g.cellWidth = math.Floor(width / float64(cols.Len()))
	g.cellHeight = math.Floor(height / float64(rows.Len()))
	return g
}

func (g grid[K, V]) empty() bool {
	return g.rows.Len() == 0 || g.cols.Len() == 0
}

// cell returns the rectangle of the (key, value) cell and whether both
// coordinates are in the domains.
func (g grid[K, V]) cell(key K, value V, rx, ry float64) (Rect, bool) {
	if g.empty() {
		return Rect{}, false
	}
	x, ok := g.cols.Position(key)
	if !ok {
		return Rect{}, false
	}
	y, ok := g.rows.Position(value)
	if !ok {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, Width: g.cellWidth, Height: g.cellHeight, RX: rx, RY: ry}, true
}

// colLabelAt positions the label under column key.
func (g grid[K, V]) colLabelAt(key K) (x, y float64) {
	pos, _ := g.cols.Position(key)
	return pos + g.cellWidth/2, g.height
}

// rowLabelAt positions the label left of row value.
func (g grid[K, V]) rowLabelAt(value V) (x, y float64) {
	pos, _ := g.rows.Position(value)
	return 0, pos + g.cellHeight/2
}
