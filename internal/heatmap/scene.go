package heatmap

import (
	"cmp"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/kpumuk/kiqheat/internal/colorscale"
)

// CellView is a cell as drawn at one instant, in grid coordinates.
type CellView struct {
	ID    string
	Rect  Rect
	Fill  colorful.Color
	Title string
	State SelectionState
	Col   int
	Row   int
}

// LabelView is an axis label as drawn, in grid coordinates. DX and DY shift
// the text from its anchor point.
type LabelView struct {
	Index  int
	Text   string
	X, Y   float64
	DX, DY float64
	Anchor TextAnchor
}

// Scene is a renderer-independent snapshot of the chart. Grid coordinates
// are relative to (OffsetX, OffsetY) inside a Width x Height surface.
type Scene struct {
	Width, Height         int
	OffsetX, OffsetY      float64
	GridWidth, GridHeight float64
	CellWidth, CellHeight float64
	Cells                 []CellView
	ColLabels             []LabelView
	RowLabels             []LabelView
	Animating             bool
}

// Scene samples the chart at now. A chart that was never rendered yields an
// empty scene.
func (c *Chart[D, K, V]) Scene(now time.Time) Scene {
	sc := Scene{Width: c.Width(), Height: c.Height()}
	s := c.surface
	if s == nil {
		return sc
	}
	sc.OffsetX, sc.OffsetY = s.offsetX, s.offsetY
	sc.GridWidth, sc.GridHeight = s.gridWidth, s.gridHeight
	sc.CellWidth, sc.CellHeight = s.cellWidth, s.cellHeight
	sc.Animating = s.animating(now)

	sc.Cells = make([]CellView, 0, len(s.order))
	for _, cl := range s.cellsInOrder() {
		rect, fill := cl.tween.at(now)
		sc.Cells = append(sc.Cells, CellView{
			ID:    cl.id,
			Rect:  rect,
			Fill:  fill,
			Title: cl.title,
			State: cl.state,
			Col:   cl.col,
			Row:   cl.row,
		})
	}
	for i, l := range s.colLabels {
		sc.ColLabels = append(sc.ColLabels, labelView(i, l))
	}
	for i, l := range s.rowLabels {
		sc.RowLabels = append(sc.RowLabels, labelView(i, l))
	}
	return sc
}

func labelView[T cmp.Ordered](i int, l label[T]) LabelView {
	return LabelView{Index: i, Text: l.text, X: l.x, Y: l.y, DX: l.dx, DY: l.dy, Anchor: l.anchor}
}

// Cell returns the datum drawn in the cell with the given identity.
func (c *Chart[D, K, V]) Cell(id string) (D, bool) {
	var zero D
	if c.surface == nil {
		return zero, false
	}
	cl, ok := c.surface.cells[id]
	if !ok {
		return zero, false
	}
	return cl.datum, true
}

// CellAt returns the identity of the cell in column col and row row of the
// last redraw.
func (c *Chart[D, K, V]) CellAt(col, row int) (string, bool) {
	if c.surface == nil {
		return "", false
	}
	for _, cl := range c.surface.cellsInOrder() {
		if cl.col == col && cl.row == row {
			return cl.id, true
		}
	}
	return "", false
}

// Hit finds what is under (x, y) in surface coordinates. Later cells are
// drawn on top and win. Below the grid a point hits the column label of the
// band it is in; left of the grid it hits the row label of its band.
func (sc Scene) Hit(x, y float64) Hit {
	gx, gy := x-sc.OffsetX, y-sc.OffsetY
	for i := len(sc.Cells) - 1; i >= 0; i-- {
		r := sc.Cells[i].Rect
		if gx >= r.X && gx < r.X+r.Width && gy >= r.Y && gy < r.Y+r.Height {
			return Hit{Kind: HitCell, ID: sc.Cells[i].ID}
		}
	}
	switch {
	case gy >= sc.GridHeight && gx >= 0 && gx < sc.GridWidth:
		if i, ok := bandAt(sc.ColLabels, gx, sc.CellWidth, func(l LabelView) float64 { return l.X }); ok {
			return Hit{Kind: HitColumnLabel, Index: i}
		}
	case gx < 0 && gy >= 0 && gy < sc.GridHeight:
		if i, ok := bandAt(sc.RowLabels, gy, sc.CellHeight, func(l LabelView) float64 { return l.Y }); ok {
			return Hit{Kind: HitRowLabel, Index: i}
		}
	}
	return Hit{}
}

// bandAt returns the index of the label whose band, size wide and centered
// on pos(label), contains v.
func bandAt(labels []LabelView, v, size float64, pos func(LabelView) float64) (int, bool) {
	half := size / 2
	for i := len(labels) - 1; i >= 0; i-- {
		c := pos(labels[i])
		if v >= c-half && v < c+half {
			return labels[i].Index, true
		}
	}
	return 0, false
}

// deselectedGray is what deselected cells fade toward.
var deselectedGray = colorful.Color{R: 0.8, G: 0.8, B: 0.8}

// DisplayFill is the color a renderer should paint the cell: its fill, faded
// toward gray while it is deselected.
func (cv CellView) DisplayFill() colorful.Color {
	if cv.State == Deselected {
		return colorscale.Fade(cv.Fill, deselectedGray, 0.75)
	}
	return cv.Fill
}
