package heatmap

import (
	"cmp"
	"fmt"
	"time"
)

// keySeparator joins the two coordinates of a composite cell identity.
const keySeparator = "\x00"

// cellID is the composite identity of the (key, value) cell.
func cellID[K, V cmp.Ordered](key K, value V) string {
	return fmt.Sprint(key) + keySeparator + fmt.Sprint(value)
}

// Diff lists the cell identities a reconciliation created, updated and
// removed. Changed is the subset of Updated whose geometry or fill target
// moved.
type Diff struct {
	Created []string
	Updated []string
	Changed []string
	Removed []string
}

// Empty reports whether the reconciliation left every cell as it was.
func (d Diff) Empty() bool {
	return len(d.Created) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// cell is one rendered grid cell.
type cell[D any, K, V cmp.Ordered] struct {
	id    string
	datum D
	key   K
	value V
	col   int
	row   int
	title string
	state SelectionState
	tween tween
}

// surface holds everything drawn since the last Render.
type surface[D any, K, V cmp.Ordered] struct {
	offsetX, offsetY      float64
	gridWidth, gridHeight float64
	cellWidth, cellHeight float64
	cells                 map[string]*cell[D, K, V]
	order                 []string
	colLabels             []label[K]
	rowLabels             []label[V]
	labelsCreated         bool
}

func newSurface[D any, K, V cmp.Ordered](offsetX, offsetY float64) *surface[D, K, V] {
	return &surface[D, K, V]{
		offsetX: offsetX,
		offsetY: offsetY,
		cells:   make(map[string]*cell[D, K, V]),
	}
}

// cellsInOrder returns the cells in creation order.
func (s *surface[D, K, V]) cellsInOrder() []*cell[D, K, V] {
	out := make([]*cell[D, K, V], 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.cells[id])
	}
	return out
}

// resetSurface discards every drawn cell and label and places the grid at
// the margin offset.
func (c *Chart[D, K, V]) resetSurface() {
	m := c.Margins()
	c.surface = newSurface[D, K, V](float64(m.Left), float64(m.Top))
}

// ResetSurface clears the drawing surface without redrawing.
func (c *Chart[D, K, V]) ResetSurface() {
	c.resetSurface()
}

// reconcile binds data to cells by composite identity: unseen identities
// create cells, present ones are retargeted, and missing ones are removed.
// When several data share an identity the last one wins. Data outside the
// grid domains are not drawn.
func (c *Chart[D, K, V]) reconcile(data []D, g grid[K, V]) Diff {
	s := c.surface
	now := c.now()
	duration := c.TransitionDuration()

	type bound struct {
		datum D
		key   K
		value V
		rect  Rect
	}
	next := make(map[string]bound, len(data))
	order := make([]string, 0, len(data))
	for _, d := range data {
		key, value := c.accessors.Key(d), c.accessors.Value(d)
		rect, ok := g.cell(key, value, c.xBorderRadius, c.yBorderRadius)
		if !ok {
			continue
		}
		id := cellID(key, value)
		if _, seen := next[id]; !seen {
			order = append(order, id)
		}
		next[id] = bound{datum: d, key: key, value: value, rect: rect}
	}

	var diff Diff
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := next[id]; ok {
			kept = append(kept, id)
			continue
		}
		delete(s.cells, id)
		diff.Removed = append(diff.Removed, id)
	}
	s.order = kept

	for _, id := range order {
		b := next[id]
		col, _ := g.cols.Index(b.key)
		row, _ := g.rows.Index(b.value)
		fill := c.GetColor(b.datum)

		existing, ok := s.cells[id]
		if !ok {
			nc := &cell[D, K, V]{
				id:    id,
				datum: b.datum,
				key:   b.key,
				value: b.value,
				col:   col,
				row:   row,
				title: c.cellTitle(b.datum),
				tween: tween{toFill: neutralFill, start: now},
			}
			nc.tween.retarget(now, b.rect, fill, duration)
			s.cells[id] = nc
			s.order = append(s.order, id)
			diff.Created = append(diff.Created, id)
			continue
		}
		existing.datum = b.datum
		existing.col, existing.row = col, row
		diff.Updated = append(diff.Updated, id)
		if existing.tween.retarget(now, b.rect, fill, duration) {
			diff.Changed = append(diff.Changed, id)
		}
	}
	return diff
}

func (c *Chart[D, K, V]) cellTitle(d D) string {
	if c.title == nil {
		return ""
	}
	return c.title(d)
}

// animating reports whether any cell is still moving at now.
func (s *surface[D, K, V]) animating(now time.Time) bool {
	for _, id := range s.order {
		if !s.cells[id].tween.done(now) {
			return true
		}
	}
	return false
}
