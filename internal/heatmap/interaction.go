package heatmap

import (
	"errors"
	"fmt"

	"github.com/kpumuk/kiqheat/internal/filters"
)

// ErrUnknownTarget is returned when a click names a cell or label that is
// not on the surface.
var ErrUnknownTarget = errors.New("unknown click target")

// HitKind is what a pointer event landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitCell
	HitColumnLabel
	HitRowLabel
)

// Hit identifies a clickable element: a cell by ID or a label by index.
type Hit struct {
	Kind  HitKind
	ID    string
	Index int
}

// Dispatch routes a click on h to the matching handler. Clicks on nothing
// are ignored.
func (c *Chart[D, K, V]) Dispatch(h Hit) error {
	switch h.Kind {
	case HitCell:
		return c.ClickCell(h.ID)
	case HitColumnLabel:
		return c.ClickColumnLabel(h.Index)
	case HitRowLabel:
		return c.ClickRowLabel(h.Index)
	default:
		return nil
	}
}

// ClickCell toggles the filter of the cell with the given identity.
func (c *Chart[D, K, V]) ClickCell(id string) error {
	if c.surface == nil {
		return fmt.Errorf("%w: cell %q", ErrUnknownTarget, id)
	}
	cl, ok := c.surface.cells[id]
	if !ok {
		return fmt.Errorf("%w: cell %q", ErrUnknownTarget, id)
	}
	return c.ClickDatum(cl.datum)
}

// ClickDatum toggles the filter of the cell d is drawn in.
func (c *Chart[D, K, V]) ClickDatum(d D) error {
	f := filters.NewTwoD(c.accessors.Key(d), c.accessors.Value(d))
	return c.gesture([]filters.Command[Filter[K, V]]{filters.Toggle(f)})
}

// ClickColumnLabel clicks the column whose label is at index i.
func (c *Chart[D, K, V]) ClickColumnLabel(i int) error {
	if c.surface == nil || i < 0 || i >= len(c.surface.colLabels) {
		return fmt.Errorf("%w: column label %d", ErrUnknownTarget, i)
	}
	return c.ClickColumn(c.surface.colLabels[i].datum)
}

// ClickRowLabel clicks the row whose label is at index i.
func (c *Chart[D, K, V]) ClickRowLabel(i int) error {
	if c.surface == nil || i < 0 || i >= len(c.surface.rowLabels) {
		return fmt.Errorf("%w: row label %d", ErrUnknownTarget, i)
	}
	return c.ClickRow(c.surface.rowLabels[i].datum)
}

// ClickColumn toggles the cells of column key as a whole. See axisCommands.
func (c *Chart[D, K, V]) ClickColumn(key K) error {
	return c.gesture(c.axisCommands(func(cl *cell[D, K, V]) bool { return cl.key == key }))
}

// ClickRow toggles the cells of row value as a whole. See axisCommands.
func (c *Chart[D, K, V]) ClickRow(value V) error {
	return c.gesture(c.axisCommands(func(cl *cell[D, K, V]) bool { return cl.value == value }))
}

// axisCommands toggles the unfiltered cells among those matching on, or all
// of them when every one is already filtered. Clicking a partly selected
// axis selects it fully and clicking a fully selected axis clears it.
func (c *Chart[D, K, V]) axisCommands(on func(*cell[D, K, V]) bool) []filters.Command[Filter[K, V]] {
	if c.surface == nil {
		return nil
	}
	var all, unfiltered []Filter[K, V]
	for _, cl := range c.surface.cellsInOrder() {
		if !on(cl) {
			continue
		}
		f := filters.NewTwoD(cl.key, cl.value)
		all = append(all, f)
		if !c.HasFilter(f) {
			unfiltered = append(unfiltered, f)
		}
	}
	toggle := unfiltered
	if len(unfiltered) == 0 {
		toggle = all
	}
	cmds := make([]filters.Command[Filter[K, V]], 0, len(toggle))
	for _, f := range toggle {
		cmds = append(cmds, filters.Toggle(f))
	}
	return cmds
}

// gesture applies cmds as one user action and redraws the chart group once.
func (c *Chart[D, K, V]) gesture(cmds []filters.Command[Filter[K, V]]) error {
	var redrawErr error
	err := c.Trigger(func() {
		c.ApplyCommands(cmds)
		redrawErr = c.RedrawGroup()
	})
	return errors.Join(redrawErr, err)
}
