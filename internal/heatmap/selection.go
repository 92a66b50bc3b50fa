package heatmap

// SelectionState is how a cell reflects the chart's filters.
type SelectionState int

const (
	// Neutral cells are drawn normally because nothing is filtered.
	Neutral SelectionState = iota
	// Selected cells match an active filter.
	Selected
	// Deselected cells are faded while other cells are filtered.
	Deselected
)

func (s SelectionState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Deselected:
		return "deselected"
	default:
		return "neutral"
	}
}

func (c *Chart[D, K, V]) isSelected(key K, value V) bool {
	return c.HasFilter(Filter[K, V]{Key: key, Value: value})
}

// applySelection marks every cell selected or deselected while any filter
// is active, and neutral otherwise.
func (c *Chart[D, K, V]) applySelection() {
	filtered := c.HasAnyFilter()
	for _, cl := range c.surface.cellsInOrder() {
		switch {
		case !filtered:
			cl.state = Neutral
		case c.isSelected(cl.key, cl.value):
			cl.state = Selected
		default:
			cl.state = Deselected
		}
	}
}
