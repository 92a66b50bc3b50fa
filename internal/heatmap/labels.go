package heatmap

import "cmp"

// label is an axis label bound to a domain value.
type label[T cmp.Ordered] struct {
	datum  T
	text   string
	x, y   float64
	dx, dy float64
	anchor TextAnchor
}

// drawLabels creates the label groups on first use and appends labels for
// domain indices that have none yet. Existing labels keep their text and
// position and are rebound to the domain value now at their index.
func (c *Chart[D, K, V]) drawLabels(g grid[K, V]) {
	s := c.surface
	s.labelsCreated = true

	for i, key := range g.cols.Domain() {
		if i < len(s.colLabels) {
			s.colLabels[i].datum = key
			continue
		}
		x, y := g.colLabelAt(key)
		s.colLabels = append(s.colLabels, label[K]{
			datum:  key,
			text:   c.colLabel(key),
			x:      x,
			y:      y,
			dy:     colLabelDY,
			anchor: AnchorMiddle,
		})
	}

	for i, value := range g.rows.Domain() {
		if i < len(s.rowLabels) {
			s.rowLabels[i].datum = value
			continue
		}
		x, y := g.rowLabelAt(value)
		s.rowLabels = append(s.rowLabels, label[V]{
			datum:  value,
			text:   c.rowLabel(value),
			x:      x,
			y:      y,
			dx:     rowLabelDX,
			dy:     rowLabelDY,
			anchor: AnchorEnd,
		})
	}
}
