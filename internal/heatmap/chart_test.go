package heatmap

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kpumuk/kiqheat/internal/chart"
	"github.com/kpumuk/kiqheat/internal/chartgroup"
	"github.com/kpumuk/kiqheat/internal/filters"
)

type point struct {
	col string
	row string
	n   float64
}

var pointAccessors = Accessors[point, string, string]{
	Key:   func(p point) string { return p.col },
	Value: func(p point) string { return p.row },
	Color: func(p point) float64 { return p.n },
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	chart    *Chart[point, string, string]
	data     []point
	clock    *fakeClock
	registry *chartgroup.Registry
}

func newFixture(t *testing.T, data ...point) *fixture {
	t.Helper()
	f := &fixture{
		data:     data,
		clock:    &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		registry: chartgroup.NewRegistry(),
	}
	f.chart = New("heat", "test", pointAccessors,
		WithRegistry[point, string, string](f.registry),
		WithClock[point, string, string](f.clock.Now),
	)
	f.chart.SetGroup(chart.GroupFunc[point](func() []point { return f.data }))
	f.chart.SetSize(230, 240)
	return f
}

func (f *fixture) render(t *testing.T) {
	t.Helper()
	if err := f.chart.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

func (f *fixture) settle() Scene {
	f.clock.Advance(f.chart.TransitionDuration())
	return f.chart.Scene(f.clock.Now())
}

func scenarioData() []point {
	return []point{
		{col: "a", row: "x", n: 1},
		{col: "b", row: "x", n: 2},
		{col: "a", row: "y", n: 3},
	}
}

func TestRenderRequiresGroup(t *testing.T) {
	c := New("heat", "", pointAccessors, WithRegistry[point, string, string](chartgroup.NewRegistry()))

	for name, fn := range map[string]func() error{"Render": c.Render, "Redraw": c.Redraw} {
		err := fn()
		if !errors.Is(err, chart.ErrMandatoryAttribute) {
			t.Errorf("%s() error = %v, want ErrMandatoryAttribute", name, err)
		}
	}
}

func TestRenderRequiresAccessors(t *testing.T) {
	c := New("heat", "", Accessors[point, string, string]{}, WithRegistry[point, string, string](chartgroup.NewRegistry()))
	c.SetGroup(chart.GroupFunc[point](func() []point { return nil }))

	if err := c.Render(); !errors.Is(err, chart.ErrMandatoryAttribute) {
		t.Fatalf("Render() error = %v, want ErrMandatoryAttribute", err)
	}
}

func TestEmptyDataset(t *testing.T) {
	f := newFixture(t)
	f.render(t)

	if got := f.chart.Rows().Len(); got != 0 {
		t.Errorf("Rows().Len() = %d, want 0", got)
	}
	if got := f.chart.Cols().Len(); got != 0 {
		t.Errorf("Cols().Len() = %d, want 0", got)
	}
	sc := f.settle()
	if len(sc.Cells) != 0 || len(sc.ColLabels) != 0 || len(sc.RowLabels) != 0 {
		t.Errorf("scene = %+v, want nothing drawn", sc)
	}
}

func TestEmptyOverrideDomainDrawsNothing(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.chart.SetCols([]string{})
	f.render(t)

	if sc := f.settle(); len(sc.Cells) != 0 {
		t.Errorf("len(Cells) = %d, want 0", len(sc.Cells))
	}
}

func TestScenarioDomains(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.render(t)

	if got, want := f.chart.Cols().Domain(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Cols() = %v, want %v", got, want)
	}
	if got, want := f.chart.Rows().Domain(), []string{"x", "y"}; !slices.Equal(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
	if got := len(f.chart.LastDiff().Created); got != 3 {
		t.Errorf("created %d cells, want 3", got)
	}
}

func TestOverrideDomains(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.chart.SetCols([]string{"b", "a", "z"}).SetRows([]string{"y"})

	if got, want := f.chart.Cols().Domain(), []string{"b", "a", "z"}; !slices.Equal(got, want) {
		t.Errorf("Cols() = %v, want %v", got, want)
	}
	f.render(t)
	sc := f.settle()
	if len(sc.Cells) != 1 || sc.Cells[0].ID != cellID("a", "y") {
		t.Errorf("cells = %+v, want only (a, y)", sc.Cells)
	}

	f.chart.SetCols(nil)
	if got, want := f.chart.Cols().Domain(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Cols() after clearing override = %v, want %v", got, want)
	}
}

func TestLayout(t *testing.T) {
	f := newFixture(t,
		point{col: "a", row: "x", n: 1},
		point{col: "b", row: "x", n: 2},
		point{col: "c", row: "y", n: 3},
	)
	f.render(t)
	sc := f.settle()

	// 230x240 minus default margins leaves a 150x200 grid.
	if sc.OffsetX != 30 || sc.OffsetY != 10 {
		t.Errorf("offset = (%v, %v), want (30, 10)", sc.OffsetX, sc.OffsetY)
	}
	want := map[string]Rect{
		cellID("a", "x"): {X: 0, Y: 100, Width: 50, Height: 100, RX: DefaultBorderRadius, RY: DefaultBorderRadius},
		cellID("b", "x"): {X: 50, Y: 100, Width: 50, Height: 100, RX: DefaultBorderRadius, RY: DefaultBorderRadius},
		cellID("c", "y"): {X: 100, Y: 0, Width: 50, Height: 100, RX: DefaultBorderRadius, RY: DefaultBorderRadius},
	}
	for _, cv := range sc.Cells {
		if cv.Rect != want[cv.ID] {
			t.Errorf("cell %q rect = %+v, want %+v", cv.ID, cv.Rect, want[cv.ID])
		}
	}

	col := sc.ColLabels[0]
	if col.Text != "a" || col.X != 25 || col.Y != 200 || col.DY != 12 || col.Anchor != AnchorMiddle {
		t.Errorf("column label = %+v", col)
	}
	row := sc.RowLabels[0]
	if row.Text != "x" || row.X != 0 || row.Y != 150 || row.DX != -2 || row.DY != 6 || row.Anchor != AnchorEnd {
		t.Errorf("row label = %+v", row)
	}
}

func TestBorderRadius(t *testing.T) {
	f := newFixture(t, point{col: "a", row: "x"})
	f.chart.SetXBorderRadius(2).SetYBorderRadius(3)
	f.render(t)

	r := f.settle().Cells[0].Rect
	if r.RX != 2 || r.RY != 3 {
		t.Errorf("radii = (%v, %v), want (2, 3)", r.RX, r.RY)
	}
}

func TestRedrawIsIdempotent(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.render(t)
	before := f.settle()

	if err := f.chart.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	if d := f.chart.LastDiff(); !d.Empty() {
		t.Errorf("second redraw diff = %+v, want empty", d)
	}
	after := f.chart.Scene(f.clock.Now())
	if !slices.Equal(before.Cells, after.Cells) {
		t.Errorf("cells changed:\nbefore %+v\nafter  %+v", before.Cells, after.Cells)
	}
	if after.Animating {
		t.Error("unchanged redraw restarted transitions")
	}
}

func TestReconcileEnterUpdateExit(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.render(t)
	f.settle()

	f.data = []point{
		{col: "a", row: "x", n: 10},
		{col: "b", row: "y", n: 2},
	}
	if err := f.chart.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	d := f.chart.LastDiff()
	if want := []string{cellID("b", "y")}; !slices.Equal(d.Created, want) {
		t.Errorf("Created = %q, want %q", d.Created, want)
	}
	if want := []string{cellID("a", "x")}; !slices.Equal(d.Updated, want) {
		t.Errorf("Updated = %q, want %q", d.Updated, want)
	}
	if want := []string{cellID("b", "x"), cellID("a", "y")}; !slices.Equal(d.Removed, want) {
		t.Errorf("Removed = %q, want %q", d.Removed, want)
	}
	if got, _ := f.chart.Cell(cellID("a", "x")); got.n != 10 {
		t.Errorf("updated datum n = %v, want 10", got.n)
	}
}

func TestDuplicateKeysLastWins(t *testing.T) {
	f := newFixture(t,
		point{col: "a", row: "x", n: 1},
		point{col: "a", row: "x", n: 5},
	)
	f.render(t)

	sc := f.settle()
	if len(sc.Cells) != 1 {
		t.Fatalf("len(Cells) = %d, want 1", len(sc.Cells))
	}
	if got, _ := f.chart.Cell(sc.Cells[0].ID); got.n != 5 {
		t.Errorf("datum n = %v, want 5", got.n)
	}
}

func TestTitleIsSetOnCreate(t *testing.T) {
	f := newFixture(t, point{col: "a", row: "x", n: 1.5})
	f.render(t)
	if got := f.settle().Cells[0].Title; got != "1.5" {
		t.Errorf("title = %q, want %q", got, "1.5")
	}

	f.data[0].n = 7
	if err := f.chart.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	if got := f.settle().Cells[0].Title; got != "1.5" {
		t.Errorf("title after update = %q, want it kept as %q", got, "1.5")
	}
}

func TestTransitions(t *testing.T) {
	f := newFixture(t, point{col: "a", row: "x", n: 1})
	f.chart.SetTransitionDuration(time.Second)
	f.render(t)

	start := f.chart.Scene(f.clock.Now())
	if got := start.Cells[0]; got.Rect != (Rect{}) || got.Fill != neutralFill {
		t.Errorf("new cell starts at %+v %v, want zero rect and white", got.Rect, got.Fill.Hex())
	}
	if !start.Animating {
		t.Error("Animating = false right after render")
	}

	f.clock.Advance(500 * time.Millisecond)
	mid := f.chart.Scene(f.clock.Now()).Cells[0].Rect
	if mid.Width <= 0 || mid.Width >= 150 {
		t.Errorf("mid-transition width = %v, want between 0 and 150", mid.Width)
	}

	// Retargeting continues from the sampled geometry.
	f.data = append(f.data, point{col: "b", row: "x", n: 1})
	if err := f.chart.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	if got := f.chart.Scene(f.clock.Now()).Cells[0].Rect; got != mid {
		t.Errorf("retargeted cell jumped from %+v to %+v", mid, got)
	}

	end := f.settle()
	if end.Animating {
		t.Error("Animating = true after the full duration")
	}
	if got := end.Cells[0].Rect.Width; got != 75 {
		t.Errorf("settled width = %v, want 75", got)
	}
}

func TestRenderResetsSurface(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.render(t)
	f.render(t)

	if got := len(f.chart.LastDiff().Created); got != 3 {
		t.Errorf("render created %d cells, want 3", got)
	}
	if got := len(f.chart.Scene(f.clock.Now()).ColLabels); got != 2 {
		t.Errorf("column labels = %d, want 2", got)
	}
}

func TestResetSurfaceThenRedraw(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.render(t)

	f.chart.ResetSurface()
	if got := len(f.chart.Scene(f.clock.Now()).Cells); got != 0 {
		t.Fatalf("cells after ResetSurface() = %d, want 0", got)
	}
	if err := f.chart.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	if got := len(f.chart.LastDiff().Created); got != 3 {
		t.Errorf("redraw created %d cells, want 3", got)
	}
}

func TestColorCalibration(t *testing.T) {
	f := newFixture(t, scenarioData()...)
	f.render(t)
	if lo, hi := f.chart.Colors().Domain(); lo != 1 || hi != 3 {
		t.Errorf("calibrated domain = [%v, %v], want [1, 3]", lo, hi)
	}

	f.chart.Colors().SetDomain(0, 100)
	f.chart.SetColorCalibration(false)
	if err := f.chart.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	if lo, hi := f.chart.Colors().Domain(); lo != 0 || hi != 100 {
		t.Errorf("fixed domain = [%v, %v], want [0, 100]", lo, hi)
	}
}

func TestLabelsAreAppendedAndRebound(t *testing.T) {
	f := newFixture(t, point{col: "a", row: "x"}, point{col: "b", row: "x"})
	f.render(t)

	f.data = []point{{col: "b", row: "x"}, {col: "c", row: "x"}, {col: "d", row: "x"}}
	if err := f.chart.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}

	sc := f.settle()
	var texts []string
	for _, l := range sc.ColLabels {
		texts = append(texts, l.Text)
	}
	if want := []string{"a", "b", "d"}; !slices.Equal(texts, want) {
		t.Errorf("label texts = %q, want %q", texts, want)
	}

	// The first label still reads "a" but is bound to "b" now.
	if err := f.chart.ClickColumnLabel(0); err != nil {
		t.Fatalf("ClickColumnLabel(0) error = %v", err)
	}
	if !f.chart.HasFilter(filters.NewTwoD("b", "x")) {
		t.Errorf("filters = %v, want (b, x)", f.chart.Filters())
	}
}

func TestLabelFormatters(t *testing.T) {
	f := newFixture(t, point{col: "a", row: "x"})
	f.chart.SetColLabel(func(k string) string { return "col " + k }).
		SetRowLabel(func(v string) string { return "row " + v })
	f.render(t)

	sc := f.settle()
	if sc.ColLabels[0].Text != "col a" || sc.RowLabels[0].Text != "row x" {
		t.Errorf("labels = %q, %q", sc.ColLabels[0].Text, sc.RowLabels[0].Text)
	}
}
