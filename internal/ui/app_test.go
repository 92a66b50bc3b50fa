package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/kiqheat/internal/board"
	"github.com/kpumuk/kiqheat/internal/sidekiq"
	"github.com/kpumuk/kiqheat/internal/ui/components/metrics"
)

var t0 = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

type stubSource struct {
	heat sidekiq.JobHeat
	err  error
}

func (s *stubSource) Fetch(context.Context) (sidekiq.JobHeat, error) {
	return s.heat, s.err
}

func (s *stubSource) String() string {
	return "stub"
}

func testHeat() sidekiq.JobHeat {
	return sidekiq.JobHeat{
		BucketSize: time.Minute,
		StartsAt:   t0,
		EndsAt:     t0.Add(2 * time.Minute),
		Buckets:    []time.Time{t0, t0.Add(time.Minute)},
		Points: []sidekiq.HeatPoint{
			{Bucket: t0, Class: "AJob", Processed: 5, Failed: 1, Milliseconds: 4000},
			{Bucket: t0, Class: "BJob", Processed: 3},
			{Bucket: t0.Add(time.Minute), Class: "AJob", Processed: 2, Failed: 2},
		},
	}
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestApp(t *testing.T, src *stubSource, transition time.Duration) (App, *testClock) {
	t.Helper()
	clock := &testClock{now: t0}
	b := board.New(
		board.WithTransitionDuration(transition),
		board.WithClock(clock.Now),
	)
	a := New(b, src, WithClock(clock.Now))
	a = update(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, clock
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	return m.(App)
}

func load(t *testing.T, a App) App {
	t.Helper()
	return update(t, a, a.fetchHeatCmd()())
}

func press(code rune, text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Text: text}
}

func TestViewBeforeSize(t *testing.T) {
	a := New(board.New(), &stubSource{})
	if got := a.render(); got != "Initializing..." {
		t.Errorf("render() = %q", got)
	}
}

func TestLoadDrawsPanels(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = load(t, a)

	out := ansi.Strip(a.render())
	lines := strings.Split(out, "\n")
	if len(lines) != 40 {
		t.Fatalf("expected 40 lines, got %d", len(lines))
	}
	for _, want := range []string{
		"Job heat", "Totals by bucket", "Cell",
		"AJob", "BJob", "15:00", "15:01",
		"Cells: 3", "Metric: processed", "Source: stub",
		`"avg_seconds"`, "kiqheat",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if got := a.board.Margins().Left; got != 5 {
		t.Errorf("left margin = %d, want room for the longest class", got)
	}
	if got := a.totals.Highlight(); got != 0 {
		t.Errorf("totals highlight = %d, want 0", got)
	}
}

func TestNarrowLayoutDropsSidePanels(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = update(t, a, tea.WindowSizeMsg{Width: 80, Height: 16})
	a = load(t, a)

	out := ansi.Strip(a.render())
	if strings.Contains(out, "Totals by bucket") || strings.Contains(out, `"avg_seconds"`) {
		t.Errorf("narrow view kept side panels:\n%s", out)
	}
	if got := len(strings.Split(out, "\n")); got != 16 {
		t.Errorf("expected 16 lines, got %d", got)
	}
}

func TestKeysDriveSelection(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = load(t, a)
	hm := a.board.Chart()

	a = update(t, a, press(tea.KeyEnter, ""))
	if got := len(hm.Filters()); got != 1 {
		t.Fatalf("filters after enter = %d, want 1", got)
	}

	a = update(t, a, press('x', "x"))
	if got := len(hm.Filters()); got != 0 {
		t.Fatalf("filters after clear = %d, want 0", got)
	}

	// Column 0 holds AJob and BJob.
	a = update(t, a, press('c', "c"))
	if got := len(hm.Filters()); got != 2 {
		t.Fatalf("filters after column toggle = %d, want 2", got)
	}
	a = update(t, a, press('c', "c"))
	if got := len(hm.Filters()); got != 0 {
		t.Fatalf("filters after second column toggle = %d, want 0", got)
	}

	// Row 0 holds AJob in both buckets.
	a = update(t, a, press('r', "r"))
	if got := len(hm.Filters()); got != 2 {
		t.Fatalf("filters after row toggle = %d, want 2", got)
	}
	if !strings.Contains(ansi.Strip(a.render()), "2 selected") {
		t.Error("heat panel does not show the selection count")
	}
}

func TestCursorMovesHighlightAndDetail(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = load(t, a)

	a = update(t, a, press(tea.KeyRight, ""))
	if col, row := a.grid.Cursor(); col != 1 || row != 0 {
		t.Fatalf("Cursor() = (%d, %d), want (1, 0)", col, row)
	}
	if got := a.totals.Highlight(); got != 1 {
		t.Errorf("totals highlight = %d, want 1", got)
	}

	// Bucket 15:01 has no BJob cell.
	a = update(t, a, press(tea.KeyUp, ""))
	if _, ok := a.grid.CursorCell(); ok {
		t.Fatal("expected an empty cursor position")
	}
	if strings.Contains(ansi.Strip(a.render()), `"avg_seconds"`) {
		t.Error("detail panel still shows a cell")
	}
}

func TestDetailScroll(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = load(t, a)
	overflow := a.detail.MaxWidth() - a.detail.Width()
	if overflow <= 0 {
		t.Fatalf("detail fits in %d columns, nothing to scroll", a.detail.Width())
	}

	a = update(t, a, press(']', "]"))
	want := min(detailScroll, overflow)
	if got := a.detail.Offset(); got != want {
		t.Fatalf("Offset() = %d, want %d", got, want)
	}

	// Selection changes keep the scroll position of the same cell.
	a = update(t, a, press(tea.KeyEnter, ""))
	if got := a.detail.Offset(); got != want {
		t.Errorf("Offset() after select = %d, want %d", got, want)
	}

	a = update(t, a, press('[', "["))
	if got := a.detail.Offset(); got != 0 {
		t.Errorf("Offset() after scrolling back = %d, want 0", got)
	}

	a = update(t, a, press(']', "]"))
	a = update(t, a, press(tea.KeyRight, ""))
	if got := a.detail.Offset(); got != 0 {
		t.Errorf("Offset() on another cell = %d, want 0", got)
	}
}

func TestMouseClickSelectsCell(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = load(t, a)

	sc := a.grid.Scene()
	target := sc.Cells[0]
	for _, cv := range sc.Cells {
		if cv.Col == 1 {
			target = cv
		}
	}
	ox, oy := a.gridOrigin()
	x := ox + int(sc.OffsetX+target.Rect.X+target.Rect.Width/2)
	y := oy + int(sc.OffsetY+target.Rect.Y+target.Rect.Height/2)

	a = update(t, a, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	filters := a.board.Chart().Filters()
	if len(filters) != 1 || filters[0].Key != t0.Add(time.Minute).Unix() {
		t.Fatalf("filters = %+v, want the 15:01 cell", filters)
	}
	if col, row := a.grid.Cursor(); col != target.Col || row != target.Row {
		t.Errorf("Cursor() = (%d, %d), want the clicked cell", col, row)
	}

	a = update(t, a, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseRight})
	if got := len(a.board.Chart().Filters()); got != 1 {
		t.Errorf("right click changed the selection: %d filters", got)
	}
}

func TestMetricKey(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = load(t, a)

	a = update(t, a, press('m', "m"))
	if got := a.board.Metric(); got != board.MetricFailed {
		t.Fatalf("Metric() = %v, want failed", got)
	}
	if got := a.totals.Highlight(); got != 0 {
		t.Errorf("totals highlight = %d, want 0", got)
	}
	if !strings.Contains(ansi.Strip(a.render()), "Metric: failed") {
		t.Error("metrics bar does not show the new metric")
	}
}

func TestConnectionError(t *testing.T) {
	src := &stubSource{err: errors.New("dial tcp: connection refused")}
	a, _ := newTestApp(t, src, 0)
	a = load(t, a)

	out := ansi.Strip(a.render())
	for _, want := range []string{"Connection Error", "connection refused", "Press ctrl+r to retry"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	src.err = nil
	src.heat = testHeat()
	a = load(t, a)
	if strings.Contains(ansi.Strip(a.render()), "Connection Error") {
		t.Error("error popup still shown after a successful load")
	}
}

func TestRetryHint(t *testing.T) {
	a := New(board.New(), &stubSource{}, WithRefresh(5*time.Second))
	if got := a.retryHint(); got != "Retrying every 5s..." {
		t.Errorf("retryHint() = %q", got)
	}
}

func TestStatsUpdate(t *testing.T) {
	a, _ := newTestApp(t, &stubSource{heat: testHeat()}, 0)
	a = update(t, a, metrics.UpdateMsg{Processed: 1500, Failed: 3})
	out := ansi.Strip(a.render())
	if !strings.Contains(out, "Processed: 1.5K") {
		t.Errorf("metrics bar missing processed counter:\n%s", out)
	}
	if !strings.Contains(out, "Failed: 3") {
		t.Errorf("metrics bar missing failed counter:\n%s", out)
	}
}

func TestAnimationTicksUntilDone(t *testing.T) {
	a, clock := newTestApp(t, &stubSource{heat: testHeat()}, 750*time.Millisecond)

	m, cmd := a.Update(a.fetchHeatCmd()())
	a = m.(App)
	if cmd == nil || !a.animating {
		t.Fatal("expected an animation tick after the first load")
	}

	clock.now = t0.Add(time.Second)
	m, cmd = a.Update(animateMsg(clock.now))
	a = m.(App)
	if cmd != nil || a.animating {
		t.Error("animation kept ticking after transitions finished")
	}
}
