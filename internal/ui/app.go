// Package ui renders the Bubble Tea application UI.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/kiqheat/internal/board"
	"github.com/kpumuk/kiqheat/internal/chart"
	"github.com/kpumuk/kiqheat/internal/dataset"
	"github.com/kpumuk/kiqheat/internal/heatmap"
	"github.com/kpumuk/kiqheat/internal/mathutil"
	"github.com/kpumuk/kiqheat/internal/sidekiq"
	"github.com/kpumuk/kiqheat/internal/ui/components/errorpopup"
	"github.com/kpumuk/kiqheat/internal/ui/components/frame"
	"github.com/kpumuk/kiqheat/internal/ui/components/heatgrid"
	"github.com/kpumuk/kiqheat/internal/ui/components/histogram"
	"github.com/kpumuk/kiqheat/internal/ui/components/jsonview"
	"github.com/kpumuk/kiqheat/internal/ui/components/metrics"
	"github.com/kpumuk/kiqheat/internal/ui/components/navbar"
	"github.com/kpumuk/kiqheat/internal/ui/theme"
)

const (
	fetchTimeout  = 10 * time.Second
	animateEvery  = 50 * time.Millisecond
	totalsHeight  = 9
	detailWidth   = 38
	detailScroll  = 4
	minTotalsBody = 20
	minDetailApp  = 100
	maxLabelWidth = 24
)

// tickMsg triggers a periodic reload.
type tickMsg time.Time

// animateMsg advances running cell transitions.
type animateMsg time.Time

// fileChangedMsg is sent when the watched dataset file changes.
type fileChangedMsg struct{}

// heatLoadedMsg carries freshly fetched job metrics.
type heatLoadedMsg struct {
	heat sidekiq.JobHeat
}

// connectionErrorMsg indicates fetching from the source failed.
type connectionErrorMsg struct {
	err error
}

// App is the main application model.
type App struct {
	keys   KeyMap
	width  int
	height int
	ready  bool

	board     *board.Board
	boardSize [2]int
	source    dataset.Source
	stats     sidekiq.API
	watcher   *dataset.Watcher
	refresh   time.Duration
	now       func() time.Time
	logger    *slog.Logger
	animating bool

	grid        heatgrid.Model
	totals      histogram.Model
	detail      jsonview.Model
	detailID    string
	heatFrame   frame.Model
	totalsFrame frame.Model
	detailFrame frame.Model
	metrics     metrics.Model
	navbar      navbar.Model
	errorPopup  errorpopup.Model
	styles      theme.Styles

	connectionError error
}

// Option configures an App.
type Option func(*App)

// WithStats shows the global Sidekiq counters from api in the metrics bar.
func WithStats(api sidekiq.API) Option {
	return func(a *App) {
		a.stats = api
	}
}

// WithWatcher reloads the source whenever w reports a change.
func WithWatcher(w *dataset.Watcher) Option {
	return func(a *App) {
		a.watcher = w
	}
}

// WithRefresh reloads the source every d. Zero disables polling.
func WithRefresh(d time.Duration) Option {
	return func(a *App) {
		a.refresh = d
	}
}

// WithClock sets the clock used to sample cell transitions.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// New creates a new App drawing b with data from src.
func New(b *board.Board, src dataset.Source, opts ...Option) App {
	styles := theme.NewStyles()
	keys := DefaultKeyMap()

	frameStyles := frame.Styles{
		Focused: frame.StyleState{Title: styles.ViewTitle, Meta: styles.ViewMuted, Border: styles.FocusBorder},
		Blurred: frame.StyleState{Title: styles.ViewTitle, Meta: styles.ViewMuted, Border: styles.BorderStyle},
	}

	a := App{
		keys:   keys,
		board:  b,
		source: src,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		grid: heatgrid.New(
			heatgrid.WithStyles(heatgrid.Styles{
				Label:    styles.GridLabel,
				Selected: styles.GridSelected,
				Cursor:   styles.GridCursor,
				Muted:    styles.ViewMuted,
			}),
			heatgrid.WithEmptyMessage("Waiting for job metrics..."),
		),
		totals: histogram.New(
			histogram.WithStyles(histogram.Styles{
				Axis:      styles.ChartAxis,
				Bar:       styles.ChartBar,
				Highlight: styles.ChartHighlight,
				Muted:     styles.ViewMuted,
			}),
			histogram.WithEmptyMessage("No totals"),
		),
		detail: jsonview.New(
			jsonview.WithStyles(jsonview.Styles{
				Text:        styles.ViewText,
				Key:         styles.JSONKey,
				String:      styles.JSONString,
				Number:      styles.JSONNumber,
				Bool:        styles.JSONBool,
				Null:        styles.ViewMuted,
				Punctuation: styles.JSONPunctuation,
				Muted:       styles.ViewMuted,
			}),
		),
		heatFrame: frame.New(
			frame.WithStyles(frameStyles),
			frame.WithTitle("Job heat"),
			frame.WithFocused(true),
		),
		totalsFrame: frame.New(
			frame.WithStyles(frameStyles),
			frame.WithTitle("Totals by bucket"),
		),
		detailFrame: frame.New(
			frame.WithStyles(frameStyles),
			frame.WithTitle("Cell"),
			frame.WithPadding(1),
		),
		metrics: metrics.New(
			metrics.WithStyles(metrics.Styles{
				Bar:       styles.MetricsBar,
				Label:     styles.MetricsLabel,
				Value:     styles.MetricsValue,
				Separator: styles.MetricsSep,
			}),
		),
		navbar: navbar.New(
			navbar.WithStyles(navbar.Styles{
				Bar:   styles.NavBar,
				Key:   styles.NavKey,
				Item:  styles.NavItem,
				Brand: styles.NavBrand,
			}),
			navbar.WithBindings(keys.ShortHelp()),
			navbar.WithBrand("kiqheat"),
		),
		errorPopup: errorpopup.New(
			errorpopup.WithStyles(errorpopup.Styles{
				Title:   styles.ErrorTitle,
				Message: styles.ViewMuted,
				Border:  styles.ErrorBorder,
			}),
		),
		styles: styles,
	}

	for _, opt := range opts {
		opt(&a)
	}

	a.errorPopup.SetTitle(a.errorTitle())
	a.errorPopup.SetHint(a.retryHint())
	a.syncBoard()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.fetchHeatCmd()}
	if a.stats != nil {
		cmds = append(cmds, a.fetchStatsCmd())
	}
	if a.refresh > 0 {
		cmds = append(cmds, tickCmd(a.refresh))
	}
	if a.watcher != nil {
		cmds = append(cmds, watchCmd(a.watcher))
	}
	return tea.Batch(cmds...)
}

// tickCmd returns a command that sends a tick message after d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func animateCmd() tea.Cmd {
	return tea.Tick(animateEvery, func(t time.Time) tea.Msg {
		return animateMsg(t)
	})
}

// watchCmd waits for the next change of the watched file.
func watchCmd(w *dataset.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changed(); !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// fetchHeatCmd loads job metrics from the source.
func (a App) fetchHeatCmd() tea.Cmd {
	src := a.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		heat, err := src.Fetch(ctx)
		if err != nil {
			return connectionErrorMsg{err: err}
		}
		return heatLoadedMsg{heat: heat}
	}
}

// fetchStatsCmd fetches the global counters for the metrics bar.
func (a App) fetchStatsCmd() tea.Cmd {
	api := a.stats
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		stats, err := api.GetStats(ctx)
		if err != nil {
			return connectionErrorMsg{err: err}
		}
		return metrics.UpdateMsg{Processed: stats.Processed, Failed: stats.Failed}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		cmds = append(cmds, a.fetchHeatCmd())
		if a.stats != nil {
			cmds = append(cmds, a.fetchStatsCmd())
		}
		cmds = append(cmds, tickCmd(a.refresh))

	case fileChangedMsg:
		a.logger.Debug("dataset changed", slog.String("source", a.source.String()))
		cmds = append(cmds, a.fetchHeatCmd(), watchCmd(a.watcher))

	case heatLoadedMsg:
		a.connectionError = nil
		if err := a.board.Load(msg.heat); err != nil {
			a.fail("load job metrics", err)
		}
		if err := a.layoutBoard(); err != nil {
			a.fail("layout heat map", err)
		}
		cmds = append(cmds, a.syncBoard())

	case connectionErrorMsg:
		a.logger.Warn("fetch failed", slog.String("source", a.source.String()), slog.Any("error", msg.err))
		a.connectionError = msg.err

	case metrics.UpdateMsg:
		a.metrics, _ = a.metrics.Update(msg)

	case animateMsg:
		a.animating = false
		cmds = append(cmds, a.syncBoard())

	case tea.MouseClickMsg:
		cmds = append(cmds, a.handleClick(msg.Mouse()))

	case tea.KeyPressMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		cmds = append(cmds, a.handleKey(msg))

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		if err := a.layoutBoard(); err != nil {
			a.fail("layout heat map", err)
		}
		cmds = append(cmds, a.syncBoard())
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	hm := a.board.Chart()
	col, row := a.grid.Cursor()

	var err error
	switch {
	case key.Matches(msg, a.keys.Up):
		a.grid.MoveCursor(0, 1)
	case key.Matches(msg, a.keys.Down):
		a.grid.MoveCursor(0, -1)
	case key.Matches(msg, a.keys.Left):
		a.grid.MoveCursor(-1, 0)
	case key.Matches(msg, a.keys.Right):
		a.grid.MoveCursor(1, 0)
	case key.Matches(msg, a.keys.Select):
		if cv, ok := a.grid.CursorCell(); ok {
			err = hm.ClickCell(cv.ID)
		}
	case key.Matches(msg, a.keys.Column):
		err = hm.ClickColumnLabel(col)
	case key.Matches(msg, a.keys.Row):
		err = hm.ClickRowLabel(row)
	case key.Matches(msg, a.keys.Clear):
		err = a.board.ResetSelection()
	case key.Matches(msg, a.keys.Metric):
		err = a.board.SetMetric(a.board.Metric().Next())
	case key.Matches(msg, a.keys.ScrollLeft):
		a.detail.SetOffset(a.detail.Offset() - detailScroll)
	case key.Matches(msg, a.keys.ScrollRight):
		a.detail.SetOffset(a.detail.Offset() + detailScroll)
	case key.Matches(msg, a.keys.Refresh):
		return a.fetchHeatCmd()
	default:
		return nil
	}
	a.clickResult(err)
	return a.syncBoard()
}

// handleClick routes a left click inside the heat map panel to the chart.
func (a *App) handleClick(m tea.Mouse) tea.Cmd {
	if m.Button != tea.MouseLeft {
		return nil
	}
	x, y := a.gridOrigin()
	hit := a.grid.HitAt(m.X-x, m.Y-y)
	if hit.Kind == heatmap.HitNone {
		return nil
	}
	if hit.Kind == heatmap.HitCell {
		for _, cv := range a.grid.Scene().Cells {
			if cv.ID == hit.ID {
				a.grid.SetCursor(cv.Col, cv.Row)
				break
			}
		}
	}
	a.clickResult(a.board.Chart().Dispatch(hit))
	return a.syncBoard()
}

func (a *App) clickResult(err error) {
	switch {
	case err == nil:
	case errors.Is(err, heatmap.ErrUnknownTarget):
		a.logger.Debug("click ignored", slog.Any("error", err))
	default:
		a.fail("update selection", err)
	}
}

func (a *App) fail(action string, err error) {
	a.logger.Error(action+" failed", slog.Any("error", err))
	a.connectionError = fmt.Errorf("%s: %w", action, err)
}

// gridOrigin returns the screen position of the heat grid's top-left cell.
func (a App) gridOrigin() (x, y int) {
	return 1, a.metrics.Height() + 1
}

func (a *App) resize() {
	a.metrics.SetWidth(a.width)
	a.navbar.SetWidth(a.width)

	bodyHeight := max(a.height-a.metrics.Height()-a.navbar.Height(), 0)
	totalsH := 0
	if bodyHeight >= minTotalsBody {
		totalsH = totalsHeight
	}
	detailW := 0
	if a.width >= minDetailApp {
		detailW = detailWidth
	}
	topHeight := bodyHeight - totalsH

	a.heatFrame.SetSize(a.width-detailW, topHeight)
	a.detailFrame.SetSize(detailW, topHeight)
	a.totalsFrame.SetSize(a.width, totalsH)

	a.grid.SetSize(a.heatFrame.InnerSize())
	a.detail.SetSize(a.detailFrame.InnerSize())
	a.totals.SetSize(a.totalsFrame.InnerSize())
	a.errorPopup.SetSize(a.width, bodyHeight)
}

// gridMargins leaves room for row labels on the left and one row of column
// labels below the grid.
func (a App) gridMargins(width int) chart.Margins {
	labels := 0
	for _, class := range a.board.Classes() {
		labels = max(labels, ansi.StringWidth(class))
	}
	left := mathutil.Clamp(labels+1, 4, max(min(maxLabelWidth, width/3), 4))
	return chart.Margins{Left: left, Bottom: 1, Right: 2}
}

// layoutBoard fits the board to the heat grid, rendering again when the size
// or the label margins changed.
func (a *App) layoutBoard() error {
	w, h := a.grid.Width(), a.grid.Height()
	if w <= 0 || h <= 0 {
		return nil
	}
	margins := a.gridMargins(w)
	if margins == a.board.Margins() && a.boardSize == [2]int{w, h} {
		return nil
	}
	a.board.SetMargins(margins)
	a.boardSize = [2]int{w, h}
	return a.board.Resize(w, h)
}

// syncBoard copies the board state into the components and keeps the
// animation ticking while transitions run.
func (a *App) syncBoard() tea.Cmd {
	sc := a.board.Scene(a.now())
	a.grid.SetScene(sc)

	totals := a.board.Totals()
	a.totals.SetData(totals.Values(), totals.Labels())
	col, _ := a.grid.Cursor()
	a.totals.SetHighlight(a.board.BucketIndex(col))

	if cv, ok := a.grid.CursorCell(); ok {
		if d, ok := a.board.Detail(cv.ID); ok {
			offset := a.detail.Offset()
			a.detail.SetValue(d)
			if cv.ID == a.detailID {
				a.detail.SetOffset(offset)
			}
			a.detailID = cv.ID
			a.detailFrame.SetMeta(d.Class)
		}
	} else {
		a.detail.SetValue(nil)
		a.detailID = ""
		a.detailFrame.SetMeta("")
	}

	metric := a.board.Metric().String()
	selected := len(a.board.Chart().Filters())
	meta := metric
	if selected > 0 {
		meta += " · " + strconv.Itoa(selected) + " selected"
	}
	a.heatFrame.SetMeta(meta)
	a.totalsFrame.SetMeta(metric)

	data := a.metrics.Data()
	data.Source = a.source.String()
	data.Metric = metric
	data.Cells = len(sc.Cells)
	data.Selected = selected
	a.metrics.SetData(data)

	if !sc.Animating || a.animating {
		return nil
	}
	a.animating = true
	return animateCmd()
}

func (a App) errorTitle() string {
	if _, ok := a.source.(*dataset.FileSource); ok {
		return "Dataset Error"
	}
	return "Connection Error"
}

func (a App) retryHint() string {
	switch {
	case a.refresh > 0:
		return fmt.Sprintf("Retrying every %s...", a.refresh)
	case a.watcher != nil:
		return "Waiting for file changes..."
	default:
		return "Press ctrl+r to retry"
	}
}

// View implements tea.Model.
func (a App) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = "kiqheat"
	v.SetContent(a.render())
	return v
}

func (a App) render() string {
	if !a.ready {
		return "Initializing..."
	}

	a.heatFrame.SetContent(a.grid.View())
	top := a.heatFrame.View()
	if a.detailFrame.Width() > 0 {
		a.detailFrame.SetContent(a.detail.View())
		top = lipgloss.JoinHorizontal(lipgloss.Top, top, a.detailFrame.View())
	}

	content := top
	if a.totalsFrame.Height() > 0 {
		a.totalsFrame.SetContent(a.totals.View())
		content = lipgloss.JoinVertical(lipgloss.Left, top, a.totalsFrame.View())
	}

	if a.connectionError != nil {
		a.errorPopup.SetMessage(a.connectionError.Error())
		a.errorPopup.SetBackground(content)
		content = a.errorPopup.View()
	}

	// Build the layout: metrics (top) + content (middle) + navbar (bottom)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.metrics.View(),
		content,
		a.navbar.View(),
	)
}
