// Package metrics renders the top status bar: global Sidekiq counters and
// the state of the heat map.
package metrics

import (
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/kiqheat/internal/ui/format"
)

// Data holds the values shown in the bar.
type Data struct {
	// HasStats is false for sources without global counters.
	HasStats  bool
	Processed int64
	Failed    int64

	Source   string
	Metric   string
	Cells    int
	Selected int
}

// UpdateMsg is sent when the global counters change.
type UpdateMsg struct {
	Processed int64
	Failed    int64
}

// Styles holds the styles needed by the metrics bar.
type Styles struct {
	Bar       lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style
}

// DefaultStyles returns default styles for the metrics bar.
func DefaultStyles() Styles {
	return Styles{
		Bar:       lipgloss.NewStyle().Padding(0, 1),
		Label:     lipgloss.NewStyle().Faint(true),
		Value:     lipgloss.NewStyle().Bold(true),
		Separator: lipgloss.NewStyle().Faint(true),
	}
}

// Model defines state for the metrics bar component.
type Model struct {
	styles Styles
	data   Data
	width  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new metrics bar model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// WithData sets the initial data.
func WithData(d Data) Option {
	return func(m *Model) {
		m.data = d
	}
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetData sets the bar data.
func (m *Model) SetData(d Data) {
	m.data = d
}

// Data returns the current data.
func (m Model) Data() Data {
	return m.data
}

// Height returns the height of the metrics bar (always 1).
func (m Model) Height() int {
	return 1
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(UpdateMsg); ok {
		m.data.HasStats = true
		m.data.Processed = msg.Processed
		m.data.Failed = msg.Failed
	}
	return m, nil
}

// View renders the metrics bar.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	sep := m.styles.Separator.Render(" │ ")
	item := func(label, value string) string {
		return m.styles.Label.Render(label+": ") + m.styles.Value.Render(value)
	}

	var items []string
	if m.data.HasStats {
		items = append(items,
			item("Processed", format.Number(m.data.Processed)),
			item("Failed", format.Number(m.data.Failed)),
		)
	}
	items = append(items,
		item("Metric", m.data.Metric),
		item("Cells", strconv.Itoa(m.data.Cells)),
		item("Selected", strconv.Itoa(m.data.Selected)),
	)
	if m.data.Source != "" {
		items = append(items, item("Source", m.data.Source))
	}

	content := ""
	for i, it := range items {
		if i > 0 {
			content += sep
		}
		content += it
	}

	inner := max(m.width-m.styles.Bar.GetHorizontalFrameSize(), 0)
	return m.styles.Bar.Width(m.width).Render(ansi.Truncate(content, inner, "…"))
}
