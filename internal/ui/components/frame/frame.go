// Package frame renders a titled bordered panel with optional meta text on
// the right side of the top border.
package frame

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// StyleState holds styles for a focus state.
type StyleState struct {
	Title  lipgloss.Style
	Meta   lipgloss.Style
	Border lipgloss.Style
}

// Styles holds focus-aware styles for a frame.
type Styles struct {
	Focused StyleState
	Blurred StyleState
}

// DefaultStyles returns default styles for a frame.
func DefaultStyles() Styles {
	state := StyleState{
		Title:  lipgloss.NewStyle().Bold(true),
		Meta:   lipgloss.NewStyle().Faint(true),
		Border: lipgloss.NewStyle(),
	}
	return Styles{
		Focused: state,
		Blurred: state,
	}
}

// Model defines state for the frame component.
type Model struct {
	styles  Styles
	title   string
	meta    string
	content string
	width   int
	height  int
	padding int
	focused bool
	border  lipgloss.Border
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new frame model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		border: lipgloss.RoundedBorder(),
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

// WithTitle sets the title.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithMeta sets the meta text.
func WithMeta(meta string) Option {
	return func(m *Model) {
		m.meta = meta
	}
}

// WithContent sets the content.
func WithContent(content string) Option {
	return func(m *Model) {
		m.content = content
	}
}

// WithSize sets width and height, borders included.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithPadding sets horizontal padding inside the frame.
func WithPadding(padding int) Option {
	return func(m *Model) {
		m.padding = padding
	}
}

// WithFocused sets the focus state.
func WithFocused(focused bool) Option {
	return func(m *Model) {
		m.focused = focused
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetTitle sets the title.
func (m *Model) SetTitle(title string) {
	m.title = title
}

// SetMeta sets the meta text.
func (m *Model) SetMeta(meta string) {
	m.meta = meta
}

// SetContent sets the content.
func (m *Model) SetContent(content string) {
	m.content = content
}

// SetSize sets the width and height, borders included.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Focused returns the focus state.
func (m Model) Focused() bool {
	return m.focused
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// InnerSize returns the area available to content.
func (m Model) InnerSize() (width, height int) {
	return max(m.width-2-2*m.padding, 0), max(m.height-2, 0)
}

// View renders the frame with the current content.
func (m Model) View() string {
	if m.width < 2 || m.height < 2 {
		return ""
	}

	state := m.styles.Blurred
	if m.focused {
		state = m.styles.Focused
	}

	innerWidth := m.width - 2
	contentHeight := m.height - 2

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTopBorder(state, innerWidth))
	lines = append(lines, m.renderBody(state, innerWidth, contentHeight)...)
	lines = append(lines, m.renderBottomBorder(state, innerWidth))
	return strings.Join(lines, "\n")
}

func (m Model) renderTopBorder(state StyleState, innerWidth int) string {
	hBar := m.border.Top
	available := max(innerWidth-2, 0)

	title := padLabel(m.title)
	meta := padLabel(m.meta)
	if ansi.StringWidth(title)+ansi.StringWidth(meta) > available {
		meta = ""
	}
	if ansi.StringWidth(title) > available {
		title = ansi.Truncate(title, available, "…")
	}
	remaining := available - ansi.StringWidth(title) - ansi.StringWidth(meta)

	return state.Border.Render(m.border.TopLeft+hBar) +
		state.Title.Render(title) +
		state.Border.Render(strings.Repeat(hBar, remaining)) +
		state.Meta.Render(meta) +
		state.Border.Render(hBar+m.border.TopRight)
}

func (m Model) renderBottomBorder(state StyleState, innerWidth int) string {
	return state.Border.Render(
		m.border.BottomLeft + strings.Repeat(m.border.Bottom, innerWidth) + m.border.BottomRight,
	)
}

func (m Model) renderBody(state StyleState, innerWidth, contentHeight int) []string {
	lines := strings.Split(m.content, "\n")
	body := make([]string, 0, contentHeight)

	vBar := state.Border.Render(m.border.Left)
	vBarRight := state.Border.Render(m.border.Right)

	for i := range contentHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		body = append(body, vBar+padLine(line, innerWidth, m.padding)+vBarRight)
	}

	return body
}

func padLine(line string, width, padding int) string {
	if padding > 0 {
		spaces := strings.Repeat(" ", padding)
		line = spaces + line + spaces
	}

	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return line
}

func padLabel(label string) string {
	if label == "" {
		return ""
	}
	return " " + label + " "
}
