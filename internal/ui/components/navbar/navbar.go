// Package navbar renders the bottom bar of key hints.
package navbar

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Styles holds the styles needed by the navbar.
type Styles struct {
	Bar   lipgloss.Style
	Key   lipgloss.Style
	Item  lipgloss.Style
	Brand lipgloss.Style
}

// DefaultStyles returns default styles for the navbar.
func DefaultStyles() Styles {
	return Styles{
		Bar:   lipgloss.NewStyle().Padding(0, 1),
		Key:   lipgloss.NewStyle().Padding(0, 1),
		Item:  lipgloss.NewStyle().PaddingRight(1),
		Brand: lipgloss.NewStyle().Bold(true),
	}
}

// Model defines state for the navbar component.
type Model struct {
	styles   Styles
	bindings []key.Binding
	brand    string
	width    int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new navbar model.
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

// WithBindings sets the key bindings to hint at.
func WithBindings(bindings []key.Binding) Option {
	return func(m *Model) {
		m.bindings = bindings
	}
}

// WithBrand sets the text shown at the right edge.
func WithBrand(brand string) Option {
	return func(m *Model) {
		m.brand = brand
	}
}

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// SetBindings sets the key bindings to hint at.
func (m *Model) SetBindings(bindings []key.Binding) {
	m.bindings = bindings
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the height of the navbar (always 1).
func (m Model) Height() int {
	return 1
}

// View renders the navbar. Hints that do not fit are dropped from the end.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	inner := max(m.width-m.styles.Bar.GetHorizontalFrameSize(), 0)

	brand := ""
	if m.brand != "" {
		brand = m.styles.Brand.Render(m.brand)
	}
	room := inner - lipgloss.Width(brand)

	var items strings.Builder
	used := 0
	for _, b := range m.bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		item := m.styles.Key.Render(h.Key) + m.styles.Item.Render(h.Desc)
		w := lipgloss.Width(item)
		if used+w > room {
			break
		}
		items.WriteString(item)
		used += w
	}

	gap := strings.Repeat(" ", max(room-used, 0))
	line := ansi.Truncate(items.String()+gap+brand, inner, "")
	return m.styles.Bar.Width(m.width).Render(line)
}
