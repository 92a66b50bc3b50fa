package ui

import "charm.land/bubbles/v2/key"

// KeyMap defines all global keybindings.
type KeyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Select      key.Binding
	Column      key.Binding
	Row         key.Binding
	Clear       key.Binding
	Metric      key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	Refresh     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("enter", "toggle cell"),
		),
		Column: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle column"),
		),
		Row: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "toggle row"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x", "clear"),
		),
		Metric: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "metric"),
		),
		ScrollLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "scroll detail left"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "scroll detail right"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
	}
}

// ShortHelp returns keybindings to show in the navbar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Column, k.Row, k.Clear, k.Metric, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Column, k.Row, k.Clear},
		{k.Metric, k.ScrollLeft, k.ScrollRight, k.Refresh, k.Quit},
	}
}
