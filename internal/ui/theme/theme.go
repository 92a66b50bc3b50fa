// Package theme defines the colors and styles of the terminal UI.
package theme

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/compat"
)

// Theme defines all colors used throughout the UI.
type Theme struct {
	// Base colors
	Primary compat.CompleteAdaptiveColor

	// Text colors
	Text      compat.CompleteAdaptiveColor
	TextMuted compat.CompleteAdaptiveColor

	// Background colors
	Bg           compat.AdaptiveColor
	MetricsBarBg compat.CompleteAdaptiveColor

	// Border colors
	Border      compat.AdaptiveColor
	BorderFocus compat.CompleteAdaptiveColor

	// Accent colors
	Highlight compat.AdaptiveColor
	Success   compat.AdaptiveColor
	Error     compat.AdaptiveColor

	// JSON token colors
	JSONKey    compat.AdaptiveColor
	JSONString compat.AdaptiveColor
	JSONNumber compat.AdaptiveColor

	// Metrics colors
	MetricsText compat.CompleteAdaptiveColor
}

// DefaultTheme is the adaptive color scheme used by default.
// Use Open Color palette when possible to define colors: https://yeun.github.io/open-color/
var DefaultTheme = Theme{
	Primary: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#B2003C"), ANSI256: lipgloss.Color("161"), ANSI: lipgloss.Color("13")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F73D68"), ANSI256: lipgloss.Color("204"), ANSI: lipgloss.Color("13")},
	},

	// Text
	Text: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#111827"), ANSI256: lipgloss.Color("0"), ANSI: lipgloss.Color("0")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F9FAFB"), ANSI256: lipgloss.Color("15"), ANSI: lipgloss.Color("15")},
	},
	TextMuted: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#6B7280"), ANSI256: lipgloss.Color("240"), ANSI: lipgloss.Color("8")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#9CA3AF"), ANSI256: lipgloss.Color("250"), ANSI: lipgloss.Color("7")},
	},

	// Backgrounds
	Bg: compat.AdaptiveColor{
		Light: lipgloss.Color("15"),
		Dark:  lipgloss.Color("0"),
	},
	MetricsBarBg: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1c7ed6"), ANSI256: lipgloss.Color("33"), ANSI: lipgloss.Color("12")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#4dabf7"), ANSI256: lipgloss.Color("25"), ANSI: lipgloss.Color("4")},
	},

	// Borders
	Border: compat.AdaptiveColor{
		Light: lipgloss.Color("#D1D5DB"), // Gray-300
		Dark:  lipgloss.Color("#374151"), // Gray-700
	},
	BorderFocus: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#B2003C"), ANSI256: lipgloss.Color("161"), ANSI: lipgloss.Color("13")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F73D68"), ANSI256: lipgloss.Color("204"), ANSI: lipgloss.Color("13")},
	},

	// Accents
	Highlight: compat.AdaptiveColor{
		Light: lipgloss.Color("#F08C00"), // Orange-8
		Dark:  lipgloss.Color("#FFA94D"), // Orange-4
	},
	Success: compat.AdaptiveColor{
		Light: lipgloss.Color("#16A34A"),
		Dark:  lipgloss.Color("#22C55E"),
	},
	Error: compat.AdaptiveColor{
		Light: lipgloss.Color("#FF0000"),
		Dark:  lipgloss.Color("#FF0000"),
	},

	// JSON
	JSONKey: compat.AdaptiveColor{
		Light: lipgloss.Color("#1971C2"), // Blue-8
		Dark:  lipgloss.Color("#74C0FC"), // Blue-3
	},
	JSONString: compat.AdaptiveColor{
		Light: lipgloss.Color("#2F9E44"), // Green-8
		Dark:  lipgloss.Color("#8CE99A"), // Green-3
	},
	JSONNumber: compat.AdaptiveColor{
		Light: lipgloss.Color("#9C36B5"), // Grape-8
		Dark:  lipgloss.Color("#E599F7"), // Grape-3
	},

	// Metrics
	MetricsText: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
	},
}

// Styles holds all lipgloss styles derived from a theme.
type Styles struct {
	// Metrics bar
	MetricsBar   lipgloss.Style
	MetricsLabel lipgloss.Style
	MetricsValue lipgloss.Style
	MetricsSep   lipgloss.Style

	// Navbar
	NavBar   lipgloss.Style
	NavItem  lipgloss.Style
	NavKey   lipgloss.Style
	NavBrand lipgloss.Style

	// Content
	ViewTitle lipgloss.Style
	ViewText  lipgloss.Style
	ViewMuted lipgloss.Style

	// Frames
	BorderStyle lipgloss.Style
	FocusBorder lipgloss.Style

	// Heat grid
	GridLabel    lipgloss.Style
	GridSelected lipgloss.Style
	GridCursor   lipgloss.Style

	// Charts
	ChartAxis      lipgloss.Style
	ChartBar       lipgloss.Style
	ChartHighlight lipgloss.Style

	// JSON
	JSONKey         lipgloss.Style
	JSONString      lipgloss.Style
	JSONNumber      lipgloss.Style
	JSONBool        lipgloss.Style
	JSONPunctuation lipgloss.Style

	// Errors
	ErrorTitle  lipgloss.Style
	ErrorBorder lipgloss.Style
}

// NewStyles creates a Styles instance from the default adaptive theme.
func NewStyles() Styles {
	t := DefaultTheme
	return Styles{
		// Metrics bar
		MetricsBar: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.MetricsBarBg).
			Padding(0, 1),

		MetricsLabel: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.MetricsBarBg),

		MetricsValue: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.MetricsBarBg).
			Bold(true),

		MetricsSep: lipgloss.NewStyle().
			Foreground(t.MetricsText).
			Background(t.MetricsBarBg).
			Faint(true),

		// Navbar
		NavBar: lipgloss.NewStyle().
			Padding(0, 1),

		NavItem: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			PaddingRight(1),

		NavKey: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Border).
			Padding(0, 1),

		NavBrand: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		// Content
		ViewTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		ViewText: lipgloss.NewStyle().
			Foreground(t.Text),

		ViewMuted: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		// Frames
		BorderStyle: lipgloss.NewStyle().
			Foreground(t.Border),

		FocusBorder: lipgloss.NewStyle().
			Foreground(t.BorderFocus),

		// Heat grid
		GridLabel: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		GridSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		GridCursor: lipgloss.NewStyle().
			Bold(true),

		// Charts
		ChartAxis: lipgloss.NewStyle().
			Foreground(t.Border),

		ChartBar: lipgloss.NewStyle().
			Foreground(t.Success),

		ChartHighlight: lipgloss.NewStyle().
			Foreground(t.Highlight),

		// JSON
		JSONKey: lipgloss.NewStyle().
			Foreground(t.JSONKey),

		JSONString: lipgloss.NewStyle().
			Foreground(t.JSONString),

		JSONNumber: lipgloss.NewStyle().
			Foreground(t.JSONNumber),

		JSONBool: lipgloss.NewStyle().
			Foreground(t.Primary),

		JSONPunctuation: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		ErrorTitle: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		ErrorBorder: lipgloss.NewStyle().
			Foreground(t.Error),
	}
}
