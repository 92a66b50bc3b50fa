package errorpopup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func background(width, height int) string {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(".", width)
	}
	return strings.Join(lines, "\n")
}

func TestHasError(t *testing.T) {
	tests := map[string]struct {
		message string
		want    bool
	}{
		"empty":  {message: "", want: false},
		"filled": {message: "boom", want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m := New(WithMessage(tc.message))
			if got := m.HasError(); got != tc.want {
				t.Fatalf("HasError() = %v, want %v", got, tc.want)
			}
			if got := m.Message(); got != tc.message {
				t.Fatalf("Message() = %q, want %q", got, tc.message)
			}
		})
	}
}

func TestViewWithoutErrorShowsBackground(t *testing.T) {
	m := New(WithSize(40, 5))
	m.SetBackground(background(40, 5))
	if got := m.View(); got != background(40, 5) {
		t.Errorf("View() = %q, want background", got)
	}
}

func TestViewOverlaysBox(t *testing.T) {
	m := New(
		WithSize(80, 12),
		WithTitle("Connection Error"),
		WithHint("Retrying every 5s..."),
		WithMessage("dial tcp: connection refused"),
	)
	m.SetBackground(background(80, 12))

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	out := strings.Join(lines, "\n")
	for _, want := range []string{"Connection Error", "dial tcp: connection refused", "Retrying every 5s..."} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
	if lines[0] != strings.Repeat(".", 80) {
		t.Errorf("first line = %q, want untouched background", lines[0])
	}
	for _, line := range lines {
		if strings.Contains(line, "╭") && ansi.StringWidth(strings.TrimSpace(line)) != 60 {
			t.Errorf("top border width = %d, want 60", ansi.StringWidth(strings.TrimSpace(line)))
		}
	}
}

func TestViewNarrowBox(t *testing.T) {
	m := New(WithSize(30, 8), WithMessage("boom"))
	m.SetBackground(background(30, 8))
	for _, line := range strings.Split(ansi.Strip(m.View()), "\n") {
		if strings.Contains(line, "╭") && ansi.StringWidth(strings.TrimSpace(line)) != 30 {
			t.Errorf("top border = %q, want 30 wide", line)
		}
	}
	if !strings.Contains(ansi.Strip(m.View()), " Error ") {
		t.Errorf("default title missing")
	}
}
