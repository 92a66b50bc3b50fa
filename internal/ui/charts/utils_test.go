package charts

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestAxisMap(t *testing.T) {
	tests := []struct {
		name          string
		total, target int
		want          []int
	}{
		{name: "empty", total: 0, target: 4, want: nil},
		{name: "single", total: 1, target: 4, want: []int{0}},
		{name: "identity", total: 3, target: 3, want: []int{0, 1, 2}},
		{name: "spread", total: 3, target: 5, want: []int{0, 2, 4}},
		{name: "squeeze", total: 5, target: 2, want: []int{0, 0, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AxisMap(tt.total, tt.target); !slices.Equal(got, tt.want) {
				t.Errorf("AxisMap(%d, %d) = %v, want %v", tt.total, tt.target, got, tt.want)
			}
		})
	}
}

func TestRemapSeries(t *testing.T) {
	if got, want := RemapSeries([]int64{1, 2, 3, 4}, 2), []int64{3, 7}; !slices.Equal(got, want) {
		t.Errorf("RemapSeries() = %v, want %v", got, want)
	}
	if got := RemapSeries(nil, 2); got != nil {
		t.Errorf("RemapSeries(nil) = %v, want nil", got)
	}
}

func TestBuildBucketLabelLine(t *testing.T) {
	line := BuildBucketLabelLine(20, []string{"15:00", "15:01", "15:02"})
	if len([]rune(line)) != 20 {
		t.Fatalf("width = %d, want 20", len([]rune(line)))
	}
	if !strings.HasPrefix(line, "15:00") || !strings.Contains(line, "15:01") {
		t.Errorf("line = %q", line)
	}

	// A label clipped to column 0 still blocks an overlapping neighbor.
	if got := BuildBucketLabelLine(6, []string{"aaaa", "bbbb"}); !strings.HasPrefix(got, "aaaa") || strings.Contains(got, "b") {
		t.Errorf("crowded line = %q", got)
	}
}

func TestRenderCentered(t *testing.T) {
	out := RenderCentered(11, 3, "hi")
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if got := ansi.Strip(lines[1]); got != "    hi" {
		t.Errorf("middle line = %q", got)
	}
	if RenderCentered(5, 0, "x") != "" {
		t.Error("zero height rendered content")
	}
}
