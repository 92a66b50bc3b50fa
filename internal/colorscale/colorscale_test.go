package colorscale

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestLinearEndpoints(t *testing.T) {
	s, err := New(WithPalette([]string{"#000000", "#ffffff"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Calibrate([]float64{10, 20, 30})

	if got := s.Hex(10); got != "#000000" {
		t.Fatalf("Hex(min) = %s, want #000000", got)
	}
	if got := s.Hex(30); got != "#ffffff" {
		t.Fatalf("Hex(max) = %s, want #ffffff", got)
	}
	if got := s.Hex(100); got != "#ffffff" {
		t.Fatalf("Hex(above max) = %s, want #ffffff", got)
	}
	if got := s.Position(20); got != 0.5 {
		t.Fatalf("Position(mid) = %v, want 0.5", got)
	}
}

func TestDegenerateDomain(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Calibrate([]float64{5, 5})
	if got := s.Position(5); got != 0 {
		t.Fatalf("Position = %v, want 0", got)
	}
	s.Calibrate(nil)
	if lo, hi := s.Domain(); lo != 0 || hi != 1 {
		t.Fatalf("Domain = %v..%v, want 0..1", lo, hi)
	}
}

func TestQuantileSpreadsSkewedData(t *testing.T) {
	s, err := New(WithMode(Quantile))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	values := []float64{1, 1, 2, 2, 3, 3, 4, 4, 5, 1000}
	s.Calibrate(values)

	linear, _ := New()
	linear.Calibrate(values)

	if q, l := s.Position(5), linear.Position(5); q <= l {
		t.Fatalf("quantile position %v should exceed linear %v for skewed data", q, l)
	}
	if got := s.Position(1000); got != 1 {
		t.Fatalf("Position(max) = %v, want 1", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: Linear},
		{in: "linear", want: Linear},
		{in: "quantile", want: Quantile},
		{in: "log", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseMode(%q) error = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInvalidPalette(t *testing.T) {
	if _, err := New(WithPalette([]string{"#fff"})); err == nil {
		t.Fatal("expected error for single color palette")
	}
	if _, err := New(WithPalette([]string{"#fff", "nope"})); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestFade(t *testing.T) {
	red := colorful.Color{R: 1}
	white := colorful.Color{R: 1, G: 1, B: 1}
	if got := Fade(red, white, 0).Hex(); got != red.Hex() {
		t.Fatalf("Fade(0) = %s, want %s", got, red.Hex())
	}
	if got := Fade(red, white, 1).Hex(); got != white.Hex() {
		t.Fatalf("Fade(1) = %s, want %s", got, white.Hex())
	}
}
