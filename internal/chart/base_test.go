package chart

import (
	"errors"
	"slices"
	"testing"

	"github.com/kpumuk/kiqheat/internal/chartgroup"
	"github.com/kpumuk/kiqheat/internal/filters"
)

type stubChart struct {
	*Base[int, string]
	redraws int
}

func (s *stubChart) Render() error { return s.Redraw() }

func (s *stubChart) Redraw() error {
	s.redraws++
	return nil
}

func TestCheckMandatory(t *testing.T) {
	b := NewBase[int, string](nil)
	b.SetMandatoryAttributes("group")

	err := b.CheckMandatory()
	if !errors.Is(err, ErrMandatoryAttribute) {
		t.Fatalf("CheckMandatory() = %v, want ErrMandatoryAttribute", err)
	}

	b.SetGroup(GroupFunc[int](func() []int { return []int{1, 2} }))
	if err := b.CheckMandatory(); err != nil {
		t.Fatalf("CheckMandatory() = %v, want nil", err)
	}
	if got := b.Data(); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("Data() = %v", got)
	}
}

func TestUnknownMandatoryAttribute(t *testing.T) {
	b := NewBase[int, string](nil)
	b.SetMandatoryAttributes("dimension")
	if err := b.CheckMandatory(); !errors.Is(err, ErrMandatoryAttribute) {
		t.Fatalf("CheckMandatory() = %v, want ErrMandatoryAttribute", err)
	}
}

func TestEffectiveSize(t *testing.T) {
	b := NewBase[int, string](nil)
	b.SetSize(100, 50)
	b.SetMargins(Margins{Top: 5, Right: 10, Bottom: 15, Left: 20})

	if got := b.EffectiveWidth(); got != 70 {
		t.Fatalf("EffectiveWidth() = %d, want 70", got)
	}
	if got := b.EffectiveHeight(); got != 30 {
		t.Fatalf("EffectiveHeight() = %d, want 30", got)
	}

	b.SetSize(10, 10)
	if b.EffectiveWidth() != 0 || b.EffectiveHeight() != 0 {
		t.Fatalf("effective size should clamp at zero, got %dx%d", b.EffectiveWidth(), b.EffectiveHeight())
	}
}

func TestFilterPropagation(t *testing.T) {
	b := NewBase[int, string](nil)
	var handled [][]string
	var listened int
	b.SetFilterHandler(func(active []string) { handled = append(handled, active) })
	b.OnFiltered(func([]string) { listened++ })

	b.Filter("a")
	b.ApplyCommands([]filters.Command[string]{filters.Toggle("b"), filters.Toggle("c")})
	b.ApplyCommands(nil)

	if !b.HasFilter("a") || !b.HasFilter("c") || !b.HasAnyFilter() {
		t.Fatalf("Filters() = %v", b.Filters())
	}
	if len(handled) != 2 || listened != 2 {
		t.Fatalf("handler calls = %d, listener calls = %d, want 2 and 2", len(handled), listened)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(handled[1], want) {
		t.Fatalf("last handled = %v, want %v", handled[1], want)
	}

	b.ResetFilters()
	if b.HasAnyFilter() {
		t.Fatal("HasAnyFilter after ResetFilters")
	}
}

func TestAttachRegistersWithGroup(t *testing.T) {
	registry := chartgroup.NewRegistry()
	c := &stubChart{Base: NewBase[int, string](registry)}
	c.Attach("heat", "ops", c)

	if c.Anchor() != "heat" || c.ChartGroup() != "ops" {
		t.Fatalf("Anchor() = %q, ChartGroup() = %q", c.Anchor(), c.ChartGroup())
	}
	if err := c.RedrawGroup(); err != nil {
		t.Fatalf("RedrawGroup: %v", err)
	}
	if c.redraws != 1 {
		t.Fatalf("redraws = %d, want 1", c.redraws)
	}

	c.Attach("heat", "other", c)
	if got := len(registry.Charts("ops")); got != 0 {
		t.Fatalf("old group still has %d charts", got)
	}
	if got := len(registry.Charts("other")); got != 1 {
		t.Fatalf("new group has %d charts, want 1", got)
	}
}
