package filters

import (
	"slices"
	"testing"

	"pgregory.net/rapid"
)

func TestSetToggle(t *testing.T) {
	s := NewSet[TwoD[string, string]]()
	ax := NewTwoD("a", "x")

	if !s.Toggle(ax) {
		t.Fatal("first Toggle should add")
	}
	if !s.Has(ax) || s.Len() != 1 {
		t.Fatalf("Has = %v, Len = %d after add", s.Has(ax), s.Len())
	}
	if s.Toggle(ax) {
		t.Fatal("second Toggle should remove")
	}
	if !s.Empty() {
		t.Fatalf("Len = %d, want empty", s.Len())
	}
}

func TestSetKeepsInsertionOrder(t *testing.T) {
	s := NewSet[int]()
	for _, v := range []int{3, 1, 2, 1} {
		s.Add(v)
	}
	s.Remove(3)
	if got, want := s.All(), []int{1, 2}; !slices.Equal(got, want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
}

func TestZeroValueSetAdd(t *testing.T) {
	var s Set[string]
	if !s.Add("a") || !s.Has("a") {
		t.Fatal("zero value set should accept filters")
	}
}

func TestApply(t *testing.T) {
	s := NewSet[string]()
	s.Add("keep")
	s.Add("drop")
	Apply(s, []Command[string]{
		{Op: OpRemove, Filter: "drop"},
		{Op: OpAdd, Filter: "keep"},
		Toggle("new"),
	})
	if got, want := s.All(), []string{"keep", "new"}; !slices.Equal(got, want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
}

func TestToggleTwiceRestoresSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.SliceOfDistinct(rapid.IntRange(0, 20), rapid.ID[int]).Draw(t, "initial")
		f := rapid.IntRange(0, 20).Draw(t, "filter")

		s := NewSet[int]()
		for _, v := range initial {
			s.Add(v)
		}
		before := s.All()
		s.Toggle(f)
		s.Toggle(f)
		after := s.All()

		slices.Sort(before)
		slices.Sort(after)
		if !slices.Equal(before, after) {
			t.Fatalf("set changed after double toggle: %v -> %v", before, after)
		}
	})
}
