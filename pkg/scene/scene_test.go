package scene

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/layout"
)

func TestNewScatter(t *testing.T) {
	s := New(Placeholder(50), 42)
	if s.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", s.Len())
	}
	for i, o := range s.Objects {
		for k := 0; k < 3; k++ {
			if o.Position[k] < -ScatterRange || o.Position[k] >= ScatterRange {
				t.Errorf("object %d coordinate %d = %v out of range", i, k, o.Position[k])
			}
		}
		if o.Rotation != (geom.Euler{}) {
			t.Errorf("object %d rotation = %v, want zero", i, o.Rotation)
		}
	}
}

func TestNewDeterministic(t *testing.T) {
	a := New(Placeholder(20), 7)
	b := New(Placeholder(20), 7)
	c := New(Placeholder(20), 8)
	if diff := cmp.Diff(a.Objects, b.Objects); diff != "" {
		t.Errorf("same seed produced different scatter:\n%s", diff)
	}
	if cmp.Equal(a.Objects, c.Objects) {
		t.Error("different seeds produced identical scatter")
	}
}

func TestTargetsCached(t *testing.T) {
	s := New(Placeholder(30), 1)
	for _, name := range layout.Names() {
		set, err := s.Targets(name)
		if err != nil {
			t.Fatalf("Targets(%s) error: %v", name, err)
		}
		if len(set) != s.Len() {
			t.Errorf("len(Targets(%s)) = %d, want %d", name, len(set), s.Len())
		}
		again, _ := s.Targets(name)
		if &set[0] != &again[0] {
			t.Errorf("Targets(%s) recomputed instead of cached", name)
		}
	}

	if _, err := s.Targets("cube"); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Targets(cube) error = %v, want INVALID_LAYOUT", err)
	}
}

func TestEmptyScene(t *testing.T) {
	s := New(nil, 1)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	set, err := s.Targets(layout.Sphere)
	if err != nil || len(set) != 0 {
		t.Errorf("Targets(sphere) = %d, %v; want empty, nil", len(set), err)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New(Placeholder(3), 1)
	snap := s.Snapshot()
	s.Objects[0].Position[0] = 12345
	if snap[0].Position[0] == 12345 {
		t.Error("Snapshot shares memory with Objects")
	}
}
