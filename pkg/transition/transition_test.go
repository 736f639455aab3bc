package transition

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/scene"
	"github.com/matzehuels/deckview/pkg/tween"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newController(t *testing.T, n int, opts ...Option) (*Controller, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: t0}
	sc := scene.New(scene.Placeholder(n), 99)
	opts = append([]Option{WithClock(clk.Now)}, opts...)
	return New(sc, tween.NewScheduler(), opts...), clk
}

func TestTransitionReachesTargetsExactly(t *testing.T) {
	for _, name := range layout.Names() {
		t.Run(string(name), func(t *testing.T) {
			c, clk := newController(t, 57)
			if err := c.TransitionTo(name, time.Second); err != nil {
				t.Fatalf("TransitionTo() error: %v", err)
			}
			if c.Active() != name {
				t.Errorf("Active() = %s, want %s", c.Active(), name)
			}

			clk.Advance(time.Second)
			if !c.Tick() {
				t.Error("Tick() at duration = false, want true (render margin)")
			}

			targets, _ := c.Scene().Targets(name)
			if diff := cmp.Diff([]geom.Transform(targets), c.Scene().Objects); diff != "" {
				t.Errorf("objects != targets (-want +got):\n%s", diff)
			}

			clk.Advance(200 * time.Millisecond)
			if c.Tick() {
				t.Error("Tick() after render margin = true, want false")
			}
			if c.Running() {
				t.Error("Running() = true after completion")
			}
		})
	}
}

func TestTransitionLengthMismatch(t *testing.T) {
	c, _ := newController(t, 3)
	if err := c.TransitionTo(layout.Grid, time.Second); err != nil {
		t.Fatal(err)
	}
	before := c.Active()

	err := c.Transition(make(layout.TargetSet, 2), time.Second, layout.Table)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Transition() error = %v, want INVALID_INPUT", err)
	}
	if c.Active() != before || !c.Running() {
		t.Error("failed Transition() should not touch state")
	}
}

func TestTransitionUnknownLayout(t *testing.T) {
	c, _ := newController(t, 3)
	if err := c.TransitionTo("cube", time.Second); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("TransitionTo(cube) error = %v, want INVALID_LAYOUT", err)
	}
}

func TestTransitionAlias(t *testing.T) {
	c, _ := newController(t, 8)
	if err := c.TransitionTo("pyramid", time.Second); err != nil {
		t.Fatalf("TransitionTo(pyramid) error: %v", err)
	}
	if c.Active() != layout.Tetrahedron {
		t.Errorf("Active() = %s, want %s", c.Active(), layout.Tetrahedron)
	}
}

func TestRestartDiscardsPrevious(t *testing.T) {
	c, clk := newController(t, 40)
	if err := c.TransitionTo(layout.Sphere, time.Second); err != nil {
		t.Fatal(err)
	}
	clk.Advance(500 * time.Millisecond)
	c.Tick()

	if err := c.TransitionTo(layout.Table, time.Second); err != nil {
		t.Fatal(err)
	}
	// 2 tweens per card plus the render tween; nothing left from the sphere.
	if got, want := c.sched.Len(), 2*40+1; got != want {
		t.Errorf("scheduler Len() = %d, want %d", got, want)
	}

	clk.Advance(time.Second)
	c.Tick()

	targets, _ := c.Scene().Targets(layout.Table)
	for i, o := range c.Scene().Objects {
		if o.Position != targets[i].Position {
			t.Errorf("object %d position = %v, want %v", i, o.Position, targets[i].Position)
		}
		for k := 0; k < 3; k++ {
			if r := math.Mod(o.Rotation[k], 2*math.Pi); math.Abs(r) > 1e-12 && math.Abs(math.Abs(r)-2*math.Pi) > 1e-12 {
				t.Errorf("object %d rotation = %v, want multiple of 2π", i, o.Rotation)
			}
		}
	}
}

func TestShortestArcRotation(t *testing.T) {
	c, clk := newController(t, 1, WithEasing(tween.Linear))
	c.Scene().Objects[0].Rotation = geom.Euler{0, 0, 3.0}

	targets := layout.TargetSet{{Rotation: geom.Euler{0, 0, -3.0}}}
	if err := c.Transition(targets, time.Second, layout.Table); err != nil {
		t.Fatal(err)
	}

	want := 3.0 + (2*math.Pi - 6)
	clk.Advance(500 * time.Millisecond)
	c.Tick()
	mid := c.Scene().Objects[0].Rotation[2]
	if mid < 3.0 || mid > want {
		t.Errorf("mid rotation = %v, want within [3, %v]", mid, want)
	}

	clk.Advance(500 * time.Millisecond)
	c.Tick()
	if got := c.Scene().Objects[0].Rotation[2]; math.Abs(got-want) > 1e-12 {
		t.Errorf("final rotation = %v, want %v", got, want)
	}
}

func TestRenderCallback(t *testing.T) {
	renders := 0
	c, clk := newController(t, 5, WithRenderFunc(func() { renders++ }))
	if err := c.TransitionTo(layout.Helix, time.Second); err != nil {
		t.Fatal(err)
	}

	ticks := 0
	for c.Tick() {
		ticks++
		clk.Advance(100 * time.Millisecond)
		if ticks > 100 {
			t.Fatal("transition never finished")
		}
	}
	// Ticks at 0, 100ms, ..., 1200ms: the last one retires the render tween.
	if renders != 13 {
		t.Errorf("renders = %d, want 13", renders)
	}
}

func TestEmptyScene(t *testing.T) {
	c, clk := newController(t, 0)
	if err := c.TransitionTo(layout.Sphere, time.Second); err != nil {
		t.Fatalf("TransitionTo() error: %v", err)
	}
	clk.Advance(2 * time.Second)
	if c.Tick() {
		t.Error("Tick() = true after completion on empty scene")
	}
}
