package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/observability"
	"github.com/matzehuels/deckview/pkg/scene"
	"github.com/matzehuels/deckview/pkg/source"
	"github.com/matzehuels/deckview/pkg/transition"
	"github.com/matzehuels/deckview/pkg/tween"
)

// Sequence is the snapshots captured during one transition.
type Sequence struct {
	Layout layout.Name
	Frames [][]geom.Transform
}

// Animation is the output of Animate.
type Animation struct {
	Sequences []Sequence
	Ticks     int // simulated frames, including the render margin
	Redraws   int // render-refresh callbacks fired by the controller
}

// epoch is the start of simulated time.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Animate scatters the items' cards, settles them into the initial layout,
// then transitions through opts.Layouts on a simulated clock advancing at
// opts.FPS. Each transition yields opts.Frames snapshots evenly spaced over
// its duration; the last is taken at or after the end, so it equals the
// layout's targets.
func (r *Runner) Animate(ctx context.Context, items []source.Item, opts Options) (*Animation, error) {
	if err := opts.SetDefaults(); err != nil {
		return nil, err
	}

	anim := &Animation{}
	now := epoch
	sc := scene.New(items, opts.Seed)
	ctrl := transition.New(sc, tween.NewScheduler(),
		transition.WithClock(func() time.Time { return now }),
		transition.WithEasing(opts.easing),
		transition.WithRenderFunc(func() { anim.Redraws++ }),
		transition.WithLogger(opts.Logger),
	)

	// Startup: jump straight to the end of the settle transition.
	if err := ctrl.TransitionTo(opts.initial, opts.Duration); err != nil {
		return nil, err
	}
	now = now.Add(marginOf(opts.Duration))
	for ctrl.Tick() {
		now = now.Add(time.Second)
	}

	step := time.Second / time.Duration(opts.FPS)
	for _, name := range opts.layouts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := now
		observability.Pipeline().OnTransitionStart(ctx, string(name), sc.Len())
		if err := ctrl.TransitionTo(name, opts.Duration); err != nil {
			observability.Pipeline().OnTransitionComplete(ctx, string(name), 0, 0, err)
			return nil, err
		}

		seq := Sequence{Layout: name}
		captures := captureTimes(start, opts.Duration, opts.Frames)
		next := 0
		for {
			running := ctrl.Tick()
			anim.Ticks++
			for next < len(captures) && !now.Before(captures[next]) {
				seq.Frames = append(seq.Frames, sc.Snapshot())
				next++
			}
			if !running {
				break
			}
			now = now.Add(step)
		}
		for ; next < len(captures); next++ {
			seq.Frames = append(seq.Frames, sc.Snapshot())
		}

		anim.Sequences = append(anim.Sequences, seq)
		observability.Pipeline().OnTransitionComplete(ctx, string(name), len(seq.Frames), now.Sub(start), nil)
	}
	return anim, nil
}

// captureTimes spreads n capture instants over [start, start+d]. A single
// capture is taken at the end.
func captureTimes(start time.Time, d time.Duration, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []time.Time{start.Add(d)}
	}
	out := make([]time.Time, n)
	for k := range out {
		out[k] = start.Add(time.Duration(int64(d) * int64(k) / int64(n-1)))
	}
	return out
}

func marginOf(d time.Duration) time.Duration {
	return time.Duration(float64(d) * transition.RenderMargin)
}
