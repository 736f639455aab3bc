package tween

import (
	"fmt"
	"time"

	"github.com/matzehuels/deckview/pkg/geom"
)

// Tween interpolates a fixed set of float64 fields from the values they hold
// at Start to the end values given by To.
type Tween struct {
	fields []*float64
	from   []float64
	to     []float64

	startTime time.Time
	duration  time.Duration
	easing    Easing
	started   bool
	done      bool

	onUpdate   func(value float64)
	onComplete func()
}

// New creates a tween over the given fields. A tween without fields is
// valid: it only reports progress through its callbacks.
func New(fields ...*float64) *Tween {
	return &Tween{
		fields: fields,
		to:     make([]float64, len(fields)),
		easing: Linear,
	}
}

// OfVec3 creates a tween over the three components of v.
func OfVec3(v *geom.Vec3) *Tween {
	return New(&v[0], &v[1], &v[2])
}

// To sets the end values and the duration. It panics if the number of end
// values differs from the number of fields.
func (t *Tween) To(d time.Duration, end ...float64) *Tween {
	if len(end) != len(t.fields) {
		panic(fmt.Sprintf("tween: %d end values for %d fields", len(end), len(t.fields)))
	}
	copy(t.to, end)
	t.duration = d
	return t
}

// ToVec3 is To for tweens created with [OfVec3].
func (t *Tween) ToVec3(d time.Duration, end geom.Vec3) *Tween {
	return t.To(d, end[:]...)
}

// Easing sets the easing function. A nil easing selects [Linear].
func (t *Tween) Easing(e Easing) *Tween {
	if e == nil {
		e = Linear
	}
	t.easing = e
	return t
}

// OnUpdate registers a callback invoked with the eased value after every
// update that writes the fields.
func (t *Tween) OnUpdate(fn func(value float64)) *Tween {
	t.onUpdate = fn
	return t
}

// OnComplete registers a callback invoked once, on the update that retires
// the tween.
func (t *Tween) OnComplete(fn func()) *Tween {
	t.onComplete = fn
	return t
}

// Start snapshots the current field values and records the start time.
// Calling Start again restarts the tween from the fields' values at that
// moment.
func (t *Tween) Start(now time.Time) *Tween {
	t.from = make([]float64, len(t.fields))
	for i, f := range t.fields {
		t.from[i] = *f
	}
	t.startTime = now
	t.started = true
	t.done = false
	return t
}

// Started reports whether Start has been called.
func (t *Tween) Started() bool { return t.started }

// Done reports whether the tween has reached its end values.
func (t *Tween) Done() bool { return t.done }

// StartTime returns the time passed to Start.
func (t *Tween) StartTime() time.Time { return t.startTime }

// Duration returns the configured duration.
func (t *Tween) Duration() time.Duration { return t.duration }

// Progress returns the linear progress in [0, 1] at now.
func (t *Tween) Progress(now time.Time) float64 {
	if !t.started || now.Before(t.startTime) {
		return 0
	}
	if t.duration <= 0 {
		return 1
	}
	return clamp01(float64(now.Sub(t.startTime)) / float64(t.duration))
}

// Update advances the tween to now and reports whether it is still active.
//
// A tween that has not been started, or whose start time lies after now, is
// left untouched and stays active. At full progress the fields are set to
// their end values exactly and the tween retires.
func (t *Tween) Update(now time.Time) bool {
	if t.done {
		return false
	}
	if !t.started || now.Before(t.startTime) {
		return true
	}

	elapsed := t.Progress(now)
	value := t.easing(elapsed)
	if elapsed == 1 {
		value = 1
	}

	for i, f := range t.fields {
		if elapsed == 1 {
			*f = t.to[i]
			continue
		}
		*f = t.from[i] + (t.to[i]-t.from[i])*value
	}

	if t.onUpdate != nil {
		t.onUpdate(value)
	}

	if elapsed < 1 {
		return true
	}
	t.done = true
	if t.onComplete != nil {
		t.onComplete()
	}
	return false
}
