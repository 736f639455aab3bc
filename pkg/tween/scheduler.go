package tween

import "time"

// Scheduler is an ordered collection of active tweens.
//
// Tweens may be added, and the scheduler cleared, from inside tween
// callbacks. Tweens added during Update are first advanced on the next call.
type Scheduler struct {
	tweens []*Tween
	epoch  uint64
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers a tween. Unstarted tweens are held without being advanced
// until they are started.
func (s *Scheduler) Add(t *Tween) {
	s.tweens = append(s.tweens, t)
}

// Start starts t at now and registers it.
func (s *Scheduler) Start(t *Tween, now time.Time) *Tween {
	t.Start(now)
	s.Add(t)
	return t
}

// RemoveAll drops every registered tween without touching the fields they
// animate.
func (s *Scheduler) RemoveAll() {
	s.tweens = nil
	s.epoch++
}

// Len returns the number of registered tweens.
func (s *Scheduler) Len() int {
	return len(s.tweens)
}

// Tweens returns a copy of the registered tweens in insertion order.
func (s *Scheduler) Tweens() []*Tween {
	out := make([]*Tween, len(s.tweens))
	copy(out, s.tweens)
	return out
}

// Update advances every registered tween to now, retires the ones that
// completed and reports whether any remain.
func (s *Scheduler) Update(now time.Time) bool {
	if len(s.tweens) == 0 {
		return false
	}

	current := s.tweens
	epoch := s.epoch
	s.tweens = nil

	active := make([]*Tween, 0, len(current))
	for _, t := range current {
		if t.Update(now) {
			active = append(active, t)
		}
		if s.epoch != epoch {
			// Cleared by a callback; only tweens added since survive.
			return len(s.tweens) > 0
		}
	}

	s.tweens = append(active, s.tweens...)
	return len(s.tweens) > 0
}
