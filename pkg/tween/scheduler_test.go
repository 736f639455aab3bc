package tween

import (
	"testing"
	"time"
)

func TestSchedulerRetiresCompleted(t *testing.T) {
	s := NewScheduler()
	a, b := 0.0, 0.0
	s.Start(New(&a).To(time.Second, 1), t0)
	s.Start(New(&b).To(2*time.Second, 1), t0)

	if !s.Update(t0.Add(time.Second)) {
		t.Fatal("Update() = false, want true while b is running")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if a != 1 {
		t.Errorf("a = %v, want 1", a)
	}

	if s.Update(t0.Add(2 * time.Second)) {
		t.Error("Update() = true, want false after all completed")
	}
	if s.Len() != 0 || b != 1 {
		t.Errorf("Len() = %d, b = %v; want 0, 1", s.Len(), b)
	}
}

func TestSchedulerRemoveAll(t *testing.T) {
	s := NewScheduler()
	x := 0.0
	s.Start(New(&x).To(time.Second, 1), t0)
	s.Update(t0.Add(500 * time.Millisecond))
	before := x

	s.RemoveAll()
	if s.Update(t0.Add(time.Second)) {
		t.Error("Update() after RemoveAll = true, want false")
	}
	if x != before {
		t.Errorf("x = %v, want untouched %v", x, before)
	}
}

func TestSchedulerEmpty(t *testing.T) {
	if NewScheduler().Update(t0) {
		t.Error("empty Update() = true, want false")
	}
}

func TestSchedulerRemoveAllFromCallback(t *testing.T) {
	s := NewScheduler()
	a, b, c := 0.0, 0.0, 0.0
	s.Start(New(&a).To(time.Second, 1).OnUpdate(func(float64) {
		s.RemoveAll()
		s.Start(New(&c).To(time.Second, 1), t0)
	}), t0)
	s.Start(New(&b).To(time.Second, 1), t0)

	if !s.Update(t0.Add(500 * time.Millisecond)) {
		t.Fatal("Update() = false, want true for the tween added in the callback")
	}
	if b != 0 {
		t.Errorf("b = %v, want 0 (cleared before its turn)", b)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSchedulerAddDuringUpdate(t *testing.T) {
	s := NewScheduler()
	x, y := 0.0, 0.0
	s.Start(New(&x).To(0, 1).OnComplete(func() {
		s.Start(New(&y).To(time.Second, 1), t0)
	}), t0)

	if !s.Update(t0) {
		t.Fatal("Update() = false, want true")
	}
	if y != 0 {
		t.Errorf("y = %v, want 0 until the next update", y)
	}
	s.Update(t0.Add(time.Second))
	if y != 1 {
		t.Errorf("y = %v, want 1", y)
	}
}

func TestSchedulerPreservesOrder(t *testing.T) {
	s := NewScheduler()
	var order []int
	for i := 0; i < 4; i++ {
		d := time.Duration(i%2+1) * time.Second
		s.Start(New().To(d).OnUpdate(func(float64) { order = append(order, i) }), t0)
	}
	s.Update(t0.Add(time.Second))
	order = order[:0]
	s.Update(t0.Add(1500 * time.Millisecond))
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("order = %v, want [1 3]", order)
	}
}
