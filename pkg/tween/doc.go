// Package tween implements time-based interpolation of numeric fields.
//
// A [Tween] owns pointers to the float64 fields it animates. When started
// it snapshots their current values once; every subsequent [Tween.Update]
// writes start + (end-start)·ease(progress) back through those pointers.
// A [Scheduler] holds the active tweens and advances them together once per
// frame, retiring each one as soon as its progress reaches 1.
//
// Time is always passed in explicitly. Nothing in this package reads the
// wall clock, which keeps animations reproducible in tests and in offline
// frame rendering.
//
// The package is not safe for concurrent use: one goroutine drives a
// scheduler and owns the fields its tweens write to.
package tween
