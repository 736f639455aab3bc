package tween

import (
	"math"
	"sort"
)

// Easing maps linear progress k in [0, 1] to eased progress. Every easing
// returns exactly 0 at k = 0 and exactly 1 at k = 1.
type Easing func(k float64) float64

// Linear returns k unchanged.
func Linear(k float64) float64 {
	return clamp01(k)
}

// QuadraticInOut accelerates through the first half and decelerates
// through the second.
func QuadraticInOut(k float64) float64 {
	k = clamp01(k) * 2
	if k < 1 {
		return 0.5 * k * k
	}
	k--
	return -0.5 * (k*(k-2) - 1)
}

// CubicInOut is the cubic variant of [QuadraticInOut].
func CubicInOut(k float64) float64 {
	k = clamp01(k) * 2
	if k < 1 {
		return 0.5 * k * k * k
	}
	k -= 2
	return 0.5 * (k*k*k + 2)
}

// SinusoidalInOut follows half a cosine period.
func SinusoidalInOut(k float64) float64 {
	k = clamp01(k)
	if k == 1 {
		return 1
	}
	return 0.5 * (1 - math.Cos(math.Pi*k))
}

// ExponentialInOut stays near 0 for most of the first half, then rushes
// through the middle and settles slowly into 1.
func ExponentialInOut(k float64) float64 {
	switch {
	case k <= 0:
		return 0
	case k >= 1:
		return 1
	case k <= 0.5:
		return 0.5 * math.Pow(2, 10*(2*k-1))
	default:
		return 0.5 * (2 - math.Pow(2, -10*(2*k-1)))
	}
}

var easings = map[string]Easing{
	"linear":             Linear,
	"quadratic-in-out":   QuadraticInOut,
	"cubic-in-out":       CubicInOut,
	"sinusoidal-in-out":  SinusoidalInOut,
	"exponential-in-out": ExponentialInOut,
}

// DefaultEasing is the easing used for layout transitions.
const DefaultEasing = "exponential-in-out"

// ByName looks up an easing by its kebab-case name.
func ByName(name string) (Easing, bool) {
	e, ok := easings[name]
	return e, ok
}

// EasingNames returns the registered easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func clamp01(k float64) float64 {
	if k < 0 {
		return 0
	}
	if k > 1 {
		return 1
	}
	return k
}
