// Package scene holds the state of one viewing session: the items, the live
// transform of each card, the precomputed layout targets and the name of
// the active layout.
//
// A Scene is owned by a single goroutine. Its Objects slice is never
// reallocated after New, so pointers into it (which tweens hold) stay valid
// for the scene's lifetime.
package scene

import (
	"math/rand/v2"

	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/layout"
	"github.com/matzehuels/deckview/pkg/source"
)

// ScatterRange bounds the initial random placement: every coordinate starts
// in [-ScatterRange, ScatterRange).
const ScatterRange = 2000.0

// Scene is the explicit session state passed to the transition controller
// and render adapters.
type Scene struct {
	Items   []source.Item
	Objects []geom.Transform

	targets layout.Sets
	active  layout.Name
}

// New creates a scene with one card per item, scattered at random positions
// drawn from a PCG source seeded with seed, and computes every layout's
// target set.
func New(items []source.Item, seed uint64) *Scene {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	objects := make([]geom.Transform, len(items))
	for i := range objects {
		objects[i].Position = geom.Vec3{
			rng.Float64()*2*ScatterRange - ScatterRange,
			rng.Float64()*2*ScatterRange - ScatterRange,
			rng.Float64()*2*ScatterRange - ScatterRange,
		}
	}

	return &Scene{
		Items:   items,
		Objects: objects,
		targets: layout.BuildAll(len(items)),
	}
}

// Placeholder returns n items with only an index, for rendering layouts
// without data.
func Placeholder(n int) []source.Item {
	items := make([]source.Item, max(n, 0))
	for i := range items {
		items[i] = source.Item{Index: i, Fields: map[string]string{}}
	}
	return items
}

// Len returns the number of cards.
func (s *Scene) Len() int { return len(s.Objects) }

// Targets returns the cached target set of a layout. Aliases such as
// "pyramid" are accepted.
func (s *Scene) Targets(name layout.Name) (layout.TargetSet, error) {
	if set, ok := s.targets[name]; ok {
		return set, nil
	}
	canon, err := layout.ParseName(string(name))
	if err != nil {
		return nil, err
	}
	return s.targets[canon], nil
}

// Active returns the layout most recently selected, or "" before the first
// transition.
func (s *Scene) Active() layout.Name { return s.active }

// SetActive records name as the active layout.
func (s *Scene) SetActive(name layout.Name) { s.active = name }

// Snapshot returns a copy of the current transforms.
func (s *Scene) Snapshot() []geom.Transform {
	out := make([]geom.Transform, len(s.Objects))
	copy(out, s.Objects)
	return out
}
