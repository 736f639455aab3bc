package layout

import (
	"strings"

	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/geom"
)

// Name identifies a layout.
type Name string

const (
	Table       Name = "table"
	Sphere      Name = "sphere"
	Helix       Name = "helix"
	Grid        Name = "grid"
	Tetrahedron Name = "tetrahedron"
)

// Generator maps (index, total) to the target transform of one item.
type Generator func(i, n int) geom.Transform

// TargetSet holds one target transform per item, in item order.
type TargetSet []geom.Transform

// Sets holds the target set of every layout for one item count.
type Sets map[Name]TargetSet

var generators = map[Name]Generator{
	Table:       TableAt,
	Sphere:      SphereAt,
	Helix:       HelixAt,
	Grid:        GridAt,
	Tetrahedron: TetrahedronAt,
}

// order is the display and key-binding order.
var order = []Name{Table, Sphere, Helix, Grid, Tetrahedron}

var aliases = map[string]Name{
	"pyramid": Tetrahedron,
}

// Names returns every layout name in display order.
func Names() []Name {
	out := make([]Name, len(order))
	copy(out, order)
	return out
}

// Lookup returns the generator for name.
func Lookup(name Name) (Generator, bool) {
	g, ok := generators[name]
	return g, ok
}

// ParseName resolves a user-supplied layout name, case-insensitively and
// including aliases.
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if n, ok := aliases[key]; ok {
		return n, nil
	}
	if _, ok := generators[Name(key)]; ok {
		return Name(key), nil
	}
	return "", errors.New(errors.ErrCodeInvalidLayout,
		"unknown layout %q (want one of %s)", s, strings.Join(nameStrings(), ", "))
}

// Build evaluates g for every index in [0, n). It returns an empty set when
// n <= 0 without calling g.
func Build(g Generator, n int) TargetSet {
	if n <= 0 {
		return TargetSet{}
	}
	set := make(TargetSet, n)
	for i := range set {
		set[i] = g(i, n)
	}
	return set
}

// BuildAll builds the target set of every layout for n items.
func BuildAll(n int) Sets {
	sets := make(Sets, len(order))
	for _, name := range order {
		sets[name] = Build(generators[name], n)
	}
	return sets
}

func nameStrings() []string {
	out := make([]string, len(order))
	for i, n := range order {
		out[i] = string(n)
	}
	return out
}
