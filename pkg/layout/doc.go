// Package layout computes target transforms for the five card layouts.
//
// Each layout is a [Generator]: a pure function of an item's index i and the
// total item count n that returns where card i should sit and how it should
// be rotated. [Build] calls a generator for i = 0..n-1 and returns a
// [TargetSet] with exactly n entries, indexed like the items themselves.
//
// # Layouts
//
//   - [Table]: a 20-column wall of cards facing the viewer.
//   - [Sphere]: cards spread over a sphere of radius 800, facing outwards.
//   - [Helix]: two interleaved strands spiralling down the Y axis.
//   - [Grid]: a 10×4 grid repeated in depth layers.
//   - [Tetrahedron]: four triangular faces of a pyramid (alias "pyramid").
//
// Generators are deterministic. The scene computes every set once per item
// count and reuses it for every transition.
//
//	sets := layout.BuildAll(len(items))
//	ctrl.Transition(sets[layout.Helix], 5*time.Second, layout.Helix)
package layout
