package render

import (
	"math"

	"github.com/matzehuels/deckview/pkg/geom"
)

// Camera defaults.
const (
	DefaultFOV      = 40.0 // vertical, degrees
	DefaultNear     = 1.0
	DefaultFar      = 10000.0
	DefaultDistance = 3000.0

	MinDistance = 500.0
	MaxDistance = 5000.0

	// GestureScale converts wheel and drag deltas to world units.
	GestureScale = 2.0
)

// Camera is a perspective camera aimed at Target.
type Camera struct {
	Position geom.Vec3
	Target   geom.Vec3
	FOV      float64
	Near     float64
	Far      float64
}

// NewCamera returns the viewer's starting camera: z = 3000, looking at the
// origin.
func NewCamera() *Camera {
	return &Camera{
		Position: geom.Vec3{0, 0, DefaultDistance},
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// Zoom moves the camera along z by GestureScale*delta, clamped to
// [MinDistance, MaxDistance].
func (c *Camera) Zoom(delta float64) {
	z := c.Position[2] + delta*GestureScale
	c.Position[2] = math.Max(MinDistance, math.Min(MaxDistance, z))
}

// Pan moves the camera by a drag of (dx, dy) screen pixels. Screen y grows
// downward, world y upward.
func (c *Camera) Pan(dx, dy float64) {
	c.Position[0] += dx * GestureScale
	c.Position[1] -= dy * GestureScale
}

// view returns the camera basis. The camera looks down its local -z axis.
func (c *Camera) view() geom.Mat3 {
	return geom.LookAt(c.Target, c.Position, geom.WorldUp)
}

// Projector maps world points to pixels for a fixed viewport.
type Projector struct {
	eye    geom.Vec3
	basisT geom.Mat3
	focal  float64
	cx, cy float64
	near   float64
	far    float64
}

// Projector freezes the camera for a width×height viewport.
func (c *Camera) Projector(width, height int) Projector {
	fov := c.FOV
	if fov <= 0 {
		fov = DefaultFOV
	}
	half := fov * math.Pi / 360
	return Projector{
		eye:    c.Position,
		basisT: c.view().Transpose(),
		focal:  float64(height) / 2 / math.Tan(half),
		cx:     float64(width) / 2,
		cy:     float64(height) / 2,
		near:   c.Near,
		far:    c.Far,
	}
}

// Project returns the pixel position and view depth of p. ok is false when p
// lies outside the near and far planes.
func (p Projector) Project(pt geom.Vec3) (x, y, depth float64, ok bool) {
	v := p.basisT.MulVec3(pt.Sub(p.eye))
	depth = -v[2]
	if depth < p.near || depth > p.far {
		return 0, 0, depth, false
	}
	x = p.cx + v[0]*p.focal/depth
	y = p.cy - v[1]*p.focal/depth
	return x, y, depth, true
}

// Scale returns pixels per world unit at a view depth.
func (p Projector) Scale(depth float64) float64 {
	return p.focal / depth
}

// Project is a one-off [Projector.Project] for a width×height viewport.
func (c *Camera) Project(pt geom.Vec3, width, height int) (x, y, depth float64, ok bool) {
	return c.Projector(width, height).Project(pt)
}
