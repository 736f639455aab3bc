package geom

import "math"

// Euler holds rotation angles in radians around X, Y and Z, applied in XYZ
// order. It shares Vec3's layout so the animation engine can interpolate
// positions and rotations the same way.
type Euler = Vec3

// Transform is the spatial placement of one visualized item.
type Transform struct {
	Position Vec3  `json:"position"`
	Rotation Euler `json:"rotation"`
}

// Matrix returns the rotation matrix Rx · Ry · Rz for the Euler angles r.
func Matrix(r Euler) Mat3 {
	return Mat3Mul(Mat3Mul(RotX(r[0]), RotY(r[1])), RotZ(r[2]))
}

// EulerFromMatrix decomposes a pure rotation matrix into XYZ Euler angles.
// Near gimbal lock (|m13| ≈ 1) the Z angle is pinned to zero.
func EulerFromMatrix(m Mat3) Euler {
	m11, m12, m13 := m[0], m[1], m[2]
	m22, m23 := m[4], m[5]
	m32, m33 := m[7], m[8]

	y := math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		return Euler{math.Atan2(-m23, m33), y, math.Atan2(-m12, m11)}
	}
	return Euler{math.Atan2(m32, m22), y, 0}
}

// LookAt returns the rotation that points an object's local +Z axis from
// "from" towards "to", keeping its local +Y as close to up as possible.
//
// Only an exactly parallel direction and up are nudged to form a basis. A
// nearly parallel pair keeps the tiny cross product, so a card just off the
// pole still turns with its azimuth. When from == to the object keeps
// facing +Z.
func LookAt(from, to, up Vec3) Mat3 {
	z := to.Sub(from)
	if z.Len() == 0 {
		z = UnitZ
	}
	z = unit(z)

	x := up.Cross(z)
	if x.Len() == 0 {
		if math.Abs(up[2]) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = unit(z)
		x = up.Cross(z)
	}
	x = unit(x)
	y := z.Cross(x)

	return Mat3FromColumns(x, y, z)
}

// unit scales a non-zero v to length 1, however short v is.
func unit(v Vec3) Vec3 {
	return v.Scale(1 / v.Len())
}

// OrientationFacing returns the Euler rotation of an object at "from" that
// faces the point "to", using [WorldUp] as the reference up direction.
func OrientationFacing(from, to Vec3) Euler {
	return EulerFromMatrix(LookAt(from, to, WorldUp))
}

// ShortestArc returns the angle difference to - from wrapped into [-π, π].
func ShortestArc(from, to float64) float64 {
	diff := to - from
	if math.IsInf(diff, 0) || math.IsNaN(diff) {
		return diff
	}
	for diff > math.Pi {
		diff -= 2 * math.Pi
	}
	for diff < -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}

// NearestEquivalent returns the angle equal to target modulo 2π that lies
// closest to current, so interpolating from current never spins further than
// half a turn.
func NearestEquivalent(current, target Euler) Euler {
	var out Euler
	for axis := range out {
		out[axis] = current[axis] + ShortestArc(current[axis], target[axis])
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
