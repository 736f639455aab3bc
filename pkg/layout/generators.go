package layout

import (
	"math"

	"github.com/matzehuels/deckview/pkg/geom"
)

// Table layout.
const (
	TableCols       = 20
	TableCellWidth  = 140.0
	TableCellHeight = 180.0
)

// TableAt places cards in rows of TableCols, centred horizontally and
// vertically, all facing +Z.
func TableAt(i, n int) geom.Transform {
	rows := ceilDiv(n, TableCols)
	col := i % TableCols
	row := i / TableCols
	return geom.Transform{
		Position: geom.Vec3{
			float64(col)*TableCellWidth - TableCols*TableCellWidth/2,
			-float64(row)*TableCellHeight + float64(rows)*TableCellHeight/2,
			0,
		},
	}
}

// SphereRadius is the radius of the sphere layout.
const SphereRadius = 800.0

// SphereAt distributes cards over a sphere using a spiral of evenly spaced
// polar angles, each card facing away from the centre.
func SphereAt(i, n int) geom.Transform {
	phi := math.Acos(-1 + 2*float64(i)/float64(n))
	theta := math.Sqrt(float64(n)*math.Pi) * phi
	pos := geom.Spherical(SphereRadius, phi, theta)
	return geom.Transform{
		Position: pos,
		Rotation: geom.OrientationFacing(pos, pos.Scale(2)),
	}
}

// Helix layout.
const (
	HelixAngleStep     = 0.35
	HelixInnerRadius   = 400.0
	HelixStrandOffset  = 200.0
	HelixRise          = 12.0
	HelixHeightPerItem = 10.0
)

// HelixAt alternates cards between two strands half a turn apart. The outer
// strand is HelixStrandOffset wider. Cards face away from the Y axis.
func HelixAt(i, n int) geom.Transform {
	strand := i % 2
	step := i / 2

	angle := float64(step)*HelixAngleStep + float64(strand)*math.Pi
	radius := HelixInnerRadius + float64(strand)*HelixStrandOffset
	height := float64(n) * HelixHeightPerItem

	pos := geom.Vec3{
		radius * math.Sin(angle),
		-float64(step)*HelixRise + height/2,
		radius * math.Cos(angle),
	}
	outward := geom.Vec3{pos[0] * 2, pos[1], pos[2] * 2}
	return geom.Transform{
		Position: pos,
		Rotation: geom.OrientationFacing(pos, outward),
	}
}

// Grid layout.
const (
	GridCols       = 10
	GridRows       = 4
	GridCellWidth  = 160.0
	GridCellHeight = 200.0
	GridCellDepth  = 200.0
)

// GridAt fills GridCols×GridRows layers front to back, rows top to bottom.
func GridAt(i, n int) geom.Transform {
	const perLayer = GridCols * GridRows
	depth := ceilDiv(n, perLayer)

	z := i / perLayer
	rem := i % perLayer
	y := rem / GridCols
	x := rem % GridCols

	return geom.Transform{
		Position: geom.Vec3{
			float64(x)*GridCellWidth - GridCols*GridCellWidth/2,
			-float64(y)*GridCellHeight + GridRows*GridCellHeight/2,
			float64(z)*GridCellDepth - float64(depth)*GridCellDepth/2,
		},
	}
}

// Tetrahedron layout.
const (
	TetraFaceRadius = 700.0
	TetraSpacing    = 180.0
)

type face struct {
	normal, right, up geom.Vec3
}

var tetraFaces = buildFaces([4]geom.Vec3{
	{0, 1, 0},
	{0.816, -0.408, 0.408},
	{-0.408, -0.408, 0.816},
	{-0.408, -0.408, -0.816},
})

func buildFaces(normals [4]geom.Vec3) [4]face {
	var faces [4]face
	for k, n := range normals {
		n = n.Normalize()
		ref := geom.WorldUp
		if math.Abs(n[1]) >= 0.9 {
			ref = geom.UnitX
		}
		right := ref.Cross(n).Normalize()
		faces[k] = face{
			normal: n,
			right:  right,
			up:     n.Cross(right).Normalize(),
		}
	}
	return faces
}

// TetrahedronAt splits the items into four equal runs, one per face, and
// packs each run into a triangular grid on its face: row r holds r+1 cards.
// Cards look at a point twice the face radius out along the face normal.
func TetrahedronAt(i, n int) geom.Transform {
	perFace := ceilDiv(n, 4)
	f := tetraFaces[i/perFace]
	row, col := triangularCell(i % perFace)

	x := (float64(col) - float64(row)/2) * TetraSpacing
	y := float64(row) * TetraSpacing * math.Sqrt(3) / 2

	pos := f.normal.Scale(TetraFaceRadius).
		Add(f.right.Scale(x)).
		Add(f.up.Scale(y))
	return geom.Transform{
		Position: pos,
		Rotation: geom.OrientationFacing(pos, f.normal.Scale(TetraFaceRadius*2)),
	}
}

// triangularCell returns the (row, col) of the p-th cell of a triangular
// grid filled row by row, where row r has columns 0..r.
func triangularCell(p int) (row, col int) {
	row = int((math.Sqrt(8*float64(p)+1) - 1) / 2)
	for row*(row+1)/2 > p {
		row--
	}
	for (row+1)*(row+2)/2 <= p {
		row++
	}
	return row, p - row*(row+1)/2
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
