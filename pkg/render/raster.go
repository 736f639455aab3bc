package render

import (
	"image"
	"image/color"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

// Background is the default clear colour.
var Background = color.NRGBA{R: 12, G: 12, B: 20, A: 255}

// Rasterizer renders cards through a camera.
type Rasterizer struct {
	Camera      *Camera
	Width       int
	Height      int
	Supersample int
	Background  color.NRGBA
}

// NewRasterizer returns a rasterizer for width×height output. A nil camera
// uses NewCamera; supersample below 1 is treated as 1.
func NewRasterizer(cam *Camera, width, height, supersample int) *Rasterizer {
	if cam == nil {
		cam = NewCamera()
	}
	return &Rasterizer{
		Camera:      cam,
		Width:       width,
		Height:      height,
		Supersample: max(supersample, 1),
		Background:  Background,
	}
}

type projectedCard struct {
	card  Card
	face  *image.NRGBA // nil for a flat fill
	x, y  [4]float64
	depth float64
}

// Render draws cards and returns a Width×Height image.
func (r *Rasterizer) Render(cards []Card) *image.NRGBA {
	ss := max(r.Supersample, 1)
	w, h := r.Width*ss, r.Height*ss
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.Background}, image.Point{}, draw.Src)

	proj := r.Camera.Projector(w, h)
	visible := make([]projectedCard, 0, len(cards))
	for _, c := range cards {
		pc, ok := project(proj, c)
		if ok {
			visible = append(visible, pc)
		}
	}
	// Painter's order: farthest first.
	slices.SortStableFunc(visible, func(a, b projectedCard) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	for _, pc := range visible {
		if pc.card.textured() {
			pc.face = Face(pc.card)
		}
		fillQuad(img, pc)
	}

	if ss == 1 {
		return img
	}
	return Downsample(img, r.Width, r.Height)
}

func project(proj Projector, c Card) (projectedCard, bool) {
	pc := projectedCard{card: c}
	for i, p := range c.corners() {
		x, y, d, ok := proj.Project(p)
		if !ok || math.IsNaN(x) || math.IsNaN(y) {
			return pc, false
		}
		pc.x[i], pc.y[i] = x, y
		pc.depth += d / 4
	}
	return pc, true
}

func fillQuad(img *image.NRGBA, pc projectedCard) {
	fillTriangle(img, pc, [3]int{0, 1, 2})
	fillTriangle(img, pc, [3]int{0, 2, 3})
}

// fillTriangle scans the triangle's bounding box with barycentric weights
// and blends the card colour, or its face texture, over the image.
func fillTriangle(img *image.NRGBA, pc projectedCard, idx [3]int) {
	x0, y0 := pc.x[idx[0]], pc.y[idx[0]]
	x1, y1 := pc.x[idx[1]], pc.y[idx[1]]
	x2, y2 := pc.x[idx[2]], pc.y[idx[2]]

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if math.Abs(det) < 1e-8 {
		return
	}
	invDet := 1 / det

	b := img.Bounds()
	minX := max(int(math.Floor(math.Min(x0, math.Min(x1, x2)))), b.Min.X)
	maxX := min(int(math.Ceil(math.Max(x0, math.Max(x1, x2)))), b.Max.X-1)
	minY := max(int(math.Floor(math.Min(y0, math.Min(y1, y2)))), b.Min.Y)
	maxY := min(int(math.Ceil(math.Max(y0, math.Max(y1, y2)))), b.Max.Y-1)
	if minX > maxX || minY > maxY {
		return
	}

	uv0, uv1, uv2 := cornerUV[idx[0]], cornerUV[idx[1]], cornerUV[idx[2]]
	base := TierColor(pc.card.Tier)
	face := pc.face

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5 - y2
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5 - x2
			w0 := ((y1-y2)*px + (x2-x1)*py) * invDet
			w1 := ((y2-y0)*px + (x0-x2)*py) * invDet
			w2 := 1 - w0 - w1
			if w0 < -1e-6 || w1 < -1e-6 || w2 < -1e-6 {
				continue
			}

			c := base
			if face != nil {
				u := w0*uv0[0] + w1*uv1[0] + w2*uv2[0]
				v := w0*uv0[1] + w1*uv1[1] + w2*uv2[1]
				c = sample(face, u, v)
			}
			blend(img, sx, sy, c)
		}
	}
}

// sample reads the nearest texel, clamping u and v to [0, 1].
func sample(tex *image.NRGBA, u, v float64) color.NRGBA {
	b := tex.Bounds()
	if b.Empty() {
		return color.NRGBA{}
	}
	x := b.Min.X + int(clamp01(u)*float64(b.Dx()-1)+0.5)
	y := b.Min.Y + int(clamp01(v)*float64(b.Dy()-1)+0.5)
	return tex.NRGBAAt(x, y)
}

// blend composites c over the pixel at (x, y).
func blend(img *image.NRGBA, x, y int, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	i := img.PixOffset(x, y)
	if c.A == 255 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
		return
	}
	a := float64(c.A) / 255
	da := float64(img.Pix[i+3]) / 255
	outA := a + da*(1-a)
	if outA <= 0 {
		return
	}
	mix := func(s, d uint8) uint8 {
		return clamp8((float64(s)*a + float64(d)*da*(1-a)) / outA)
	}
	img.Pix[i] = mix(c.R, img.Pix[i])
	img.Pix[i+1] = mix(c.G, img.Pix[i+1])
	img.Pix[i+2] = mix(c.B, img.Pix[i+2])
	img.Pix[i+3] = clamp8(outA * 255)
}

// Downsample scales img to width×height with a Catmull-Rom filter, working
// on premultiplied alpha so transparent edges do not darken.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	out := image.NewNRGBA(dst.Bounds())
	draw.Draw(out, out.Bounds(), dst, image.Point{}, draw.Src)
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
