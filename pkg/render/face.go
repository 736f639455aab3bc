package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/deckview/pkg/source"
)

// Face texture size in texels.
const (
	FaceWidth  = int(CardWidth)
	FaceHeight = int(CardHeight)

	labelMargin = 6
	lineHeight  = 15
)

// LabelColor is the text colour of card labels.
var LabelColor = color.NRGBA{R: 245, G: 245, B: 245, A: 255}

// Label returns the text lines printed on an item's card: the name and the
// net worth, skipping empty cells.
func Label(it source.Item) []string {
	var lines []string
	for _, s := range []string{it.Name(), it.NetWorth()} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// textured reports whether the card needs a face texture rather than a
// flat fill.
func (c Card) textured() bool {
	return c.Photo != nil || len(c.Label) > 0
}

// Face draws the front of a card: the tier colour, the photo over the top
// PhotoFraction and the label lines below it. Lines that do not fit the
// width are cut.
func Face(c Card) *image.NRGBA {
	face := image.NewNRGBA(image.Rect(0, 0, FaceWidth, FaceHeight))
	draw.Draw(face, face.Bounds(), &image.Uniform{C: TierColor(c.Tier)}, image.Point{}, draw.Src)

	photoHeight := int(float64(FaceHeight) * PhotoFraction)
	if c.Photo != nil {
		dst := image.Rect(0, 0, FaceWidth, photoHeight)
		draw.NearestNeighbor.Scale(face, dst, c.Photo, c.Photo.Bounds(), draw.Src, nil)
	}

	d := &font.Drawer{
		Dst:  face,
		Src:  &image.Uniform{C: LabelColor},
		Face: basicfont.Face7x13,
	}
	maxWidth := fixed.I(FaceWidth - 2*labelMargin)
	y := photoHeight + lineHeight
	for _, line := range c.Label {
		if y > FaceHeight-labelMargin {
			break
		}
		line = fit(d, line, maxWidth)
		d.Dot = fixed.P((FaceWidth-d.MeasureString(line).Round())/2, y)
		d.DrawString(line)
		y += lineHeight
	}
	return face
}

// fit drops trailing runes from s until it is at most width wide.
func fit(d *font.Drawer, s string, width fixed.Int26_6) string {
	r := []rune(s)
	for len(r) > 0 && d.MeasureString(string(r)) > width {
		r = r[:len(r)-1]
	}
	return string(r)
}
