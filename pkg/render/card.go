package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/deckview/pkg/geom"
	"github.com/matzehuels/deckview/pkg/source"
)

// Card dimensions in world units.
const (
	CardWidth  = 120.0
	CardHeight = 160.0

	// PhotoFraction is the share of the card height covered by the photo.
	PhotoFraction = 0.6
)

// Card is one drawable item.
type Card struct {
	Transform geom.Transform
	Tier      source.Tier
	Photo     *image.NRGBA // optional
	Label     []string
}

var tierColors = map[source.Tier]color.NRGBA{
	source.TierLow:     {R: 220, G: 53, B: 69, A: 230},
	source.TierMedium:  {R: 253, G: 126, B: 20, A: 230},
	source.TierHigh:    {R: 40, G: 167, B: 69, A: 230},
	source.TierUnknown: {R: 108, G: 117, B: 125, A: 230},
}

// TierColor returns the fill colour for a net worth tier.
func TierColor(t source.Tier) color.NRGBA {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return tierColors[source.TierUnknown]
}

// Cards pairs transforms with item tiers and labels. photos may be nil or shorter than
// items; missing entries draw without a photo.
func Cards(items []source.Item, transforms []geom.Transform, photos []*image.NRGBA) []Card {
	n := min(len(items), len(transforms))
	cards := make([]Card, n)
	for i := 0; i < n; i++ {
		cards[i] = Card{Transform: transforms[i], Tier: items[i].Tier(), Label: Label(items[i])}
		if i < len(photos) {
			cards[i].Photo = photos[i]
		}
	}
	return cards
}

// corners returns the card's corners in world space, in the order
// top-left, top-right, bottom-right, bottom-left.
func (c Card) corners() [4]geom.Vec3 {
	hw, hh := CardWidth/2, CardHeight/2
	local := [4]geom.Vec3{
		{-hw, hh, 0},
		{hw, hh, 0},
		{hw, -hh, 0},
		{-hw, -hh, 0},
	}
	m := geom.Matrix(c.Transform.Rotation)
	var out [4]geom.Vec3
	for i, p := range local {
		out[i] = m.MulVec3(p).Add(c.Transform.Position)
	}
	return out
}

// cornerUV matches corners(): u grows right, v grows down.
var cornerUV = [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
