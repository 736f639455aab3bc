package render

import (
	"image"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/deckview/pkg/source"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		fields map[string]string
		want   []string
	}{
		{map[string]string{source.FieldName: "Ada", source.FieldNetWorth: "$1,000"}, []string{"Ada", "$1,000"}},
		{map[string]string{source.FieldName: "Ada"}, []string{"Ada"}},
		{map[string]string{source.FieldCountry: "UK"}, nil},
	}
	for _, tt := range tests {
		got := Label(source.Item{Fields: tt.fields})
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Label(%v) mismatch (-want +got):\n%s", tt.fields, diff)
		}
	}
}

// countLabel counts texels of img inside r equal to LabelColor.
func countLabel(img *image.NRGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.NRGBAAt(x, y) == LabelColor {
				n++
			}
		}
	}
	return n
}

func TestFaceLabel(t *testing.T) {
	face := Face(Card{Tier: source.TierHigh, Label: []string{"Ada Lovelace"}})
	if face.Bounds() != image.Rect(0, 0, FaceWidth, FaceHeight) {
		t.Fatalf("bounds = %v", face.Bounds())
	}

	photoHeight := int(float64(FaceHeight) * PhotoFraction)
	if n := countLabel(face, image.Rect(0, 0, FaceWidth, photoHeight)); n != 0 {
		t.Errorf("%d label texels above the text area", n)
	}
	if n := countLabel(face, image.Rect(0, photoHeight, FaceWidth, FaceHeight)); n == 0 {
		t.Error("label was not drawn")
	}
	if got := face.NRGBAAt(0, 0); got != TierColor(source.TierHigh) {
		t.Errorf("background = %v, want tier colour", got)
	}
}

func TestFacePhoto(t *testing.T) {
	photo := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range photo.Pix {
		photo.Pix[i] = 255
	}
	face := Face(Card{Tier: source.TierLow, Photo: photo})

	if got := face.NRGBAAt(FaceWidth/2, 10); got != photo.NRGBAAt(0, 0) {
		t.Errorf("photo texel = %v, want %v", got, photo.NRGBAAt(0, 0))
	}
	if got := face.NRGBAAt(FaceWidth/2, FaceHeight-2); got != TierColor(source.TierLow) {
		t.Errorf("lower texel = %v, want tier colour", got)
	}
}

func TestFit(t *testing.T) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	width := fixed.I(70)

	if got := fit(d, "short", width); got != "short" {
		t.Errorf("fit(short) = %q", got)
	}
	long := strings.Repeat("x", 40)
	got := fit(d, long, width)
	if d.MeasureString(got) > width {
		t.Errorf("fit() = %q is wider than %v", got, width)
	}
	if len(got) != 10 {
		t.Errorf("fit() kept %d runes, want 10", len(got))
	}
}

func TestRenderTexturedCard(t *testing.T) {
	cam := NewCamera()
	cam.Position[2] = 400
	card := Card{Tier: source.TierLow, Label: []string{"Ada"}}
	img := NewRasterizer(cam, 200, 200, 1).Render([]Card{card})

	if got := img.NRGBAAt(100, 60); got == Background {
		t.Errorf("pixel = %v, card not drawn", got)
	}
}
