// Package render draws card scenes to raster images.
//
// # Camera
//
// [Camera] is a perspective camera that always looks at its Target (the
// origin by default). [Camera.Zoom] and [Camera.Pan] apply the viewer's
// wheel and drag gestures:
//
//	cam := render.NewCamera()
//	cam.Pan(10, 0)   // drag right by 10 px
//	cam.Zoom(-100)   // wheel up
//
// # Rasterizer
//
// [Rasterizer] turns a slice of [Card] values into an *image.NRGBA. Each card
// is a flat 120×160 quad placed by its transform, filled with its net worth
// tier colour and, when a photo is attached, textured on its upper part.
// Cards are drawn back to front. Frames are rendered at Supersample times
// the output size and downscaled with a Catmull-Rom filter.
//
//	r := render.NewRasterizer(cam, 1280, 720, 2)
//	img := r.Render(cards)
//
// # Encoding
//
// [Encode] writes a frame as PNG or WebP; [DecodePhoto] reads card photos
// in JPEG, PNG, WebP or TGA.
package render
