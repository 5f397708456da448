package vision

import (
	"image"
	"image/color"

	"flyff-assist/internal/geom"
)

// newFrame returns an opaque black frame.
func newFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func paint(img *image.RGBA, c Color, points ...geom.Point) {
	for _, p := range points {
		img.SetRGBA(p.X, p.Y, c.RGBA())
	}
}

func paintRect(img *image.RGBA, c Color, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, c.RGBA())
		}
	}
}

func setAlpha(img *image.RGBA, p geom.Point, a uint8) {
	px := img.RGBAAt(p.X, p.Y)
	img.SetRGBA(p.X, p.Y, color.RGBA{R: px.R, G: px.G, B: px.B, A: a})
}
