package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"fightcards/layout"
)

// shadow mirrors a canvas drop shadow, in output pixels.
// blur follows the canvas shadowBlur convention: sigma is blur/2.
type shadow struct {
	color  color.NRGBA
	blur   float64
	offset layout.Point
}

// maxBlurSigma is the sigma actually handed to imaging.Blur; larger blurs run on a
// downsampled layer
const maxBlurSigma = 6.0

// paintFunc draws a shape in col, translated by (dx, dy)
type paintFunc func(c *gg.Context, col color.Color, dx, dy float64)

// drawShadow renders paint into an offscreen layer covering bounds, blurs it and
// composites it under whatever the caller draws next
func drawShadow(dst *gg.Context, sh shadow, bounds layout.Rect, paint paintFunc) {
	if sh.color.A == 0 || bounds.W <= 0 || bounds.H <= 0 {
		return
	}
	sigma := sh.blur / 2
	pad := math.Ceil(sigma * 3)

	ox := math.Floor(bounds.X - pad)
	oy := math.Floor(bounds.Y - pad)
	w := int(math.Ceil(bounds.X+bounds.W+pad) - ox)
	h := int(math.Ceil(bounds.Y+bounds.H+pad) - oy)

	layer := gg.NewContext(w, h)
	defer layer.Close()
	paint(layer, sh.color, -ox, -oy)

	blurred := blur(layer.Image(), sigma)
	dst.DrawImage(gg.ImageBufFromImage(blurred), ox+sh.offset.X, oy+sh.offset.Y)
}

// blur applies a gaussian blur. Large sigmas are approximated on a downsampled copy,
// which keeps HD glows affordable.
func blur(img image.Image, sigma float64) image.Image {
	if sigma < 0.5 {
		return img
	}
	b := img.Bounds()
	k := math.Max(1, math.Floor(sigma/maxBlurSigma))
	if k == 1 {
		return imaging.Blur(img, sigma)
	}
	sw := int(math.Max(1, math.Round(float64(b.Dx())/k)))
	sh := int(math.Max(1, math.Round(float64(b.Dy())/k)))
	small := imaging.Resize(img, sw, sh, imaging.Linear)
	small = imaging.Blur(small, sigma/k)
	return imaging.Resize(small, b.Dx(), b.Dy(), imaging.Linear)
}

// fillRect returns a paintFunc for a solid rectangle
func fillRect(r layout.Rect) paintFunc {
	return func(c *gg.Context, col color.Color, dx, dy float64) {
		c.SetColor(col)
		c.DrawRectangle(r.X+dx, r.Y+dy, r.W, r.H)
		_ = c.Fill()
	}
}

// fillText returns a paintFunc for a run of text
func fillText(t textSpec) paintFunc {
	return func(c *gg.Context, col color.Color, dx, dy float64) {
		t.draw(c, col, dx, dy)
	}
}
