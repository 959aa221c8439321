package compositor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"fightcards/layout"
)

// FitBackground scales and crops a background to exactly w x h pixels using the
// smart-crop rule, so the preview and the export frame the art identically
func FitBackground(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	dst := layout.SmartCrop(float64(b.Dx()), float64(b.Dy()), float64(w), float64(h))

	sw := int(math.Max(float64(w), math.Round(dst.W)))
	sh := int(math.Max(float64(h), math.Round(dst.H)))
	scaled := imaging.Resize(img, sw, sh, imaging.Lanczos)

	x0 := int(math.Round(-dst.X))
	y0 := int(math.Round(-dst.Y))
	cropped := imaging.Crop(scaled, image.Rect(x0, y0, x0+w, y0+h))
	if cropped.Bounds().Dx() != w || cropped.Bounds().Dy() != h {
		// rounding left us a pixel short
		cropped = imaging.Resize(cropped, w, h, imaging.Linear)
	}
	return cropped
}

// CropPhoto cuts the cover-crop region of a photo for a box of boxW x boxH
func CropPhoto(img image.Image, boxW, boxH float64) *image.NRGBA {
	b := img.Bounds()
	src := layout.CoverCrop(float64(b.Dx()), float64(b.Dy()), boxW, boxH)
	r := image.Rect(
		b.Min.X+int(math.Round(src.X)),
		b.Min.Y+int(math.Round(src.Y)),
		b.Min.X+int(math.Round(src.X+src.W)),
		b.Min.Y+int(math.Round(src.Y+src.H)),
	)
	return imaging.Crop(img, r)
}
