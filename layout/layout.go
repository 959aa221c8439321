// Package layout holds the card geometry shared by the HTML preview and the raster export.
//
// Every function works in caller-supplied units: the preview passes the 360x520 logical
// canvas, the export passes the same values multiplied by its scale factor. Keeping the
// math here means both renderers place the background, the photo and the stat grid
// identically.
package layout

import (
	"math"

	"fightcards/models"
)

const (
	// DefaultScale is the HD export factor (1620x2340 px)
	DefaultScale = 4.5

	// BackgroundTopBias is how far, as a fraction of canvas height, the background may be
	// pushed up when it overflows vertically. Expressed as a ratio so it is scale-invariant.
	BackgroundTopBias = 0.05

	// OctagonInset is the corner cut of the card silhouette, as a fraction of each side
	OctagonInset = 0.15
)

// Rect is an axis-aligned rectangle
type Rect struct {
	X, Y, W, H float64
}

// Point is a 2D point
type Point struct {
	X, Y float64
}

// Scaled returns r with every component multiplied by s
func (r Rect) Scaled(s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

// Frame is the output canvas for one render
type Frame struct {
	Scale float64
}

// NewFrame returns a frame for the given scale; non-positive scales fall back to 1
func NewFrame(scale float64) Frame {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return Frame{Scale: scale}
}

// Width returns the output width in pixels
func (f Frame) Width() int {
	return int(math.Round(models.CanvasWidth * f.Scale))
}

// Height returns the output height in pixels
func (f Frame) Height() int {
	return int(math.Round(models.CanvasHeight * f.Scale))
}

// S scales a preview-unit length to output pixels
func (f Frame) S(v float64) float64 {
	return v * f.Scale
}

// Box scales a template box
func (f Frame) Box(b models.Box) Rect {
	return Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}.Scaled(f.Scale)
}

// SmartCrop places a background of size imgW x imgH on a canvasW x canvasH canvas.
// The image is scaled to cover the canvas and centered horizontally. Vertically it is
// top-anchored, shifted up by at most BackgroundTopBias of the canvas height when it
// overflows, so faces near the top of the art stay in frame.
// The returned rect is the destination of the whole image, in canvas units.
func SmartCrop(imgW, imgH, canvasW, canvasH float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{W: canvasW, H: canvasH}
	}
	scale := math.Max(canvasW/imgW, canvasH/imgH)
	w := imgW * scale
	h := imgH * scale
	dx := (canvasW - w) / 2
	dy := math.Min(0, math.Max(canvasH-h, -canvasH*BackgroundTopBias))
	return Rect{X: dx, Y: dy, W: w, H: h}
}

// CoverCrop returns the source sub-rectangle of an imgW x imgH photo that fills a box of
// boxW x boxH without distortion. Wider photos lose their sides equally; taller photos
// keep their top and lose the bottom.
func CoverCrop(imgW, imgH, boxW, boxH float64) Rect {
	if imgW <= 0 || imgH <= 0 || boxW <= 0 || boxH <= 0 {
		return Rect{W: imgW, H: imgH}
	}
	imgRatio := imgW / imgH
	boxRatio := boxW / boxH
	if imgRatio > boxRatio {
		sw := imgH * boxRatio
		return Rect{X: (imgW - sw) / 2, Y: 0, W: sw, H: imgH}
	}
	sh := imgW / boxRatio
	return Rect{X: 0, Y: 0, W: imgW, H: sh}
}

// Octagon returns the card silhouette for a w x h canvas, clockwise from the top-left cut
func Octagon(w, h float64) []Point {
	ix := w * OctagonInset
	iy := h * OctagonInset
	return []Point{
		{ix, 0},
		{w - ix, 0},
		{w, iy},
		{w, h - iy},
		{w - ix, h},
		{ix, h},
		{0, h - iy},
		{0, iy},
	}
}

// InOctagon reports whether (x, y) lies inside the card silhouette
func InOctagon(x, y, w, h float64) bool {
	if x < 0 || y < 0 || x > w || y > h {
		return false
	}
	ix := w * OctagonInset
	iy := h * OctagonInset
	// Distance into each corner triangle, normalized by the cut size
	dx := math.Min(x, w-x)
	dy := math.Min(y, h-y)
	if dx >= ix || dy >= iy {
		return true
	}
	return dx/ix+dy/iy >= 1
}

// OctagonClipPath formats the silhouette as a CSS clip-path
func OctagonClipPath() string {
	return "polygon(15% 0%, 85% 0%, 100% 15%, 100% 85%, 85% 100%, 15% 100%, 0% 85%, 0% 15%)"
}

// FooterStart returns the y where the legibility gradient begins, in preview units
func FooterStart(name models.TextPos) float64 {
	return name.Y - 30
}

// RatingAnchor returns the top-center point of the rating number, in preview units
func RatingAnchor(rating models.TextPos) Point {
	return Point{X: rating.X + 35, Y: rating.Y}
}

// Name treatment, in preview units
const (
	NameLetterSpacing = 3.0
	UnderlineWidth    = 160.0
	UnderlineHeight   = 2.0
	UnderlineGap      = 8.0
)

// NameUnderline returns the divider drawn beneath the fighter name, centered on the
// card, in preview units
func NameUnderline(name models.TextPos) Rect {
	return Rect{
		X: (models.CanvasWidth - UnderlineWidth) / 2,
		Y: name.Y + name.FontSize/2 + UnderlineGap,
		W: UnderlineWidth,
		H: UnderlineHeight,
	}
}
