package compositor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"fightcards/layout"
)

// Fulfillment label geometry, in pixels
const (
	LabelWidth  = 1200
	LabelHeight = 600

	labelMargin     = 40
	labelQRSize     = 240
	labelTitleSize  = 40
	labelLineSize   = 26
	labelLineHeight = 40
)

var labelInk = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}

// LabelContent is what a fulfillment label shows
type LabelContent struct {
	Title string
	Lines []string
	Card  image.Image
	QR    image.Image
}

// ComposeLabel lays out a printable label: card thumbnail on the left, order text in the
// middle and the QR code on the right
func ComposeLabel(fonts *Fonts, content LabelContent) (image.Image, error) {
	c := gg.NewContext(LabelWidth, LabelHeight)
	defer c.Close()

	c.SetColor(color.White)
	c.DrawRectangle(0, 0, LabelWidth, LabelHeight)
	if err := c.Fill(); err != nil {
		return nil, err
	}

	textX := float64(labelMargin)
	if content.Card != nil {
		thumb := imaging.Fit(content.Card, LabelWidth/3, LabelHeight-2*labelMargin, imaging.Lanczos)
		c.DrawImage(gg.ImageBufFromImage(thumb), labelMargin, labelMargin)
		textX += float64(thumb.Bounds().Dx()) + labelMargin
	}

	if content.QR != nil {
		qr := imaging.Resize(content.QR, labelQRSize, labelQRSize, imaging.NearestNeighbor)
		c.DrawImage(gg.ImageBufFromImage(qr), LabelWidth-labelMargin-labelQRSize, labelMargin)
	}

	title := textSpec{
		s:    content.Title,
		face: fonts.Heavy.Face(labelTitleSize),
		x:    textX,
		y:    labelMargin,
	}
	title.draw(c, labelInk, 0, 0)

	face := fonts.Medium.Face(labelLineSize)
	y := float64(labelMargin) + labelTitleSize + labelLineHeight/2
	for _, line := range content.Lines {
		t := textSpec{s: line, face: face, x: textX, y: y, align: layout.AlignLeft}
		t.draw(c, labelInk, 0, 0)
		y += labelLineHeight
	}

	c.SetColor(labelInk)
	c.SetLineWidth(2)
	c.DrawRectangle(1, 1, LabelWidth-2, LabelHeight-2)
	if err := c.Stroke(); err != nil {
		return nil, err
	}

	return c.Image(), nil
}
