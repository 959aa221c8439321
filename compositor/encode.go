package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"fightcards/models"
)

// Format is an output encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"

	defaultJPEGQuality = 92
)

// ParseFormat validates a format name; empty means PNG
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unknown export format %q (valid: png, jpeg)", s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Ext returns the file extension of the format, without the dot
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// matte fills the transparent corners when the format has no alpha channel
var matte = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Encode serializes a composed card. JPEG output is flattened onto a white matte.
func Encode(img image.Image, format Format, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if jpegQuality <= 0 || jpegQuality > 100 {
			jpegQuality = defaultJPEGQuality
		}
		b := img.Bounds()
		flat := imaging.New(b.Dx(), b.Dy(), matte)
		flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
		if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
		}
	case FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode to PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	return buf.Bytes(), nil
}

// Render composes and encodes a card in one step
func (c *Compositor) Render(tpl *models.Template, cust models.Customization, assets Assets, format Format, jpegQuality int) ([]byte, error) {
	img, err := c.Compose(tpl, cust, assets)
	if err != nil {
		return nil, err
	}
	return Encode(img, format, jpegQuality)
}
