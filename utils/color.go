package utils

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// HexToRGBA converts a 6-digit hex color ("#3B82F6" or "3b82f6") to a translucent color.
// alpha is clamped to [0, 1].
func HexToRGBA(hex string, alpha float64) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: expected 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: alphaByte(alpha),
	}, nil
}

// MustHexToRGBA is HexToRGBA for colors already validated at template load
func MustHexToRGBA(hex string, alpha float64) color.NRGBA {
	c, err := HexToRGBA(hex, alpha)
	if err != nil {
		panic(err)
	}
	return c
}

// CSSRGBA formats a hex color and opacity as a CSS rgba() value.
// Invalid colors fall back to transparent black.
func CSSRGBA(hex string, alpha float64) string {
	c, err := HexToRGBA(hex, alpha)
	if err != nil {
		return "rgba(0, 0, 0, 0)"
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(clampUnit(alpha), 'f', -1, 64))
}

// WithAlpha returns c with its alpha replaced
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = alphaByte(alpha)
	return c
}

func clampUnit(a float64) float64 {
	if math.IsNaN(a) || a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

func alphaByte(a float64) uint8 {
	return uint8(math.Round(clampUnit(a) * 255))
}
