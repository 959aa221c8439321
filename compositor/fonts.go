package compositor

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
)

// Fonts holds the two weights used on a card: heavy for numbers and the name,
// medium for labels
type Fonts struct {
	Heavy  *text.FontSource
	Medium *text.FontSource
}

// LoadFonts parses the embedded Go fonts
func LoadFonts() (*Fonts, error) {
	heavy, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	medium, err := text.NewFontSource(gomedium.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load medium font: %w", err)
	}
	return &Fonts{Heavy: heavy, Medium: medium}, nil
}

// Close releases both font sources
func (f *Fonts) Close() error {
	if err := f.Heavy.Close(); err != nil {
		return err
	}
	return f.Medium.Close()
}
