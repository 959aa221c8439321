package models

import (
	"encoding/json"
	"fmt"

	"fightcards/utils"
)

// Logical canvas size shared by every template, in preview units
const (
	CanvasWidth  = 360
	CanvasHeight = 520
)

// DefaultAccentColor is used when a stored template has no color
const DefaultAccentColor = "#ff4655"

// Category is the sport style a template is designed for
type Category string

const (
	CategoryMMA        Category = "mma"
	CategoryBoxing     Category = "boxing"
	CategoryKickboxing Category = "kickboxing"
	CategoryOther      Category = "other"
)

// validCategories is a map of valid category values
var validCategories = map[Category]bool{
	CategoryMMA:        true,
	CategoryBoxing:     true,
	CategoryKickboxing: true,
	CategoryOther:      true,
}

// Box is a rectangle in preview units
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextPos is an anchor point plus font size in preview units
type TextPos struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize"`
}

// StatsLayout drives the two-column, three-row stat grid.
// X is the center line between the two columns, Y the first row.
type StatsLayout struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	FontSize      float64 `json:"fontSize"`
	LabelFontSize float64 `json:"labelFontSize"`
	RowSpacing    float64 `json:"rowSpacing"`
	ColumnWidth   float64 `json:"columnWidth"`
}

// Positions maps every overlay field of a card to its layout
type Positions struct {
	Photo    Box         `json:"photo"`
	Username TextPos     `json:"username"`
	Rating   TextPos     `json:"rating"`
	Sport    TextPos     `json:"sport"`
	Name     TextPos     `json:"name"`
	Flag     Box         `json:"flag"`
	Stats    StatsLayout `json:"stats"`
}

// Template is an immutable card design
type Template struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Category           Category  `json:"category"`
	BackgroundImageURL string    `json:"imageUrl"`
	AccentColor        string    `json:"color"`
	Positions          Positions `json:"positions"`
}

// Validate checks that every field the renderers read is defined.
// A template that fails here must never reach a renderer.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTemplate)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: template %s: name is required", ErrInvalidTemplate, t.ID)
	}
	if !validCategories[t.Category] {
		return fmt.Errorf("%w: template %s: unknown category %q", ErrInvalidTemplate, t.ID, t.Category)
	}
	if t.BackgroundImageURL == "" {
		return fmt.Errorf("%w: template %s: background image is required", ErrInvalidTemplate, t.ID)
	}
	if _, err := utils.HexToRGBA(t.AccentColor, 1); err != nil {
		return fmt.Errorf("%w: template %s: accent color: %v", ErrInvalidTemplate, t.ID, err)
	}

	p := t.Positions
	checks := []struct {
		field string
		ok    bool
	}{
		{"positions.photo", p.Photo.Width > 0 && p.Photo.Height > 0},
		{"positions.username", p.Username.FontSize > 0},
		{"positions.rating", p.Rating.FontSize > 0},
		{"positions.sport", p.Sport.FontSize > 0},
		{"positions.name", p.Name.FontSize > 0},
		{"positions.flag", p.Flag.Width > 0 && p.Flag.Height > 0},
		{"positions.stats", p.Stats.FontSize > 0 && p.Stats.LabelFontSize > 0 &&
			p.Stats.RowSpacing > 0 && p.Stats.ColumnWidth > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: template %s: %s is missing or empty", ErrInvalidTemplate, t.ID, c.field)
		}
	}
	return nil
}

// requiredPositionKeys lists the keys every stored positions document must carry
var requiredPositionKeys = []struct {
	field string
	keys  []string
}{
	{"photo", []string{"x", "y", "width", "height"}},
	{"username", []string{"x", "y", "fontSize"}},
	{"rating", []string{"x", "y", "fontSize"}},
	{"sport", []string{"x", "y", "fontSize"}},
	{"name", []string{"x", "y", "fontSize"}},
	{"flag", []string{"x", "y", "width", "height"}},
	{"stats", []string{"x", "y", "fontSize", "labelFontSize", "rowSpacing", "columnWidth"}},
}

// DecodeTemplatePositions decodes a positions JSON document, rejecting any absent key
// so a missing coordinate cannot silently become zero.
func DecodeTemplatePositions(data []byte) (Positions, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Positions{}, fmt.Errorf("%w: failed to parse positions: %v", ErrInvalidTemplate, err)
	}

	for _, req := range requiredPositionKeys {
		fields, ok := raw[req.field]
		if !ok {
			return Positions{}, fmt.Errorf("%w: positions.%s is missing", ErrInvalidTemplate, req.field)
		}
		for _, key := range req.keys {
			v, ok := fields[key]
			if !ok || string(v) == "null" {
				return Positions{}, fmt.Errorf("%w: positions.%s.%s is missing", ErrInvalidTemplate, req.field, key)
			}
		}
	}

	var p Positions
	if err := json.Unmarshal(data, &p); err != nil {
		return Positions{}, fmt.Errorf("%w: failed to decode positions: %v", ErrInvalidTemplate, err)
	}
	return p, nil
}
