package models

import (
	"fmt"
	"strings"
	"sync"

	"fightcards/utils"
)

// Default placeholder values for a freshly selected template
const (
	DefaultUsername = "FIGHTER_NAME"
	DefaultName     = "FIGHTER"
	DefaultSport    = "MMA"
	DefaultRating   = 85
)

// Hosted photo locations
const (
	HostedImagePrefix = "/images/"
	DriveImagePrefix  = "https://drive.google.com/uc?id="
)

var (
	photoOriginsMu sync.RWMutex
	photoOrigins   []string
)

// SetPhotoOrigins sets the absolute URL prefixes a photo may use besides data URLs,
// HostedImagePrefix paths and Drive files. Called once at startup with the public
// image URL.
func SetPhotoOrigins(prefixes ...string) {
	photoOriginsMu.Lock()
	defer photoOriginsMu.Unlock()
	photoOrigins = append([]string(nil), prefixes...)
}

// trustedPhoto reports whether a sanitized photo URL points at a source this service owns
func trustedPhoto(url string) bool {
	if strings.HasPrefix(url, "data:image/") ||
		strings.HasPrefix(url, HostedImagePrefix) ||
		strings.HasPrefix(url, DriveImagePrefix) {
		return true
	}
	photoOriginsMu.RLock()
	defer photoOriginsMu.RUnlock()
	for _, p := range photoOrigins {
		if p != "" && strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

// Stats holds the six fighter attributes, each 0-100
type Stats struct {
	Force     int `json:"force"`
	Rapidite  int `json:"rapidite"`
	Grappling int `json:"grappling"`
	Endurance int `json:"endurance"`
	Striking  int `json:"striking"`
	Equilibre int `json:"equilibre"`
}

// StatField names one stat and the label printed on the card
type StatField struct {
	Key     string
	Label   string
	Default int
}

// StatFields is the display order of the stat grid.
// Even indexes go to the left column, odd ones to the right.
var StatFields = []StatField{
	{Key: "force", Label: "FORCE", Default: 90},
	{Key: "rapidite", Label: "RAPIDITÉ", Default: 85},
	{Key: "grappling", Label: "GRAPPLING", Default: 88},
	{Key: "endurance", Label: "ENDURANCE", Default: 80},
	{Key: "striking", Label: "STRIKING", Default: 82},
	{Key: "equilibre", Label: "ÉQUILIBRE", Default: 87},
}

// DefaultStats returns the placeholder stats
func DefaultStats() Stats {
	return Stats{Force: 90, Rapidite: 85, Grappling: 88, Endurance: 80, Striking: 82, Equilibre: 87}
}

// Values returns the stats in StatFields order
func (s Stats) Values() []int {
	return []int{s.Force, s.Rapidite, s.Grappling, s.Endurance, s.Striking, s.Equilibre}
}

// Customization is the fully normalized content of one card
type Customization struct {
	TemplateID       string `json:"templateId"`
	Photo            string `json:"photo"`
	Username         string `json:"username"`
	Name             string `json:"name"`
	Sport            string `json:"sport"`
	Rating           int    `json:"rating"`
	FlagURL          string `json:"flagUrl,omitempty"`
	RemoveBackground bool   `json:"removeBackground"`
	Stats            Stats  `json:"stats"`
}

// StatsInput is the loosely-typed stats shape accepted from clients
type StatsInput struct {
	Force     *float64 `json:"force,omitempty"`
	Rapidite  *float64 `json:"rapidite,omitempty"`
	Grappling *float64 `json:"grappling,omitempty"`
	Endurance *float64 `json:"endurance,omitempty"`
	Striking  *float64 `json:"striking,omitempty"`
	Equilibre *float64 `json:"equilibre,omitempty"`
}

// CustomizationInput is a partial customization as received from a client.
// Nil fields are absent.
type CustomizationInput struct {
	TemplateID       *string     `json:"templateId,omitempty"`
	Photo            *string     `json:"photo,omitempty"`
	Username         *string     `json:"username,omitempty"`
	Name             *string     `json:"name,omitempty"`
	Sport            *string     `json:"sport,omitempty"`
	Rating           *float64    `json:"rating,omitempty"`
	FlagURL          *string     `json:"flagUrl,omitempty"`
	CountryCode      *string     `json:"countryCode,omitempty"`
	RemoveBackground *bool       `json:"removeBackground,omitempty"`
	Stats            *StatsInput `json:"stats,omitempty"`
}

// DefaultCustomization returns the placeholder card for a template
func DefaultCustomization(templateID string) Customization {
	return Customization{
		TemplateID: templateID,
		Username:   DefaultUsername,
		Name:       DefaultName,
		Sport:      DefaultSport,
		Rating:     DefaultRating,
		Stats:      DefaultStats(),
	}
}

// NormalizeCustomization turns client input into a fully populated Customization.
// Cosmetic fields are clamped or truncated; a missing template id or a photo URL
// outside the hosted sources is reported as an error.
func NormalizeCustomization(in CustomizationInput) (Customization, error) {
	if in.TemplateID == nil || strings.TrimSpace(*in.TemplateID) == "" {
		return Customization{}, fmt.Errorf("%w: templateId is required", ErrInvalidCustomization)
	}

	c := DefaultCustomization(strings.TrimSpace(*in.TemplateID))

	if in.Photo != nil && *in.Photo != "" {
		photo := utils.SanitizeURL(*in.Photo)
		if photo == "" || !trustedPhoto(photo) {
			return Customization{}, fmt.Errorf("%w: photo must be an uploaded image or a data:image URL", ErrInvalidCustomization)
		}
		c.Photo = photo
	}
	if in.Username != nil {
		if u := utils.SanitizeFighterName(*in.Username); u != "" {
			c.Username = u
		}
	}
	if in.Name != nil {
		if n := utils.SanitizeFighterName(*in.Name); n != "" {
			c.Name = n
		}
	}
	if in.Sport != nil {
		c.Sport = utils.SanitizeSport(*in.Sport)
	}
	if in.Rating != nil {
		c.Rating = utils.SanitizeRating(*in.Rating)
	}
	if in.RemoveBackground != nil {
		c.RemoveBackground = *in.RemoveBackground
	}

	// A country code wins over a raw flag URL
	switch {
	case in.CountryCode != nil && *in.CountryCode != "":
		if code, ok := utils.ValidateCountryCode(*in.CountryCode); ok {
			c.FlagURL = utils.FlagURL(code)
		}
	case in.FlagURL != nil:
		c.FlagURL = utils.SanitizeFlagURL(*in.FlagURL)
	}

	if in.Stats != nil {
		c.Stats = normalizeStats(*in.Stats)
	}
	return c, nil
}

func normalizeStats(in StatsInput) Stats {
	stat := func(v *float64, def int) int {
		if v == nil {
			return def
		}
		return utils.ClampStat(*v)
	}
	return Stats{
		Force:     stat(in.Force, StatFields[0].Default),
		Rapidite:  stat(in.Rapidite, StatFields[1].Default),
		Grappling: stat(in.Grappling, StatFields[2].Default),
		Endurance: stat(in.Endurance, StatFields[3].Default),
		Striking:  stat(in.Striking, StatFields[4].Default),
		Equilibre: stat(in.Equilibre, StatFields[5].Default),
	}
}

// Input converts a normalized customization back to the input shape
func (c Customization) Input() CustomizationInput {
	f := func(v int) *float64 {
		x := float64(v)
		return &x
	}
	templateID, photo, username, name, sport, flag := c.TemplateID, c.Photo, c.Username, c.Name, c.Sport, c.FlagURL
	removeBg := c.RemoveBackground
	return CustomizationInput{
		TemplateID:       &templateID,
		Photo:            &photo,
		Username:         &username,
		Name:             &name,
		Sport:            &sport,
		Rating:           f(c.Rating),
		FlagURL:          &flag,
		RemoveBackground: &removeBg,
		Stats: &StatsInput{
			Force:     f(c.Stats.Force),
			Rapidite:  f(c.Stats.Rapidite),
			Grappling: f(c.Stats.Grappling),
			Endurance: f(c.Stats.Endurance),
			Striking:  f(c.Stats.Striking),
			Equilibre: f(c.Stats.Equilibre),
		},
	}
}

// MergeCustomization overlays a partial update on an existing customization and
// normalizes the result
func MergeCustomization(base Customization, patch CustomizationInput) (Customization, error) {
	merged := base.Input()
	if patch.TemplateID != nil {
		merged.TemplateID = patch.TemplateID
	}
	if patch.Photo != nil {
		merged.Photo = patch.Photo
	}
	if patch.Username != nil {
		merged.Username = patch.Username
	}
	if patch.Name != nil {
		merged.Name = patch.Name
	}
	if patch.Sport != nil {
		merged.Sport = patch.Sport
	}
	if patch.Rating != nil {
		merged.Rating = patch.Rating
	}
	if patch.FlagURL != nil {
		merged.FlagURL = patch.FlagURL
	}
	if patch.CountryCode != nil {
		merged.CountryCode = patch.CountryCode
	}
	if patch.RemoveBackground != nil {
		merged.RemoveBackground = patch.RemoveBackground
	}
	if patch.Stats != nil {
		s := patch.Stats
		if s.Force != nil {
			merged.Stats.Force = s.Force
		}
		if s.Rapidite != nil {
			merged.Stats.Rapidite = s.Rapidite
		}
		if s.Grappling != nil {
			merged.Stats.Grappling = s.Grappling
		}
		if s.Endurance != nil {
			merged.Stats.Endurance = s.Endurance
		}
		if s.Striking != nil {
			merged.Stats.Striking = s.Striking
		}
		if s.Equilibre != nil {
			merged.Stats.Equilibre = s.Equilibre
		}
	}
	return NormalizeCustomization(merged)
}
