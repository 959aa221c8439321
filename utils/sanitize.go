package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	// MaxFighterNameLength is the longest name printed on a card
	MaxFighterNameLength = 30
	// MaxSportLength is the longest sport label printed on a card
	MaxSportLength = 20

	defaultRating = 85
	defaultSport  = "MMA"
	flagURLFormat = "https://flagcdn.com/w320/%s.png"
)

var (
	dangerousChars   = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "`", "", `\`, "", "/", "", "\r", "")
	javascriptScheme = regexp.MustCompile(`(?i)javascript:`)
	eventHandler     = regexp.MustCompile(`(?i)on\w+=`)
	scriptTag        = regexp.MustCompile(`(?i)</?script`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	countryCodeRe    = regexp.MustCompile(`^[a-z]{2}$`)
	flagURLRe        = regexp.MustCompile(`^https://flagcdn\.com/w320/([a-z]{2})\.png$`)
	emailRe          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// validCountryCodes is the whitelist of flags offered on a card
var validCountryCodes = map[string]bool{
	"fr": true, "us": true, "gb": true, "de": true, "es": true, "it": true, "pt": true, "br": true,
	"ru": true, "jp": true, "cn": true, "kr": true, "mx": true, "ca": true, "au": true, "nz": true,
	"nl": true, "be": true, "ch": true, "se": true, "no": true, "dk": true, "fi": true, "pl": true,
	"cz": true, "at": true, "gr": true, "tr": true, "ie": true, "ar": true, "cl": true, "co": true,
	"pe": true, "za": true, "ng": true, "eg": true, "ma": true, "dz": true, "tn": true, "in": true,
	"pk": true, "th": true, "vn": true, "id": true, "ph": true, "my": true, "sg": true, "il": true,
	"sa": true, "ae": true, "ua": true, "ro": true, "bg": true, "hr": true, "rs": true,
}

func stripDangerous(s string) string {
	s = strings.NewReplacer("\n", " ", "\t", " ").Replace(s)
	s = dangerousChars.Replace(s)
	s = javascriptScheme.ReplaceAllString(s, "")
	return eventHandler.ReplaceAllString(s, "")
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}

// SanitizeText removes markup and script fragments, trims, and limits length
func SanitizeText(s string, maxLength int) string {
	return truncateRunes(strings.TrimSpace(stripDangerous(s)), maxLength)
}

// SanitizeFighterName cleans a display name: no markup, no leading spaces, single spaces,
// at most MaxFighterNameLength characters, uppercase. Trailing spaces are kept.
func SanitizeFighterName(name string) string {
	cleaned := strings.TrimLeft(stripDangerous(name), " \t\r\n")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	cleaned = truncateRunes(cleaned, MaxFighterNameLength)
	return strings.ToUpper(cleaned)
}

// SanitizeSport cleans a sport label; empty input falls back to MMA
func SanitizeSport(sport string) string {
	cleaned := strings.ToUpper(SanitizeText(sport, MaxSportLength))
	if cleaned == "" {
		return defaultSport
	}
	return cleaned
}

// SanitizeRating floors and clamps a rating to 0-100; NaN becomes the default rating
func SanitizeRating(rating float64) int {
	if math.IsNaN(rating) {
		return defaultRating
	}
	return ClampStat(rating)
}

// ClampStat floors a value and clamps it to 0-100
func ClampStat(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Floor(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// ValidateCountryCode normalizes a country code and reports whether it is whitelisted
func ValidateCountryCode(code string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(code))
	if !countryCodeRe.MatchString(c) || !validCountryCodes[c] {
		return "", false
	}
	return c, true
}

// FlagURL returns the flag image URL for a validated country code
func FlagURL(code string) string {
	return fmt.Sprintf(flagURLFormat, code)
}

// SanitizeFlagURL keeps only flag URLs for whitelisted countries
func SanitizeFlagURL(url string) string {
	m := flagURLRe.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil || !validCountryCodes[m[1]] {
		return ""
	}
	return m[0]
}

// SanitizeURL keeps http(s), data:image and root-relative URLs and strips script fragments.
// Anything else returns "".
func SanitizeURL(url string) string {
	cleaned := strings.TrimSpace(url)
	safe := strings.HasPrefix(cleaned, "http://") ||
		strings.HasPrefix(cleaned, "https://") ||
		strings.HasPrefix(cleaned, "data:image/") ||
		(strings.HasPrefix(cleaned, "/") && !strings.HasPrefix(cleaned, "//"))
	if !safe {
		return ""
	}
	// base64 payloads can legitimately contain "on...=" runs
	if strings.HasPrefix(cleaned, "data:image/") {
		return cleaned
	}
	cleaned = javascriptScheme.ReplaceAllString(cleaned, "")
	cleaned = eventHandler.ReplaceAllString(cleaned, "")
	return scriptTag.ReplaceAllString(cleaned, "")
}

// MaskEmail hides the local part of an e-mail address for logging
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// IsValidEmail performs a basic shape check on an e-mail address
func IsValidEmail(email string) bool {
	return len(email) <= 254 && emailRe.MatchString(email)
}
