package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// MaxImageSize is the largest raw image accepted for upload
	MaxImageSize = 10 * 1024 * 1024
	// MaxBase64Size is the largest base64 payload accepted (base64 adds ~33%)
	MaxBase64Size = 15 * 1024 * 1024
)

// allowedImageTypes is a map of accepted image MIME types
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var magicBytes = []struct {
	mime  string
	magic []byte
}{
	{"image/jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"image/png", []byte{0x89, 0x50, 0x4E, 0x47}},
	{"image/gif", []byte{0x47, 0x49, 0x46, 0x38}},
	{"image/webp", []byte{0x52, 0x49, 0x46, 0x46}},
}

// IsAllowedImageType reports whether a MIME type may be uploaded
func IsAllowedImageType(mimeType string) bool {
	return allowedImageTypes[strings.ToLower(mimeType)]
}

// SniffImageType returns the MIME type matching the leading magic bytes, or ""
func SniffImageType(data []byte) string {
	for _, m := range magicBytes {
		if bytes.HasPrefix(data, m.magic) {
			return m.mime
		}
	}
	return ""
}

// ValidateImageBytes checks size and magic bytes of a raw image and returns its MIME type
func ValidateImageBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("image too large: %.2fMB (max %dMB)", float64(len(data))/1024/1024, MaxImageSize/1024/1024)
	}
	mime := SniffImageType(data)
	if mime == "" {
		return "", fmt.Errorf("file is not a valid image")
	}
	return mime, nil
}

// ParseImageDataURL validates a base64 image (data URL or bare base64) and returns the
// decoded bytes and MIME type
func ParseImageDataURL(s string) ([]byte, string, error) {
	payload := s
	declared := ""
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma == -1 {
			return nil, "", fmt.Errorf("invalid data URL")
		}
		header := s[len("data:"):comma]
		semi := strings.IndexByte(header, ';')
		if semi == -1 || header[semi+1:] != "base64" {
			return nil, "", fmt.Errorf("invalid data URL: expected base64 encoding")
		}
		declared = header[:semi]
		if !IsAllowedImageType(declared) {
			return nil, "", fmt.Errorf("image type not allowed: %s", declared)
		}
		payload = s[comma+1:]
	}

	if len(payload)*3/4 > MaxBase64Size {
		return nil, "", fmt.Errorf("image too large: %.2fMB (max %dMB)", float64(len(payload)*3/4)/1024/1024, MaxBase64Size/1024/1024)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 image: %w", err)
	}
	mime, err := ValidateImageBytes(data)
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// EncodeDataURL builds a base64 data URL
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
