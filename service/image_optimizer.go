package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const (
	// DefaultCacheDir holds generated thumbnails
	DefaultCacheDir = "cache/images"
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

var matteWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ThumbnailCache stores optimized renditions of exported cards on disk
type ThumbnailCache struct {
	dir string
}

// NewThumbnailCache ensures the cache directory exists, creates it if it doesn't
func NewThumbnailCache(dir string) (*ThumbnailCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &ThumbnailCache{dir: dir}, nil
}

// Path returns the cache file path for a given order ID and size
func (c *ThumbnailCache) Path(orderID string, size string) string {
	filename := fmt.Sprintf("order_%s_%s.jpg", filepath.Base(orderID), size)
	return filepath.Join(c.dir, filename)
}

// Read returns a cached rendition, or false when absent
func (c *ThumbnailCache) Read(orderID, size string) ([]byte, bool) {
	data, err := os.ReadFile(c.Path(orderID, size))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Save stores a rendition
func (c *ThumbnailCache) Save(orderID, size string, imageData []byte) error {
	path := c.Path(orderID, size)
	if err := os.WriteFile(path, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Image cached: %s", path)
	return nil
}

// OptimizeImage converts an image to JPEG and resizes it
// imageData: raw image bytes (PNG, JPEG, etc.)
// size: "thumb" or "medium"
// Transparent areas are flattened onto white.
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded: bounds=%v", img.Bounds())

	var maxDim int
	var quality int

	switch size {
	case "thumb":
		maxDim = maxSizeThumb
		quality = qualityThumb
	case "medium":
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		log.Printf("🔄 Resizing image: %dx%d -> fit %d", b.Dx(), b.Dy(), maxDim)
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	b = img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), matteWhite)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	optimizedData := buf.Bytes()

	log.Printf("✓ Image optimized: size=%s, quality=%d, output_size=%d bytes", size, quality, len(optimizedData))
	return optimizedData, nil
}
