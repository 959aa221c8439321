package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"fightcards/models"
	"fightcards/utils"
)

// ImageHost stores an image and returns a stable public URL for it
type ImageHost interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// LocalImagePrefix is the URL path under which LocalImageHost files are served
const LocalImagePrefix = models.HostedImagePrefix

// validateUpload rejects payloads that are not an allowed image or exceed the size ceiling
func validateUpload(contentType string, data []byte) error {
	if !utils.IsAllowedImageType(contentType) {
		return fmt.Errorf("%w: content type %q not allowed", models.ErrInvalidImage, contentType)
	}
	if _, err := utils.ValidateImageBytes(data); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidImage, err)
	}
	return nil
}

// LocalImageHost writes images to a directory served under /images/
type LocalImageHost struct {
	dir     string
	baseURL string
}

// Ensure LocalImageHost implements ImageHost
var _ ImageHost = (*LocalImageHost)(nil)

// NewLocalImageHost creates the storage directory if needed
func NewLocalImageHost(dir, publicBaseURL string) (*LocalImageHost, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageHost{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Dir returns the storage directory
func (h *LocalImageHost) Dir() string {
	return h.dir
}

// Upload writes the image and returns its URL
func (h *LocalImageHost) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := validateUpload(contentType, data); err != nil {
		return "", err
	}

	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: invalid file name", models.ErrUpload)
	}

	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("❌ LocalImageHost.Upload: %v", err)
		return "", fmt.Errorf("%w: %v", models.ErrUpload, err)
	}

	log.Printf("💾 Image stored: %s (%d bytes)", path, len(data))
	return h.baseURL + LocalImagePrefix + name, nil
}
