package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"fightcards/models"
	"fightcards/utils"
)

// DefaultPixianURL is the Pixian background removal endpoint
const DefaultPixianURL = "https://api.pixian.ai/api/v2/remove-background"

// BackgroundRemover strips the background of a photo
type BackgroundRemover interface {
	// RemoveBackground takes a photo data URL and returns a PNG data URL.
	// final=false requests a watermarked preview that is not billed.
	RemoveBackground(ctx context.Context, photo string, final bool) (string, error)
}

// PixianClient calls the Pixian API
type PixianClient struct {
	client    *http.Client
	endpoint  string
	apiID     string
	apiSecret string
}

// Ensure PixianClient implements BackgroundRemover
var _ BackgroundRemover = (*PixianClient)(nil)

// NewPixianClient creates a PixianClient. An empty endpoint uses DefaultPixianURL.
func NewPixianClient(client *http.Client, endpoint, apiID, apiSecret string) *PixianClient {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if endpoint == "" {
		endpoint = DefaultPixianURL
	}
	return &PixianClient{
		client:    client,
		endpoint:  endpoint,
		apiID:     apiID,
		apiSecret: apiSecret,
	}
}

type pixianError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RemoveBackground uploads the photo and returns the cut-out as a PNG data URL
func (p *PixianClient) RemoveBackground(ctx context.Context, photo string, final bool) (string, error) {
	if p.apiID == "" || p.apiSecret == "" {
		return "", fmt.Errorf("%w: Pixian API credentials not configured", models.ErrBackgroundRemoval)
	}

	data, mime, err := utils.ParseImageDataURL(photo)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidImage, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "photo."+extensionFor(mime))
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if !final {
		if err := mw.WriteField("test", "true"); err != nil {
			return "", fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(p.apiID, p.apiSecret)

	log.Printf("📸 Pixian: removing background (final=%v, %d bytes)", final, len(data))
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrBackgroundRemoval, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, utils.MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", models.ErrBackgroundRemoval, err)
	}

	if resp.StatusCode != http.StatusOK {
		message := "Failed to remove background"
		var perr pixianError
		if json.Unmarshal(payload, &perr) == nil && perr.Error.Message != "" {
			message = perr.Error.Message
		}
		log.Printf("❌ Pixian: status=%d message=%s", resp.StatusCode, message)
		return "", fmt.Errorf("%w: %s (status %d)", models.ErrBackgroundRemoval, message, resp.StatusCode)
	}

	if _, err := utils.ValidateImageBytes(payload); err != nil {
		return "", fmt.Errorf("%w: unexpected response: %v", models.ErrBackgroundRemoval, err)
	}

	log.Printf("✓ Pixian: background removed (%d bytes)", len(payload))
	return utils.EncodeDataURL("image/png", payload), nil
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}
	return "png"
}
