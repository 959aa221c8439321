package models

import "time"

// EditSession is the private editing state of one browser tab
type EditSession struct {
	ID            string        `json:"id"`
	Customization Customization `json:"customization"`
	// OriginalPhoto is the photo as uploaded, before background removal
	OriginalPhoto string    `json:"originalPhoto,omitempty"`
	FinalImageURL string    `json:"finalImageUrl,omitempty"`
	Exporting     bool      `json:"exporting"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateSessionRequest represents the request body for POST /api/sessions
// Example: {"templateId": "ufc"}
type CreateSessionRequest struct {
	TemplateID string `json:"templateId"`
}

// UploadPhotoRequest carries a photo as a data URL
type UploadPhotoRequest struct {
	Photo string `json:"photo"`
}

// RemoveBackgroundRequest selects preview (watermarked) or final quality
type RemoveBackgroundRequest struct {
	Final bool `json:"final"`
}

// ExportRequest optionally names the order to attach the result to
type ExportRequest struct {
	OrderID string `json:"orderId,omitempty"`
}

// ExportResult is the only thing an export hands back: both values or an error
type ExportResult struct {
	FinalImageURL string        `json:"finalImageUrl"`
	Customization Customization `json:"customization"`
}
