package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"fightcards/models"
	"fightcards/utils"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// driveURLPrefix is the public URL form of an uploaded Drive file
const driveURLPrefix = models.DriveImagePrefix

// DriveService handles Google Drive API operations
// Implements DriveServiceInterface and ImageHost
type DriveService struct {
	client   *drive.Service
	folderID string
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath, folderID string) (*DriveService, error) {
	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client:   driveService,
		folderID: folderID,
	}, nil
}

// Upload stores an image in the configured folder, shares it read-only and returns its public URL
func (ds *DriveService) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := validateUpload(contentType, data); err != nil {
		return "", err
	}

	file := &drive.File{
		Name:     name,
		MimeType: contentType,
	}
	if ds.folderID != "" {
		file.Parents = []string{ds.folderID}
	}

	created, err := ds.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("❌ DriveService.Upload: %v", err)
		return "", fmt.Errorf("%w: failed to create drive file: %v", models.ErrUpload, err)
	}

	_, err = ds.client.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		log.Printf("❌ DriveService.Upload: failed to share %s: %v", created.Id, err)
		return "", fmt.Errorf("%w: failed to share drive file: %v", models.ErrUpload, err)
	}

	log.Printf("✓ Uploaded to Drive: name=%s id=%s size=%d", name, created.Id, len(data))
	return driveURLPrefix + created.Id, nil
}

// DownloadImage downloads the raw bytes of a Drive file
func (ds *DriveService) DownloadImage(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, utils.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	if len(data) > utils.MaxImageSize {
		return nil, fmt.Errorf("file %s exceeds %d bytes", fileID, utils.MaxImageSize)
	}
	return data, nil
}

// DriveFileID extracts the file id from a URL returned by Upload
func DriveFileID(url string) (string, bool) {
	if !strings.HasPrefix(url, driveURLPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(url, driveURLPrefix)
	return id, id != ""
}
