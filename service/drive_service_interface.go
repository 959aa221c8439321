package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ImageHost
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
}
