package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"fightcards/compositor"
	"fightcards/models"
	"fightcards/utils"
)

// AssetLoader fetches images by URL
type AssetLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CardRenderer produces the encoded HD card
type CardRenderer interface {
	Render(tpl *models.Template, cust models.Customization, assets compositor.Assets, format compositor.Format, jpegQuality int) ([]byte, error)
}

// OrderAttacher records an exported card on an order
type OrderAttacher interface {
	AttachFinalImage(ctx context.Context, orderID string, finalImageURL string, customization models.Customization) error
}

// ExportServiceInterface defines the contract for the export pipeline
type ExportServiceInterface interface {
	Export(ctx context.Context, cust models.Customization, orderID string) (*models.ExportResult, error)
	ExportSession(ctx context.Context, sessionID string, orderID string) (*models.ExportResult, error)
}

// ExportService runs load, compose, upload and attach for one card
type ExportService struct {
	templates   TemplateLookup
	assets      AssetLoader
	renderer    CardRenderer
	host        ImageHost
	orders      OrderAttacher
	sessions    SessionServiceInterface
	format      compositor.Format
	jpegQuality int
}

// Ensure ExportService implements ExportServiceInterface
var _ ExportServiceInterface = (*ExportService)(nil)

// NewExportService creates an ExportService. orders may be nil when no database is configured.
func NewExportService(
	templates TemplateLookup,
	assets AssetLoader,
	renderer CardRenderer,
	host ImageHost,
	orders OrderAttacher,
	sessions SessionServiceInterface,
	format compositor.Format,
	jpegQuality int,
) *ExportService {
	if format == "" {
		format = compositor.FormatPNG
	}
	return &ExportService{
		templates:   templates,
		assets:      assets,
		renderer:    renderer,
		host:        host,
		orders:      orders,
		sessions:    sessions,
		format:      format,
		jpegQuality: jpegQuality,
	}
}

// ExportSession exports the current state of a session. Only one export per session runs at a time.
func (s *ExportService) ExportSession(ctx context.Context, sessionID string, orderID string) (*models.ExportResult, error) {
	session, err := s.sessions.BeginExport(sessionID)
	if err != nil {
		return nil, err
	}

	var result *models.ExportResult
	defer func() { s.sessions.EndExport(sessionID, result) }()

	result, err = s.Export(ctx, session.Customization, orderID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Export renders a customization at HD, uploads it and, when orderID is set, attaches it to the order.
// It returns both the final image URL and the stored customization, or an error.
func (s *ExportService) Export(ctx context.Context, cust models.Customization, orderID string) (*models.ExportResult, error) {
	start := time.Now()
	log.Printf("🎨 Export: template=%s order=%q", cust.TemplateID, orderID)

	tpl, err := s.templates.Get(ctx, cust.TemplateID)
	if err != nil {
		return nil, err
	}
	if cust.Photo == "" {
		return nil, fmt.Errorf("%w: a photo is required to export", models.ErrInvalidCustomization)
	}

	assets, err := s.loadAssets(ctx, tpl, cust)
	if err != nil {
		log.Printf("❌ Export: %v", err)
		return nil, err
	}

	data, err := s.renderer.Render(tpl, cust, assets, s.format, s.jpegQuality)
	if err != nil {
		log.Printf("❌ Export: render failed: %v", err)
		return nil, fmt.Errorf("failed to render card: %w", err)
	}

	id := uuid.NewString()
	finalURL, err := s.host.Upload(ctx, fmt.Sprintf("fight-card-%s.%s", id, s.format.Ext()), s.format.ContentType(), data)
	if err != nil {
		log.Printf("❌ Export: upload failed: %v", err)
		return nil, wrapUpload(err)
	}

	stored := cust
	if strings.HasPrefix(cust.Photo, "data:") {
		photoURL, err := s.hostPhoto(ctx, cust.Photo, id)
		if err != nil {
			log.Printf("❌ Export: photo upload failed: %v", err)
			return nil, wrapUpload(err)
		}
		stored.Photo = photoURL
	}

	if orderID != "" {
		if s.orders == nil {
			return nil, fmt.Errorf("%w: orders are not configured", models.ErrOrderNotFound)
		}
		if err := s.orders.AttachFinalImage(ctx, orderID, finalURL, stored); err != nil {
			log.Printf("❌ Export: failed to attach to order %s: %v", orderID, err)
			return nil, err
		}
	}

	log.Printf("🎉 Export completed in %s: %s (%d bytes)", time.Since(start).Round(time.Millisecond), finalURL, len(data))
	return &models.ExportResult{FinalImageURL: finalURL, Customization: stored}, nil
}

// loadAssets loads every image the card needs. Any failure aborts the export.
func (s *ExportService) loadAssets(ctx context.Context, tpl *models.Template, cust models.Customization) (compositor.Assets, error) {
	var assets compositor.Assets
	var err error

	if assets.Background, err = s.assets.Load(ctx, tpl.BackgroundImageURL); err != nil {
		return assets, fmt.Errorf("background: %w", err)
	}
	if assets.Photo, err = s.assets.Load(ctx, cust.Photo); err != nil {
		return assets, fmt.Errorf("photo: %w", err)
	}
	if cust.FlagURL != "" {
		if assets.Flag, err = s.assets.Load(ctx, cust.FlagURL); err != nil {
			return assets, fmt.Errorf("flag: %w", err)
		}
	}
	return assets, nil
}

// hostPhoto uploads an inline photo so the stored customization references a URL
func (s *ExportService) hostPhoto(ctx context.Context, dataURL string, id string) (string, error) {
	data, mime, err := utils.ParseImageDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidImage, err)
	}
	return s.host.Upload(ctx, fmt.Sprintf("fighter-photo-%s.%s", id, extensionFor(mime)), mime, data)
}

func wrapUpload(err error) error {
	if errors.Is(err, models.ErrUpload) || errors.Is(err, models.ErrInvalidImage) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrUpload, err)
}
