package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"fightcards/compositor"
	"fightcards/models"
	"fightcards/utils"
)

// labelQRPixels is the native size of the generated QR code
const labelQRPixels = 256

// OrderLookup resolves orders by id
type OrderLookup interface {
	Get(ctx context.Context, id string) (*models.Order, error)
}

// LabelService renders fulfillment labels and admin thumbnails for orders
type LabelService struct {
	orders  OrderLookup
	assets  AssetLoader
	fonts   *compositor.Fonts
	cache   *ThumbnailCache
	baseURL string
}

// NewLabelService creates a LabelService. cache may be nil.
func NewLabelService(orders OrderLookup, assets AssetLoader, fonts *compositor.Fonts, cache *ThumbnailCache, publicBaseURL string) *LabelService {
	return &LabelService{
		orders:  orders,
		assets:  assets,
		fonts:   fonts,
		cache:   cache,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// DownloadURL returns the customer download link of an order
func (s *LabelService) DownloadURL(orderID string) string {
	return fmt.Sprintf("%s/api/orders/%s/download", s.baseURL, orderID)
}

// Label renders the printable PNG label of an order
func (s *LabelService) Label(ctx context.Context, orderID string) ([]byte, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var card image.Image
	if order.FinalImageURL != "" {
		card, err = s.assets.Load(ctx, order.FinalImageURL)
		if err != nil {
			// The label is still useful without the thumbnail
			log.Printf("⚠️  Label: card image unavailable for order %s: %v", orderID, err)
			card = nil
		}
	}

	png, err := qrcode.Encode(s.DownloadURL(orderID), qrcode.Medium, labelQRPixels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	qr, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR code: %w", err)
	}

	img, err := compositor.ComposeLabel(s.fonts, compositor.LabelContent{
		Title: "Commande " + shortID(order.ID),
		Lines: labelLines(order),
		Card:  card,
		QR:    qr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compose label: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode label: %w", err)
	}
	log.Printf("🏷️  Label rendered for order %s (%d bytes)", orderID, buf.Len())
	return buf.Bytes(), nil
}

// Thumbnail returns an optimized JPEG of an order's final card, cached on disk
func (s *LabelService) Thumbnail(ctx context.Context, orderID, size string) ([]byte, error) {
	if size != "thumb" && size != "medium" {
		size = "thumb"
	}
	if s.cache != nil {
		if data, ok := s.cache.Read(orderID, size); ok {
			return data, nil
		}
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.FinalImageURL == "" {
		return nil, fmt.Errorf("%w: %s", models.ErrNoFinalImage, orderID)
	}

	raw, err := s.assets.Fetch(ctx, order.FinalImageURL)
	if err != nil {
		return nil, err
	}
	data, err := OptimizeImage(raw, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAssetDecode, err)
	}

	if s.cache != nil {
		if err := s.cache.Save(orderID, size, data); err != nil {
			log.Printf("⚠️  Thumbnail: %v", err)
		}
	}
	return data, nil
}

func labelLines(o *models.Order) []string {
	c := o.Customization
	lines := []string{
		fmt.Sprintf("%s - %s", c.Name, c.Sport),
		fmt.Sprintf("Template: %s", c.TemplateID),
		fmt.Sprintf("Statut: %s", o.Status),
		fmt.Sprintf("Total: %s", utils.FormatEUR(totalOf(o))),
		"",
	}

	addr := o.ShippingAddress
	if addr.Name == "" && addr.AddressLine1 == "" {
		return append(lines, "Adresse de livraison non renseignée")
	}
	for _, l := range []string{
		addr.Name,
		addr.AddressLine1,
		addr.AddressLine2,
		strings.TrimSpace(addr.PostalCode + " " + addr.City),
		addr.Country,
	} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func totalOf(o *models.Order) int64 {
	if o.TotalAmount > 0 {
		return o.TotalAmount
	}
	return o.Amount
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + strings.ToUpper(id[:8])
	}
	return "#" + strings.ToUpper(id)
}
