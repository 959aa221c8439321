package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"fightcards/models"
	"fightcards/repository"
	"fightcards/utils"
)

// Quoter prices one card order
type Quoter interface {
	Currency() string
	UnitPrice() int64
	Quote(country string) (models.PriceQuote, error)
}

// OrderDownload is an order's final image ready to stream
type OrderDownload struct {
	Data        []byte
	ContentType string
	FileName    string
}

// OrderServiceInterface defines the contract for order operations
type OrderServiceInterface interface {
	Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	RecordPayment(ctx context.Context, id string, req models.RecordPaymentRequest) (*models.Order, error)
	Download(ctx context.Context, id string) (*OrderDownload, error)
	List(ctx context.Context, filter string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error)
}

// OrderService handles order business logic
type OrderService struct {
	repo     repository.OrderRepositoryInterface
	sessions SessionServiceInterface
	pricing  Quoter
	assets   AssetLoader
	devMode  bool
	now      func() time.Time
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// NewOrderService creates a new OrderService. In devMode downloads skip the payment check.
func NewOrderService(
	repo repository.OrderRepositoryInterface,
	sessions SessionServiceInterface,
	pricing Quoter,
	assets AssetLoader,
	devMode bool,
) *OrderService {
	return &OrderService{
		repo:     repo,
		sessions: sessions,
		pricing:  pricing,
		assets:   assets,
		devMode:  devMode,
		now:      time.Now,
	}
}

// Create snapshots a session into a new pending order
func (s *OrderService) Create(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	email := strings.TrimSpace(req.CustomerEmail)
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: a valid customerEmail is required", models.ErrInvalidOrderRequest)
	}
	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", models.ErrInvalidOrderRequest)
	}

	session, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Customization.Photo == "" {
		return nil, fmt.Errorf("%w: a photo is required to order", models.ErrInvalidCustomization)
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		CreatedAt:       s.now().UTC().Format(time.RFC3339),
		CustomerEmail:   email,
		Customization:   session.Customization,
		FighterPhotoURL: session.Customization.Photo,
		FinalImageURL:   session.FinalImageURL,
		StripePaymentID: models.PendingPaymentID,
		Amount:          s.pricing.UnitPrice(),
		Status:          models.OrderStatusPending,
	}
	// Inline photos are replaced by their hosted URL when the card is exported
	if strings.HasPrefix(order.FighterPhotoURL, "data:") {
		order.FighterPhotoURL = ""
		order.Customization.Photo = ""
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("✓ Order created: id=%s email=%s template=%s amount=%s",
		order.ID, utils.MaskEmail(email), order.Customization.TemplateID, utils.FormatEUR(order.Amount))
	return order, nil
}

// Get returns one order
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// RecordPayment stores a completed checkout and prices it for the shipping country
func (s *OrderService) RecordPayment(ctx context.Context, id string, req models.RecordPaymentRequest) (*models.Order, error) {
	paymentID := strings.TrimSpace(req.PaymentID)
	if paymentID == "" || paymentID == models.PendingPaymentID {
		return nil, fmt.Errorf("%w: paymentId is required", models.ErrInvalidOrderRequest)
	}

	shipping := req.ShippingAddress
	shipping.Country = strings.ToUpper(strings.TrimSpace(shipping.Country))
	quote, err := s.pricing.Quote(shipping.Country)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.RecordPayment(ctx, id, paymentID, shipping, quote)
	if err != nil {
		return nil, err
	}

	log.Printf("💳 Payment recorded: order=%s country=%s total=%s", id, shipping.Country, utils.FormatEUR(quote.Total))
	return order, nil
}

// Download returns the final card of a paid order
func (s *OrderService) Download(ctx context.Context, id string) (*OrderDownload, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsPaid() {
		if !s.devMode {
			return nil, fmt.Errorf("%w: %s", models.ErrOrderUnpaid, id)
		}
		log.Printf("⚠️  Download: order %s is unpaid, allowed in development mode", id)
	}
	if order.FinalImageURL == "" {
		return nil, fmt.Errorf("%w: %s", models.ErrNoFinalImage, id)
	}

	data, err := s.assets.Fetch(ctx, order.FinalImageURL)
	if err != nil {
		return nil, err
	}

	contentType := utils.SniffImageType(data)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &OrderDownload{
		Data:        data,
		ContentType: contentType,
		FileName:    fmt.Sprintf("fight-card-%s.%s", id, extensionFor(contentType)),
	}, nil
}

// List returns orders matching an admin filter
func (s *OrderService) List(ctx context.Context, filter string) ([]models.Order, error) {
	status, err := models.ParseOrderFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, status)
}

// UpdateStatus moves an order to a new fulfillment status
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	parsed, err := models.ParseAdminStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, err
	}
	log.Printf("✓ Order %s status updated to %s", id, parsed)
	return s.repo.GetByID(ctx, id)
}
