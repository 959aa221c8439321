package repository

import (
	"context"

	"fightcards/models"
)

// OrderRepositoryInterface defines the contract for order repository operations
type OrderRepositoryInterface interface {
	Insert(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	AttachFinalImage(ctx context.Context, id string, finalImageURL string, customization models.Customization) error
	RecordPayment(ctx context.Context, id string, paymentID string, shipping models.ShippingAddress, quote models.PriceQuote) (*models.Order, error)
}

// TemplateRepositoryInterface defines the contract for template repository operations
type TemplateRepositoryInterface interface {
	List(ctx context.Context) ([]models.Template, error)
	GetByID(ctx context.Context, id string) (*models.Template, error)
}
