package models

import "fmt"

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// PendingPaymentID marks an order whose checkout has not completed
const PendingPaymentID = "pending"

// adminSettableStatuses are the statuses an admin can move an order to
var adminSettableStatuses = map[OrderStatus]bool{
	OrderStatusPending:   true,
	OrderStatusCompleted: true,
	OrderStatusDelivered: true,
}

// ParseAdminStatus validates a status sent by the admin dashboard
func ParseAdminStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !adminSettableStatuses[status] {
		return "", fmt.Errorf("%w: %q (valid: pending, completed, delivered)", ErrInvalidStatus, s)
	}
	return status, nil
}

// ParseOrderFilter validates the admin list filter. Empty and "all" mean no filter.
func ParseOrderFilter(s string) (OrderStatus, error) {
	switch s {
	case "", "all":
		return "", nil
	case string(OrderStatusPending), string(OrderStatusProcessing), string(OrderStatusCompleted), string(OrderStatusDelivered):
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidStatus, s)
}

// ShippingAddress is the delivery address captured at checkout
type ShippingAddress struct {
	Name         string `json:"shippingName,omitempty"`
	AddressLine1 string `json:"shippingAddressLine1,omitempty"`
	AddressLine2 string `json:"shippingAddressLine2,omitempty"`
	City         string `json:"shippingCity,omitempty"`
	PostalCode   string `json:"shippingPostalCode,omitempty"`
	Country      string `json:"shippingCountry,omitempty"`
}

// Order is a submitted card with its payment and fulfillment fields
type Order struct {
	ID                 string        `json:"id"`
	CreatedAt          string        `json:"createdAt"`
	CustomerEmail      string        `json:"customerEmail"`
	Customization      Customization `json:"customization"`
	FighterPhotoURL    string        `json:"fighterPhotoUrl"`
	TemplatePreviewURL string        `json:"templatePreviewUrl,omitempty"`
	FinalImageURL      string        `json:"finalImageUrl,omitempty"`
	StripePaymentID    string        `json:"stripePaymentId"`
	Amount             int64         `json:"amount"`
	Status             OrderStatus   `json:"status"`
	ShippingAddress
	TaxAmount   int64 `json:"taxAmount,omitempty"`
	TotalAmount int64 `json:"totalAmount,omitempty"`
}

// IsPaid reports whether checkout has completed for the order
func (o *Order) IsPaid() bool {
	return o.StripePaymentID != "" && o.StripePaymentID != PendingPaymentID
}

// CreateOrderRequest represents the request body for creating an order
// Example: {"customerEmail": "jane@example.com", "sessionId": "6f1c..."}
type CreateOrderRequest struct {
	CustomerEmail string `json:"customerEmail"`
	SessionID     string `json:"sessionId"`
}

// RecordPaymentRequest represents a completed checkout
// Example: {"paymentId": "pi_123", "shippingCountry": "FR", "shippingCity": "Lyon", ...}
type RecordPaymentRequest struct {
	PaymentID string `json:"paymentId"`
	ShippingAddress
}

// UpdateOrderStatusRequest represents the request body for PATCH /admin/orders/{id}
// Example: {"status": "completed"}
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
