package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fightcards/db"
	"fightcards/models"
)

// OrderRepository handles database operations for orders
// Implements OrderRepositoryInterface
type OrderRepository struct{}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

const orderColumns = `
	id, created_at, customer_email, customization, fighter_photo_url,
	template_preview_url, final_image_url, stripe_payment_id, amount, status,
	shipping_name, shipping_address_line1, shipping_address_line2, shipping_city,
	shipping_postal_code, shipping_country, tax_amount, total_amount
`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var createdAt time.Time
	var customizationJSON []byte
	var previewURL, finalURL sql.NullString
	var shipName, shipLine1, shipLine2, shipCity, shipPostal, shipCountry sql.NullString
	var taxAmount, totalAmount sql.NullInt64
	var status string

	err := row.Scan(
		&o.ID, &createdAt, &o.CustomerEmail, &customizationJSON, &o.FighterPhotoURL,
		&previewURL, &finalURL, &o.StripePaymentID, &o.Amount, &status,
		&shipName, &shipLine1, &shipLine2, &shipCity,
		&shipPostal, &shipCountry, &taxAmount, &totalAmount,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customizationJSON, &o.Customization); err != nil {
		return nil, fmt.Errorf("failed to decode customization for order %s: %w", o.ID, err)
	}

	o.CreatedAt = createdAt.Format(time.RFC3339)
	o.Status = models.OrderStatus(status)
	o.TemplatePreviewURL = previewURL.String
	o.FinalImageURL = finalURL.String
	o.ShippingAddress = models.ShippingAddress{
		Name:         shipName.String,
		AddressLine1: shipLine1.String,
		AddressLine2: shipLine2.String,
		City:         shipCity.String,
		PostalCode:   shipPostal.String,
		Country:      shipCountry.String,
	}
	o.TaxAmount = taxAmount.Int64
	o.TotalAmount = totalAmount.Int64
	return &o, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Insert inserts a new order. ID and CreatedAt must already be set.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	log.Printf("💾 OrderRepository.Insert: id=%s template=%s", order.ID, order.Customization.TemplateID)

	customizationJSON, err := json.Marshal(order.Customization)
	if err != nil {
		return fmt.Errorf("failed to encode customization: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, created_at, customer_email, customization, fighter_photo_url,
			template_preview_url, final_image_url, stripe_payment_id, amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	createdAt, err := time.Parse(time.RFC3339, order.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
		order.CreatedAt = createdAt.Format(time.RFC3339)
	}

	_, err = db.DB.ExecContext(ctx, query,
		order.ID,
		createdAt,
		order.CustomerEmail,
		customizationJSON,
		order.FighterPhotoURL,
		nullString(order.TemplatePreviewURL),
		nullString(order.FinalImageURL),
		order.StripePaymentID,
		order.Amount,
		string(order.Status),
	)
	if err != nil {
		log.Printf("❌ OrderRepository.Insert: %v", err)
		return fmt.Errorf("failed to insert order: %w", err)
	}

	log.Printf("✓ Order inserted: id=%s", order.ID)
	return nil
}

// GetByID returns one order
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	log.Printf("🔍 OrderRepository.GetByID: id=%s", id)

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
		}
		log.Printf("❌ OrderRepository.GetByID: %v", err)
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return order, nil
}

// List returns orders newest first, optionally filtered by status
func (r *OrderRepository) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	log.Printf("🔍 OrderRepository.List: status=%q", status)

	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ OrderRepository.List: %v", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			log.Printf("❌ OrderRepository.List: error scanning order: %v", err)
			continue
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	log.Printf("✓ OrderRepository.List: %d orders", len(orders))
	return orders, nil
}

// UpdateStatus sets the fulfillment status of an order
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	log.Printf("💾 OrderRepository.UpdateStatus: id=%s status=%s", id, status)

	result, err := db.DB.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	return nil
}

// AttachFinalImage stores the exported card and the customization it was rendered from.
// Both values are written in one transaction.
func (r *OrderRepository) AttachFinalImage(ctx context.Context, id string, finalImageURL string, customization models.Customization) error {
	log.Printf("💾 OrderRepository.AttachFinalImage: id=%s", id)

	customizationJSON, err := json.Marshal(customization)
	if err != nil {
		return fmt.Errorf("failed to encode customization: %w", err)
	}

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}

	query := `
		UPDATE orders
		SET final_image_url = $1, template_preview_url = $1, customization = $2, fighter_photo_url = $3
		WHERE id = $4
	`
	if _, err := tx.ExecContext(ctx, query, finalImageURL, customizationJSON, customization.Photo, id); err != nil {
		return fmt.Errorf("failed to attach final image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ Final image attached to order %s", id)
	return nil
}

// RecordPayment stores a completed checkout: payment reference, shipping address and amounts
func (r *OrderRepository) RecordPayment(ctx context.Context, id string, paymentID string, shipping models.ShippingAddress, quote models.PriceQuote) (*models.Order, error) {
	log.Printf("💾 OrderRepository.RecordPayment: id=%s", id)

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE orders SET
			stripe_payment_id = $1,
			shipping_name = $2, shipping_address_line1 = $3, shipping_address_line2 = $4,
			shipping_city = $5, shipping_postal_code = $6, shipping_country = $7,
			tax_amount = $8, total_amount = $9
		WHERE id = $10
	`
	result, err := tx.ExecContext(ctx, query,
		paymentID,
		shipping.Name, shipping.AddressLine1, shipping.AddressLine2,
		shipping.City, shipping.PostalCode, shipping.Country,
		quote.TaxAmount, quote.Total,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}

	order, err := scanOrder(tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return order, nil
}
