package controller

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"fightcards/models"
	"fightcards/service"
)

// LabelRenderer renders admin artifacts for an order
type LabelRenderer interface {
	Label(ctx context.Context, orderID string) ([]byte, error)
	Thumbnail(ctx context.Context, orderID, size string) ([]byte, error)
}

// OrderController handles HTTP requests for orders
type OrderController struct {
	orders service.OrderServiceInterface
	labels LabelRenderer
}

// NewOrderController creates a new OrderController
func NewOrderController(orders service.OrderServiceInterface, labels LabelRenderer) *OrderController {
	return &OrderController{orders: orders, labels: labels}
}

// orderID extracts {id} from a path under prefix
func orderID(r *http.Request, prefix string) string {
	parts := pathParts(r.URL.Path, prefix)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// CreateOrder handles POST /api/orders
// Example request: {"customerEmail": "jane@example.com", "sessionId": "6f1c..."}
// Example response: {"id": "0b7e...", "status": "pending", "amount": 1500, ...}
func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateOrder: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "CreateOrder", http.MethodPost) {
		return
	}

	var req models.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ CreateOrder: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	order, err := c.orders.Create(r.Context(), req)
	if err != nil {
		writeError(w, "CreateOrder", "create order", err)
		return
	}

	log.Printf("✅ CreateOrder: Successfully created order id=%s", order.ID)
	writeJSON(w, "CreateOrder", http.StatusCreated, order)
}

// RecordPayment handles POST /api/orders/{id}/payment
// Example request: {"paymentId": "pi_123", "shippingName": "Jane Doe", "shippingCountry": "FR", ...}
func (c *OrderController) RecordPayment(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 RecordPayment: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "RecordPayment", http.MethodPost) {
		return
	}

	var req models.RecordPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ RecordPayment: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	order, err := c.orders.RecordPayment(r.Context(), orderID(r, "/api/orders/"), req)
	if err != nil {
		writeError(w, "RecordPayment", "record payment", err)
		return
	}
	writeJSON(w, "RecordPayment", http.StatusOK, order)
}

// Download handles GET /api/orders/{id}/download
func (c *OrderController) Download(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Download: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "Download", http.MethodGet) {
		return
	}

	dl, err := c.orders.Download(r.Context(), orderID(r, "/api/orders/"))
	if err != nil {
		writeError(w, "Download", "download card", err)
		return
	}

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, dl.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(dl.Data)
}

// ListOrders handles GET /admin/orders?filter=all|pending|completed|delivered
func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListOrders: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "ListOrders", http.MethodGet) {
		return
	}

	orders, err := c.orders.List(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, "ListOrders", "list orders", err)
		return
	}

	log.Printf("✅ ListOrders: Returning %d orders", len(orders))
	writeJSON(w, "ListOrders", http.StatusOK, orders)
}

// GetOrder handles GET /admin/orders/{id}
func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetOrder: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "GetOrder", http.MethodGet) {
		return
	}

	order, err := c.orders.Get(r.Context(), orderID(r, "/admin/orders/"))
	if err != nil {
		writeError(w, "GetOrder", "get order", err)
		return
	}
	writeJSON(w, "GetOrder", http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /admin/orders/{id}
// Example request: {"status": "completed"}
func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateOrderStatus: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "UpdateOrderStatus", http.MethodPatch) {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("❌ UpdateOrderStatus: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), orderID(r, "/admin/orders/"), req.Status)
	if err != nil {
		writeError(w, "UpdateOrderStatus", "update order status", err)
		return
	}
	writeJSON(w, "UpdateOrderStatus", http.StatusOK, order)
}

// GetLabel handles GET /admin/orders/{id}/label
func (c *OrderController) GetLabel(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetLabel: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "GetLabel", http.MethodGet) {
		return
	}

	png, err := c.labels.Label(r.Context(), orderID(r, "/admin/orders/"))
	if err != nil {
		writeError(w, "GetLabel", "render label", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GetThumbnail handles GET /admin/orders/{id}/thumbnail?size=thumb|medium
func (c *OrderController) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetThumbnail: Received %s request to %s", r.Method, r.URL.Path)
	if !methodAllowed(w, r, "GetThumbnail", http.MethodGet) {
		return
	}

	size := r.URL.Query().Get("size")
	if size == "" {
		size = "thumb"
	}
	data, err := c.labels.Thumbnail(r.Context(), orderID(r, "/admin/orders/"), size)
	if err != nil {
		writeError(w, "GetThumbnail", "load thumbnail", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
