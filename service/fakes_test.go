package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"

	"fightcards/compositor"
	"fightcards/models"
)

// pngBytes encodes a solid w×h PNG
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, color.NRGBA{G: 255, A: 255})); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// fakeTemplates resolves the built-in templates
type fakeTemplates struct{}

func (fakeTemplates) Get(ctx context.Context, id string) (*models.Template, error) {
	for _, tpl := range BuiltinTemplates() {
		if tpl.ID == id {
			return &tpl, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrTemplateNotFound, id)
}

// fakeAssets serves solid images and raw bytes by URL
type fakeAssets struct {
	images map[string]image.Image
	raw    map[string][]byte
}

func (f *fakeAssets) Load(ctx context.Context, url string) (image.Image, error) {
	if strings.HasPrefix(url, "data:") {
		return imaging.New(10, 10, color.NRGBA{A: 255}), nil
	}
	if img, ok := f.images[url]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrAssetLoad, url)
}

func (f *fakeAssets) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := f.raw[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrAssetLoad, url)
}

// fakeRenderer returns fixed bytes and records what it rendered
type fakeRenderer struct {
	out   []byte
	err   error
	calls int
	last  compositor.Assets
}

func (f *fakeRenderer) Render(tpl *models.Template, cust models.Customization, assets compositor.Assets, format compositor.Format, jpegQuality int) ([]byte, error) {
	f.calls++
	f.last = assets
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type upload struct {
	name        string
	contentType string
	size        int
}

// fakeHost records uploads and hands back predictable URLs
type fakeHost struct {
	mu      sync.Mutex
	uploads []upload
	err     error
}

func (f *fakeHost) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, upload{name: name, contentType: contentType, size: len(data)})
	return "https://img.example/" + name, nil
}

// fakeAttacher records the last attached order
type fakeAttacher struct {
	orderID  string
	finalURL string
	cust     models.Customization
	err      error
}

func (f *fakeAttacher) AttachFinalImage(ctx context.Context, orderID, finalImageURL string, cust models.Customization) error {
	if f.err != nil {
		return f.err
	}
	f.orderID, f.finalURL, f.cust = orderID, finalImageURL, cust
	return nil
}

// fakeRemover returns a fixed cutout and records its inputs
type fakeRemover struct {
	cutout  string
	err     error
	sources []string
	final   []bool
}

func (f *fakeRemover) RemoveBackground(ctx context.Context, photo string, final bool) (string, error) {
	f.sources = append(f.sources, photo)
	f.final = append(f.final, final)
	if f.err != nil {
		return "", f.err
	}
	return f.cutout, nil
}

// fakeOrderRepo keeps orders in memory
type fakeOrderRepo struct {
	orders     map[string]*models.Order
	listStatus models.OrderStatus
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Insert(ctx context.Context, order *models.Order) error {
	if _, ok := r.orders[order.ID]; ok {
		return errors.New("duplicate id")
	}
	o := *order
	r.orders[order.ID] = &o
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	out := *o
	return &out, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	r.listStatus = status
	var out []models.Order
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) AttachFinalImage(ctx context.Context, id, finalImageURL string, cust models.Customization) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	o.FinalImageURL = finalImageURL
	o.Customization = cust
	o.FighterPhotoURL = cust.Photo
	return nil
}

func (r *fakeOrderRepo) RecordPayment(ctx context.Context, id, paymentID string, shipping models.ShippingAddress, quote models.PriceQuote) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, id)
	}
	o.StripePaymentID = paymentID
	o.ShippingAddress = shipping
	o.TaxAmount = quote.TaxAmount
	o.TotalAmount = quote.Total
	o.Status = models.OrderStatusProcessing
	out := *o
	return &out, nil
}

// fakeQuoter charges a flat price for a single allowed country
type fakeQuoter struct {
	country string
}

func (fakeQuoter) Currency() string { return "EUR" }
func (fakeQuoter) UnitPrice() int64 { return 1500 }

func (q *fakeQuoter) Quote(country string) (models.PriceQuote, error) {
	q.country = country
	if country != "FR" {
		return models.PriceQuote{}, fmt.Errorf("%w: %q", models.ErrShippingCountry, country)
	}
	return models.PriceQuote{Currency: "EUR", Amount: 1500, TaxAmount: 300, Total: 1800, Country: country}, nil
}
