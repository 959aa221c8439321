package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/disintegration/imaging"

	"fightcards/compositor"
	"fightcards/models"
)

type orderMap map[string]*models.Order

func (m orderMap) Get(ctx context.Context, id string) (*models.Order, error) {
	if o, ok := m[id]; ok {
		return o, nil
	}
	return nil, models.ErrOrderNotFound
}

func newTestLabels(t *testing.T, cache *ThumbnailCache, card []byte) *LabelService {
	t.Helper()
	fonts, err := compositor.LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts() error = %v", err)
	}
	t.Cleanup(func() { fonts.Close() })

	orders := orderMap{
		"0b7e12ab-1111": {
			ID:              "0b7e12ab-1111",
			Customization:   models.DefaultCustomization("ufc"),
			FinalImageURL:   "https://img.example/card.png",
			StripePaymentID: "pi_1",
			Amount:          1500,
			TotalAmount:     1800,
			Status:          models.OrderStatusProcessing,
			ShippingAddress: models.ShippingAddress{Name: "Jane Doe", AddressLine1: "1 rue de la Paix", City: "Paris", PostalCode: "75002", Country: "FR"},
		},
		"noimage": {ID: "noimage", Customization: models.DefaultCustomization("ufc"), Status: models.OrderStatusPending},
	}
	assets := &fakeAssets{
		images: map[string]image.Image{"https://img.example/card.png": imaging.New(360, 520, color.NRGBA{B: 255, A: 255})},
		raw:    map[string][]byte{"https://img.example/card.png": card},
	}
	return NewLabelService(orders, assets, fonts, cache, "https://cards.example/")
}

func TestLabel(t *testing.T) {
	labels := newTestLabels(t, nil, nil)
	ctx := context.Background()

	for _, id := range []string{"0b7e12ab-1111", "noimage"} {
		data, err := labels.Label(ctx, id)
		if err != nil {
			t.Fatalf("Label(%s) error = %v", id, err)
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode label: %v", err)
		}
		if b := img.Bounds(); b.Dx() != compositor.LabelWidth || b.Dy() != compositor.LabelHeight {
			t.Errorf("Label(%s) = %dx%d, want %dx%d", id, b.Dx(), b.Dy(), compositor.LabelWidth, compositor.LabelHeight)
		}
	}

	if _, err := labels.Label(ctx, "missing"); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("Label(missing) error = %v, want ErrOrderNotFound", err)
	}
	if got := labels.DownloadURL("abc"); got != "https://cards.example/api/orders/abc/download" {
		t.Errorf("DownloadURL() = %q", got)
	}
}

func TestLabelLines(t *testing.T) {
	o := &models.Order{
		Customization: models.DefaultCustomization("ufc"),
		Status:        models.OrderStatusPending,
		Amount:        1500,
	}
	lines := labelLines(o)
	if last := lines[len(lines)-1]; last != "Adresse de livraison non renseignée" {
		t.Errorf("labelLines() without address ends with %q", last)
	}

	o.ShippingAddress = models.ShippingAddress{Name: "Jane", AddressLine1: "1 rue X", City: "Lyon", PostalCode: "69001", Country: "FR"}
	lines = labelLines(o)
	want := []string{"Jane", "1 rue X", "69001 Lyon", "FR"}
	tail := lines[len(lines)-len(want):]
	for i := range want {
		if tail[i] != want[i] {
			t.Errorf("labelLines() address = %q, want %q", tail, want)
			break
		}
	}
	if shortID("0b7e12ab-1111") != "#0B7E12AB" || shortID("abc") != "#ABC" {
		t.Errorf("shortID() = %q, %q", shortID("0b7e12ab-1111"), shortID("abc"))
	}
}

func TestThumbnail(t *testing.T) {
	var card bytes.Buffer
	if err := imaging.Encode(&card, imaging.New(900, 1300, color.NRGBA{R: 255, A: 255}), imaging.PNG); err != nil {
		t.Fatalf("encode card: %v", err)
	}
	cache, err := NewThumbnailCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewThumbnailCache() error = %v", err)
	}
	labels := newTestLabels(t, cache, card.Bytes())
	ctx := context.Background()

	tests := []struct {
		size    string
		wantMax int
	}{
		{"thumb", 300},
		{"medium", 800},
		{"huge", 300},
	}
	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			data, err := labels.Thumbnail(ctx, "0b7e12ab-1111", tt.size)
			if err != nil {
				t.Fatalf("Thumbnail() error = %v", err)
			}
			img, err := jpeg.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("jpeg.Decode() error = %v", err)
			}
			if b := img.Bounds(); b.Dy() != tt.wantMax {
				t.Errorf("Thumbnail(%s) = %dx%d, want height %d", tt.size, b.Dx(), b.Dy(), tt.wantMax)
			}
		})
	}

	if _, ok := cache.Read("0b7e12ab-1111", "thumb"); !ok {
		t.Error("thumbnail was not cached")
	}
	if _, err := labels.Thumbnail(ctx, "noimage", "thumb"); !errors.Is(err, models.ErrNoFinalImage) {
		t.Errorf("Thumbnail(noimage) error = %v, want ErrNoFinalImage", err)
	}
}
