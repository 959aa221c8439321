package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fightcards/models"
	"fightcards/utils"
)

func TestPixianRemoveBackground(t *testing.T) {
	photo := pngBytes(t, 4, 4)
	cutout := pngBytes(t, 4, 4)

	tests := []struct {
		name     string
		final    bool
		wantTest string
	}{
		{"preview", false, "true"},
		{"final", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				user, pass, ok := r.BasicAuth()
				if !ok || user != "id" || pass != "secret" {
					t.Errorf("basic auth = %q/%q, want id/secret", user, pass)
				}
				file, header, err := r.FormFile("image")
				if err != nil {
					t.Errorf("FormFile() error = %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				defer file.Close()
				body, _ := io.ReadAll(file)
				if len(body) != len(photo) || header.Filename != "photo.png" {
					t.Errorf("uploaded %s (%d bytes), want photo.png (%d bytes)", header.Filename, len(body), len(photo))
				}
				if got := r.FormValue("test"); got != tt.wantTest {
					t.Errorf("test field = %q, want %q", got, tt.wantTest)
				}
				w.Header().Set("Content-Type", "image/png")
				w.Write(cutout)
			}))
			defer srv.Close()

			p := NewPixianClient(srv.Client(), srv.URL, "id", "secret")
			got, err := p.RemoveBackground(context.Background(), utils.EncodeDataURL("image/png", photo), tt.final)
			if err != nil {
				t.Fatalf("RemoveBackground() error = %v", err)
			}
			if got != utils.EncodeDataURL("image/png", cutout) {
				t.Errorf("RemoveBackground() = %.40q…, want the cutout as a PNG data URL", got)
			}
		})
	}
}

func TestPixianErrors(t *testing.T) {
	photo := utils.EncodeDataURL("image/png", pngBytes(t, 4, 4))

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error message", http.StatusPaymentRequired, `{"error":{"message":"Insufficient credits"}}`, "Insufficient credits"},
		{"opaque failure", http.StatusInternalServerError, `oops`, "Failed to remove background"},
		{"not an image", http.StatusOK, `{"ok":true}`, "unexpected response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			p := NewPixianClient(srv.Client(), srv.URL, "id", "secret")
			_, err := p.RemoveBackground(context.Background(), photo, false)
			if !errors.Is(err, models.ErrBackgroundRemoval) {
				t.Fatalf("RemoveBackground() error = %v, want ErrBackgroundRemoval", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("RemoveBackground() error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}

	t.Run("missing credentials", func(t *testing.T) {
		p := NewPixianClient(nil, "http://127.0.0.1:0", "", "")
		if _, err := p.RemoveBackground(context.Background(), photo, false); !errors.Is(err, models.ErrBackgroundRemoval) {
			t.Errorf("RemoveBackground() error = %v, want ErrBackgroundRemoval", err)
		}
	})

	t.Run("invalid photo", func(t *testing.T) {
		p := NewPixianClient(nil, "http://127.0.0.1:0", "id", "secret")
		if _, err := p.RemoveBackground(context.Background(), "data:image/png;base64,aGVsbG8=", false); !errors.Is(err, models.ErrInvalidImage) {
			t.Errorf("RemoveBackground() error = %v, want ErrInvalidImage", err)
		}
	})
}
