package compositor

import (
	"testing"
)

func TestFitBackgroundExactSize(t *testing.T) {
	sizes := [][2]int{{720, 1040}, {1000, 1000}, {300, 900}, {1920, 1080}, {361, 521}}
	for _, s := range sizes {
		got := FitBackground(solid(s[0], s[1], blue), 360, 520)
		if b := got.Bounds(); b.Dx() != 360 || b.Dy() != 520 {
			t.Errorf("FitBackground(%dx%d) = %dx%d, want 360x520", s[0], s[1], b.Dx(), b.Dy())
		}
	}
}

func TestCropPhoto(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1000, 500, 500, 500},
		{500, 1000, 500, 500},
		{560, 610, 560, 610},
	}
	for _, tt := range tests {
		got := CropPhoto(solid(tt.w, tt.h, green), 280, 280*float64(tt.wantH)/float64(tt.wantW))
		if b := got.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("CropPhoto(%dx%d) = %dx%d, want %dx%d", tt.w, tt.h, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}
