package models

import (
	"errors"
	"testing"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNormalizeCustomizationDefaults(t *testing.T) {
	got, err := NormalizeCustomization(CustomizationInput{TemplateID: ptr("ufc")})
	if err != nil {
		t.Fatalf("NormalizeCustomization() error = %v", err)
	}
	want := DefaultCustomization("ufc")
	if got != want {
		t.Errorf("NormalizeCustomization() = %+v, want %+v", got, want)
	}
}

func TestNormalizeCustomization(t *testing.T) {
	tests := []struct {
		name    string
		in      CustomizationInput
		check   func(t *testing.T, c Customization)
		wantErr error
	}{
		{
			name:    "template id is required",
			in:      CustomizationInput{Name: ptr("x")},
			wantErr: ErrInvalidCustomization,
		},
		{
			name:    "blank template id is rejected",
			in:      CustomizationInput{TemplateID: ptr("  ")},
			wantErr: ErrInvalidCustomization,
		},
		{
			name:    "unsafe photo is rejected",
			in:      CustomizationInput{TemplateID: ptr("ufc"), Photo: ptr("javascript:alert(1)")},
			wantErr: ErrInvalidCustomization,
		},
		{
			name:    "photo on a foreign host is rejected",
			in:      CustomizationInput{TemplateID: ptr("ufc"), Photo: ptr("http://169.254.169.254/latest/meta-data/x.png")},
			wantErr: ErrInvalidCustomization,
		},
		{
			name:    "protocol-relative photo is rejected",
			in:      CustomizationInput{TemplateID: ptr("ufc"), Photo: ptr("//evil.example/images/x.png")},
			wantErr: ErrInvalidCustomization,
		},
		{
			name:    "root-relative photo outside the image directory is rejected",
			in:      CustomizationInput{TemplateID: ptr("ufc"), Photo: ptr("/octotun.png")},
			wantErr: ErrInvalidCustomization,
		},
		{
			name: "name is cleaned and uppercased",
			in:   CustomizationInput{TemplateID: ptr("ufc"), Name: ptr("  jon <i>bones</i> jones ")},
			check: func(t *testing.T, c Customization) {
				if c.Name != "JON IBONESI JONES " {
					t.Errorf("Name = %q, want %q", c.Name, "JON IBONESI JONES ")
				}
			},
		},
		{
			name: "empty name keeps the placeholder",
			in:   CustomizationInput{TemplateID: ptr("ufc"), Name: ptr("<>")},
			check: func(t *testing.T, c Customization) {
				if c.Name != DefaultName {
					t.Errorf("Name = %q, want %q", c.Name, DefaultName)
				}
			},
		},
		{
			name: "rating and stats are clamped",
			in: CustomizationInput{
				TemplateID: ptr("ufc"),
				Rating:     ptr(150.0),
				Stats:      &StatsInput{Force: ptr(-4.0), Striking: ptr(99.9)},
			},
			check: func(t *testing.T, c Customization) {
				if c.Rating != 100 {
					t.Errorf("Rating = %d, want 100", c.Rating)
				}
				if c.Stats.Force != 0 || c.Stats.Striking != 99 {
					t.Errorf("Stats = %+v, want force=0 striking=99", c.Stats)
				}
				if c.Stats.Rapidite != 85 {
					t.Errorf("Rapidite = %d, want the default 85", c.Stats.Rapidite)
				}
			},
		},
		{
			name: "country code wins over flag url",
			in: CustomizationInput{
				TemplateID:  ptr("ufc"),
				CountryCode: ptr("BR"),
				FlagURL:     ptr("https://flagcdn.com/w320/fr.png"),
			},
			check: func(t *testing.T, c Customization) {
				if c.FlagURL != "https://flagcdn.com/w320/br.png" {
					t.Errorf("FlagURL = %q, want the br flag", c.FlagURL)
				}
			},
		},
		{
			name: "unknown country drops the flag",
			in:   CustomizationInput{TemplateID: ptr("ufc"), CountryCode: ptr("zz")},
			check: func(t *testing.T, c Customization) {
				if c.FlagURL != "" {
					t.Errorf("FlagURL = %q, want empty", c.FlagURL)
				}
			},
		},
		{
			name: "foreign flag url is dropped",
			in:   CustomizationInput{TemplateID: ptr("ufc"), FlagURL: ptr("https://evil.example/fr.png")},
			check: func(t *testing.T, c Customization) {
				if c.FlagURL != "" {
					t.Errorf("FlagURL = %q, want empty", c.FlagURL)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCustomization(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NormalizeCustomization() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeCustomization() error = %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestNormalizeCustomizationPhotoSources(t *testing.T) {
	SetPhotoOrigins("https://cards.example/images/")
	t.Cleanup(func() { SetPhotoOrigins() })

	tests := []struct {
		photo string
		ok    bool
	}{
		{"data:image/png;base64,aGVsbG8=", true},
		{"/images/card-1.png", true},
		{"https://drive.google.com/uc?id=abc123", true},
		{"https://cards.example/images/card-1.png", true},
		{"https://cards.example/admin/orders", false},
		{"https://cards.example.evil.net/images/x.png", false},
		{"http://localhost:5432/", false},
		{"data:text/html;base64,PHNjcmlwdD4=", false},
	}
	for _, tt := range tests {
		got, err := NormalizeCustomization(CustomizationInput{TemplateID: ptr("ufc"), Photo: ptr(tt.photo)})
		if tt.ok {
			if err != nil || got.Photo != tt.photo {
				t.Errorf("NormalizeCustomization(photo=%q) = %q, %v, want it kept", tt.photo, got.Photo, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidCustomization) {
			t.Errorf("NormalizeCustomization(photo=%q) error = %v, want ErrInvalidCustomization", tt.photo, err)
		}
	}
}

func TestNormalizeCustomizationIdempotent(t *testing.T) {
	first, err := NormalizeCustomization(CustomizationInput{
		TemplateID:  ptr("boxing"),
		Name:        ptr("canelo álvarez"),
		Sport:       ptr("boxe"),
		Rating:      ptr(93.6),
		CountryCode: ptr("mx"),
		Stats:       &StatsInput{Force: ptr(91.0)},
	})
	if err != nil {
		t.Fatalf("NormalizeCustomization() error = %v", err)
	}
	second, err := NormalizeCustomization(first.Input())
	if err != nil {
		t.Fatalf("NormalizeCustomization(Input()) error = %v", err)
	}
	if first != second {
		t.Errorf("normalizing twice = %+v, want %+v", second, first)
	}
}

func TestMergeCustomization(t *testing.T) {
	base, err := NormalizeCustomization(CustomizationInput{
		TemplateID:  ptr("ufc"),
		Name:        ptr("jon jones"),
		CountryCode: ptr("us"),
	})
	if err != nil {
		t.Fatalf("NormalizeCustomization() error = %v", err)
	}

	merged, err := MergeCustomization(base, CustomizationInput{
		Rating: ptr(97.0),
		Stats:  &StatsInput{Grappling: ptr(99.0)},
	})
	if err != nil {
		t.Fatalf("MergeCustomization() error = %v", err)
	}
	if merged.Name != "JON JONES" || merged.FlagURL != base.FlagURL {
		t.Errorf("MergeCustomization() lost untouched fields: %+v", merged)
	}
	if merged.Rating != 97 || merged.Stats.Grappling != 99 || merged.Stats.Force != base.Stats.Force {
		t.Errorf("MergeCustomization() = %+v, want rating=97 grappling=99", merged)
	}

	cleared, err := MergeCustomization(merged, CustomizationInput{CountryCode: ptr("")})
	if err != nil {
		t.Fatalf("MergeCustomization() error = %v", err)
	}
	if cleared.FlagURL != merged.FlagURL {
		t.Errorf("empty country code changed the flag to %q", cleared.FlagURL)
	}

	noFlag, err := MergeCustomization(merged, CustomizationInput{FlagURL: ptr("")})
	if err != nil {
		t.Fatalf("MergeCustomization() error = %v", err)
	}
	if noFlag.FlagURL != "" {
		t.Errorf("FlagURL = %q, want cleared", noFlag.FlagURL)
	}
}
