package compositor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"github.com/disintegration/imaging"

	"fightcards/models"
)

func testTemplate() *models.Template {
	return &models.Template{
		ID:                 "ufc",
		Name:               "UFC Style",
		Category:           models.CategoryMMA,
		BackgroundImageURL: "/dark.png",
		AccentColor:        "#10B981",
		Positions: models.Positions{
			Photo:    models.Box{X: 45, Y: 36, Width: 280, Height: 305},
			Username: models.TextPos{X: 180, Y: 35, FontSize: 16},
			Rating:   models.TextPos{X: 15, Y: 75, FontSize: 32},
			Sport:    models.TextPos{X: 33, Y: 105, FontSize: 14},
			Name:     models.TextPos{X: 180, Y: 350, FontSize: 28},
			Flag:     models.Box{X: 33, Y: 135, Width: 40, Height: 30},
			Stats: models.StatsLayout{
				X: 180, Y: 390, FontSize: 18, LabelFontSize: 13, RowSpacing: 28, ColumnWidth: 120,
			},
		},
	}
}

func solid(w, h int, c color.NRGBA) image.Image {
	return imaging.New(w, h, c)
}

var (
	blue  = color.NRGBA{B: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func testAssets() Assets {
	return Assets{
		Background: solid(720, 1040, blue),
		Photo:      solid(400, 600, green),
		Flag:       solid(320, 240, red),
	}
}

func newTestCompositor(t *testing.T, scale float64) *Compositor {
	t.Helper()
	fonts, err := LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts() error = %v", err)
	}
	t.Cleanup(func() { fonts.Close() })
	return New(fonts, Options{Scale: scale, StatStyle: StatStyleBars})
}

func testCustomization() models.Customization {
	c := models.DefaultCustomization("ufc")
	c.Name = "JON JONES"
	c.Rating = 97
	return c
}

func TestComposeLayers(t *testing.T) {
	c := newTestCompositor(t, 1)
	img, err := c.Compose(testTemplate(), testCustomization(), testAssets())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 360 || b.Dy() != 520 {
		t.Fatalf("Compose() size = %dx%d, want 360x520", b.Dx(), b.Dy())
	}

	tests := []struct {
		name  string
		x, y  int
		check func(c color.RGBA) bool
	}{
		{"corner is transparent", 2, 2, func(c color.RGBA) bool { return c.A == 0 }},
		{"opposite corner is transparent", 357, 517, func(c color.RGBA) bool { return c.A == 0 }},
		{"photo fills its box", 250, 250, func(c color.RGBA) bool { return c.G > 200 && c.R < 50 && c.A == 255 }},
		{"background shows outside the photo", 340, 200, func(c color.RGBA) bool { return c.B > 200 && c.G < 50 && c.A == 255 }},
		{"flag sits in its box", 53, 150, func(c color.RGBA) bool { return c.R > 200 && c.G < 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px := img.RGBAAt(tt.x, tt.y)
			if !tt.check(px) {
				t.Errorf("pixel (%d, %d) = %+v", tt.x, tt.y, px)
			}
		})
	}
}

func TestComposeWithoutFlag(t *testing.T) {
	c := newTestCompositor(t, 1)
	assets := testAssets()
	assets.Flag = nil
	img, err := c.Compose(testTemplate(), testCustomization(), assets)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	// The photo shows through where the flag would be
	if px := img.RGBAAt(53, 150); px.R > 100 {
		t.Errorf("pixel under missing flag = %+v, want no red", px)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := newTestCompositor(t, 1)
	first, err := c.Render(testTemplate(), testCustomization(), testAssets(), FormatPNG, 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := c.Render(testTemplate(), testCustomization(), testAssets(), FormatPNG, 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Render() produced different bytes for the same input")
	}
}

func TestComposeStatStylesDiffer(t *testing.T) {
	fonts, err := LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts() error = %v", err)
	}
	defer fonts.Close()

	bars, err := New(fonts, Options{Scale: 1, StatStyle: StatStyleBars}).Render(testTemplate(), testCustomization(), testAssets(), FormatPNG, 0)
	if err != nil {
		t.Fatalf("Render(bars) error = %v", err)
	}
	numeric, err := New(fonts, Options{Scale: 1, StatStyle: StatStyleNumeric}).Render(testTemplate(), testCustomization(), testAssets(), FormatPNG, 0)
	if err != nil {
		t.Fatalf("Render(numeric) error = %v", err)
	}
	if bytes.Equal(bars, numeric) {
		t.Error("bars and numeric stat styles rendered identically")
	}
}

func TestComposeErrors(t *testing.T) {
	c := newTestCompositor(t, 1)

	noPhoto := testAssets()
	noPhoto.Photo = nil
	if _, err := c.Compose(testTemplate(), testCustomization(), noPhoto); !errors.Is(err, models.ErrAssetDecode) {
		t.Errorf("Compose(no photo) error = %v, want ErrAssetDecode", err)
	}

	noBackground := testAssets()
	noBackground.Background = nil
	if _, err := c.Compose(testTemplate(), testCustomization(), noBackground); !errors.Is(err, models.ErrAssetDecode) {
		t.Errorf("Compose(no background) error = %v, want ErrAssetDecode", err)
	}

	broken := testTemplate()
	broken.Positions.Stats.ColumnWidth = 0
	if _, err := c.Compose(broken, testCustomization(), testAssets()); !errors.Is(err, models.ErrInvalidTemplate) {
		t.Errorf("Compose(broken template) error = %v, want ErrInvalidTemplate", err)
	}
}

// inkBox returns the extent of near-white pixels inside r
func inkBox(img *image.RGBA, r image.Rectangle) (image.Rectangle, bool) {
	var box image.Rectangle
	found := false
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 250 || c.G < 250 || c.B < 250 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box, found = px, true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box, found
}

// inkBands counts runs of consecutive rows in r that hold near-white pixels
func inkBands(img *image.RGBA, r image.Rectangle) int {
	bands := 0
	inBand := false
	for y := r.Min.Y; y < r.Max.Y; y++ {
		_, hit := inkBox(img, image.Rect(r.Min.X, y, r.Max.X, y+1))
		if hit && !inBand {
			bands++
		}
		inBand = hit
	}
	return bands
}

func TestComposeHDCard(t *testing.T) {
	if testing.Short() {
		t.Skip("HD render is slow")
	}
	c := newTestCompositor(t, 4.5)
	if w, h := c.Size(); w != 1620 || h != 2340 {
		t.Fatalf("Size() = %dx%d, want 1620x2340", w, h)
	}

	// Dark layers so that only white text reaches full brightness
	dark := color.NRGBA{A: 255}
	assets := Assets{Background: solid(720, 1040, dark), Photo: solid(400, 600, dark)}
	cust := testCustomization()
	cust.Rating = 85
	cust.Sport = ""

	img, err := c.Compose(testTemplate(), cust, assets)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1620 || b.Dy() != 2340 {
		t.Fatalf("Compose() size = %dx%d, want 1620x2340", b.Dx(), b.Dy())
	}

	center := func(r image.Rectangle) float64 { return float64(r.Min.X+r.Max.X) / 2 }
	const tolerance = 12.0

	// Rating: top-center anchor at (50, 75) preview units
	rating, ok := inkBox(img, image.Rect(0, 300, 540, 600))
	if !ok {
		t.Fatal("no rating ink found")
	}
	if got := center(rating); math.Abs(got-225) > tolerance {
		t.Errorf("rating ink center x = %v, want about 225", got)
	}
	if rating.Min.Y < 337 {
		t.Errorf("rating ink starts at y=%d, above its anchor at 337", rating.Min.Y)
	}

	// Name: centered on the card at y=350
	name, ok := inkBox(img, image.Rect(0, 1485, 1620, 1674))
	if !ok {
		t.Fatal("no name ink found")
	}
	if got := center(name); math.Abs(got-810) > tolerance {
		t.Errorf("name ink center x = %v, want about 810", got)
	}

	// Stats: three value rows in each column
	statsTop, statsBottom := 1692, 2340
	if n := inkBands(img, image.Rect(252, statsTop, 792, statsBottom)); n != 3 {
		t.Errorf("left column has %d value rows, want 3", n)
	}
	if n := inkBands(img, image.Rect(828, statsTop, 1368, statsBottom)); n != 3 {
		t.Errorf("right column has %d value rows, want 3", n)
	}

	// Encoded output decodes back at full size
	encoded, err := Encode(img, FormatPNG, 0)
	if err != nil {
		t.Fatalf("Encode(png) error = %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 1620 || b.Dy() != 2340 {
		t.Errorf("decoded PNG = %dx%d, want 1620x2340", b.Dx(), b.Dy())
	}
	if _, _, _, a := decoded.At(5, 5).RGBA(); a != 0 {
		t.Errorf("decoded PNG corner alpha = %d, want 0", a)
	}
	if got, want := color.RGBAModel.Convert(decoded.At(810, 1170)), img.At(810, 1170); got != want {
		t.Errorf("decoded PNG center = %v, want %v", got, want)
	}

	encoded, err = Encode(img, FormatJPEG, 92)
	if err != nil {
		t.Fatalf("Encode(jpeg) error = %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("jpeg.DecodeConfig() error = %v", err)
	}
	if cfg.Width != 1620 || cfg.Height != 2340 {
		t.Errorf("decoded JPEG = %dx%d, want 1620x2340", cfg.Width, cfg.Height)
	}
}

func TestEncode(t *testing.T) {
	c := newTestCompositor(t, 1)
	img, err := c.Compose(testTemplate(), testCustomization(), testAssets())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	pngBytes, err := Encode(img, FormatPNG, 0)
	if err != nil {
		t.Fatalf("Encode(png) error = %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if _, _, _, a := decoded.At(2, 2).RGBA(); a != 0 {
		t.Errorf("PNG corner alpha = %d, want 0", a)
	}

	jpegBytes, err := Encode(img, FormatJPEG, 90)
	if err != nil {
		t.Fatalf("Encode(jpeg) error = %v", err)
	}
	decoded, err = jpeg.Decode(bytes.NewReader(jpegBytes))
	if err != nil {
		t.Fatalf("jpeg.Decode() error = %v", err)
	}
	// Transparent corners are flattened onto white
	r, g, b, _ := decoded.At(2, 2).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("JPEG corner = (%d, %d, %d), want white", r>>8, g>>8, b>>8)
	}

	if _, err := Encode(img, Format("tiff"), 0); err == nil {
		t.Error("Encode(tiff) error = nil, want error")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		want     Format
		wantExt  string
		wantMime string
		wantErr  bool
	}{
		{"", FormatPNG, "png", "image/png", false},
		{"png", FormatPNG, "png", "image/png", false},
		{"jpg", FormatJPEG, "jpg", "image/jpeg", false},
		{"jpeg", FormatJPEG, "jpg", "image/jpeg", false},
		{"gif", "", "", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got != tt.want || got.Ext() != tt.wantExt || got.ContentType() != tt.wantMime {
			t.Errorf("ParseFormat(%q) = %q (%s, %s), want %q (%s, %s)", tt.in, got, got.Ext(), got.ContentType(), tt.want, tt.wantExt, tt.wantMime)
		}
	}
}

func TestParseStatStyle(t *testing.T) {
	for in, want := range map[string]StatStyle{"": StatStyleBars, "bars": StatStyleBars, "numeric": StatStyleNumeric} {
		got, err := ParseStatStyle(in)
		if err != nil || got != want {
			t.Errorf("ParseStatStyle(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseStatStyle("dots"); err == nil {
		t.Error("ParseStatStyle(dots) error = nil, want error")
	}
}
