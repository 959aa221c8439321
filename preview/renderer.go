// Package preview renders the live card preview as a layered HTML document.
//
// The preview shares its geometry with the HD export through package layout and its
// colors through utils.HexToRGBA, so both renderers agree on where everything goes.
// Images are inlined as data URIs. A remote image that cannot be loaded is left out
// of the document; it never fails the render.
package preview

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"image"
	"log"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"fightcards/compositor"
	"fightcards/layout"
	"fightcards/models"
	"fightcards/utils"
)

//go:embed templates/card.html
var templateFS embed.FS

// pixelRatio is the density of inlined raster layers relative to preview units
const pixelRatio = 2

// ImageSource fetches and decodes images by URL
type ImageSource interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// Renderer builds preview documents
type Renderer struct {
	images    ImageSource
	statStyle compositor.StatStyle
	tmpl      *template.Template
}

// NewRenderer parses the card template
func NewRenderer(images ImageSource, statStyle compositor.StatStyle) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/card.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if statStyle == "" {
		statStyle = compositor.StatStyleBars
	}
	return &Renderer{images: images, statStyle: statStyle, tmpl: tmpl}, nil
}

type statView struct {
	Key        string
	Label      string
	Value      int
	LabelStyle template.CSS
	ValueStyle template.CSS
	TrackStyle template.CSS
	FillStyle  template.CSS
}

type cardView struct {
	TemplateID     string
	TemplateName   string
	Width          int
	Height         int
	ClipPath       template.CSS
	BorderPoints   string
	BackgroundURI  template.URL
	PhotoURI       template.URL
	PhotoStyle     template.CSS
	Rating         int
	RatingStyle    template.CSS
	Sport          string
	SportStyle     template.CSS
	FlagURI        template.URL
	FlagStyle      template.CSS
	FooterStyle    template.CSS
	Name           string
	NameStyle      template.CSS
	UnderlineStyle template.CSS
	SeparatorStyle template.CSS
	Bars           bool
	Stats          []statView
}

// Render returns the preview document for a template and customization
func (r *Renderer) Render(ctx context.Context, tpl *models.Template, cust models.Customization) (string, error) {
	if err := tpl.Validate(); err != nil {
		return "", err
	}

	view := r.buildView(tpl, cust)
	view.BackgroundURI = r.inlineBackground(ctx, tpl.BackgroundImageURL)
	if cust.Photo != "" {
		view.PhotoURI = r.inlinePhoto(ctx, cust.Photo, tpl.Positions.Photo)
	}
	if cust.FlagURL != "" {
		view.FlagURI = r.inlineFlag(ctx, cust.FlagURL, tpl.Positions.Flag)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// buildView computes every style from the shared layout math
func (r *Renderer) buildView(tpl *models.Template, cust models.Customization) cardView {
	p := tpl.Positions
	accent := tpl.AccentColor

	var points []string
	for _, pt := range layout.Octagon(models.CanvasWidth, models.CanvasHeight) {
		points = append(points, num(pt.X)+","+num(pt.Y))
	}

	rating := layout.RatingAnchor(p.Rating)
	underline := layout.NameUnderline(p.Name)
	footerY := layout.FooterStart(p.Name)
	grid := layout.StatGrid(p.Stats, cust.Stats)

	view := cardView{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		Width:        models.CanvasWidth,
		Height:       models.CanvasHeight,
		ClipPath:     template.CSS(layout.OctagonClipPath()),
		BorderPoints: strings.Join(points, " "),
		PhotoStyle:   boxStyle(layout.Rect{X: p.Photo.X, Y: p.Photo.Y, W: p.Photo.Width, H: p.Photo.Height}) + "object-fit:cover;object-position:center top;",
		Rating:       cust.Rating,
		RatingStyle: css(
			"left", px(rating.X), "top", px(rating.Y),
			"transform", "translateX(-50%)",
			"font-size", px(p.Rating.FontSize), "font-weight", "900", "color", "#fff",
			"text-shadow", fmt.Sprintf("0 4px 25px %s", utils.CSSRGBA(accent, 0.9)),
		),
		Sport: cust.Sport,
		SportStyle: css(
			"left", px(p.Sport.X), "top", px(p.Sport.Y),
			"font-size", px(p.Sport.FontSize), "font-weight", "700", "color", "#fff",
			"text-shadow", "0 0 12px rgba(0, 0, 0, 0.8)",
		),
		FlagStyle: boxStyle(layout.Rect{X: p.Flag.X, Y: p.Flag.Y, W: p.Flag.Width, H: p.Flag.Height}) +
			"box-shadow:0 4px 10px rgba(0, 0, 0, 0.4);",
		FooterStyle: css(
			"left", "0", "top", px(footerY), "width", px(models.CanvasWidth),
			"height", px(models.CanvasHeight-footerY),
			"background", "linear-gradient(180deg, rgba(0, 0, 0, 0) 0%, rgba(0, 0, 0, 0.85) 100%)",
		),
		Name: cust.Name,
		NameStyle: css(
			"left", px(p.Name.X), "top", px(p.Name.Y),
			"transform", "translate(-50%, -50%)",
			"font-size", px(p.Name.FontSize), "font-weight", "900", "color", "#fff",
			"letter-spacing", px(layout.NameLetterSpacing),
			"text-shadow", fmt.Sprintf("0 8px 30px rgba(0, 0, 0, 0.9), 0 0 40px %s", utils.CSSRGBA(accent, 0.8)),
		),
		UnderlineStyle: boxStyle(underline) + "background:" + template.CSS(utils.CSSRGBA(accent, 0.25)) + ";",
		SeparatorStyle: boxStyle(grid.Separator) + "background:rgba(255, 255, 255, 0.55);",
		Bars:           r.statStyle == compositor.StatStyleBars,
	}

	for _, cell := range grid.Cells {
		view.Stats = append(view.Stats, statView{
			Key:   cell.Key,
			Label: cell.Label,
			Value: cell.Value,
			LabelStyle: slotStyle(cell.LabelSlot) + css(
				"font-size", px(p.Stats.LabelFontSize), "font-weight", "700",
				"color", "rgba(255, 255, 255, 0.88)", "text-shadow", "0 0 3px rgba(0, 0, 0, 0.35)",
			),
			ValueStyle: slotStyle(cell.ValueSlot) + css(
				"font-size", px(p.Stats.FontSize), "font-weight", "900", "color", "#fff",
				"text-shadow", "0 0 6px "+utils.CSSRGBA(accent, 0.5),
			),
			TrackStyle: boxStyle(cell.Track) + "background:rgba(0, 0, 0, 0.6);",
			FillStyle: boxStyle(cell.Fill) + css(
				"background", barGradient(cell.Column, accent),
				"box-shadow", "0 0 15px "+utils.CSSRGBA(accent, 0.8),
			),
		})
	}
	return view
}

func barGradient(col layout.Column, accent string) string {
	dir := "90deg"
	if col == layout.ColumnLeft {
		dir = "270deg"
	}
	return fmt.Sprintf("linear-gradient(%s, %s 0%%, %s 100%%)", dir, utils.CSSRGBA(accent, 1), utils.CSSRGBA(accent, 0.7))
}

func (r *Renderer) inlineBackground(ctx context.Context, url string) template.URL {
	img, err := r.images.Load(ctx, url)
	if err != nil {
		log.Printf("⚠️  Preview: background unavailable (%s): %v", url, err)
		return ""
	}
	fitted := compositor.FitBackground(img, models.CanvasWidth*pixelRatio, models.CanvasHeight*pixelRatio)
	return encodeInline(fitted, imaging.JPEG)
}

func (r *Renderer) inlinePhoto(ctx context.Context, url string, box models.Box) template.URL {
	img, err := r.images.Load(ctx, url)
	if err != nil {
		log.Printf("⚠️  Preview: photo unavailable: %v", err)
		return ""
	}
	cropped := compositor.CropPhoto(img, box.Width, box.Height)
	w, h := int(box.Width*pixelRatio), int(box.Height*pixelRatio)
	return encodeInline(imaging.Resize(cropped, w, h, imaging.Lanczos), imaging.PNG)
}

func (r *Renderer) inlineFlag(ctx context.Context, url string, box models.Box) template.URL {
	img, err := r.images.Load(ctx, url)
	if err != nil {
		log.Printf("⚠️  Preview: flag unavailable (%s): %v", url, err)
		return ""
	}
	w, h := int(box.Width*pixelRatio), int(box.Height*pixelRatio)
	return encodeInline(imaging.Resize(img, w, h, imaging.Lanczos), imaging.PNG)
}

func encodeInline(img image.Image, format imaging.Format) template.URL {
	var buf bytes.Buffer
	mime := "image/png"
	var err error
	if format == imaging.JPEG {
		mime = "image/jpeg"
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85))
	} else {
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		log.Printf("⚠️  Preview: failed to encode layer: %v", err)
		return ""
	}
	return template.URL(utils.EncodeDataURL(mime, buf.Bytes()))
}

// px formats a preview-unit length
func px(v float64) string {
	return num(v) + "px"
}

// num formats a bare number, as SVG attributes expect
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// css joins property/value pairs into a declaration list
func css(kv ...string) template.CSS {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		b.WriteString(kv[i])
		b.WriteByte(':')
		b.WriteString(kv[i+1])
		b.WriteByte(';')
	}
	return template.CSS(b.String())
}

func boxStyle(r layout.Rect) template.CSS {
	return css("left", px(r.X), "top", px(r.Y), "width", px(r.W), "height", px(r.H))
}

// slotStyle anchors text at its alignment edge and vertical middle
func slotStyle(s layout.TextSlot) template.CSS {
	tx := "0"
	switch s.Align {
	case layout.AlignRight:
		tx = "-100%"
	case layout.AlignCenter:
		tx = "-50%"
	}
	return css("left", px(s.X), "top", px(s.Y), "transform", "translate("+tx+", -50%)")
}
