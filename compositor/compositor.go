// Package compositor renders a card at print resolution.
//
// The composition follows a fixed layer order: background, photo, rating, sport, flag,
// footer gradient, name, stat grid, then the border. Everything but the border is
// confined to the octagon silhouette. Rendering is deterministic: the same template,
// customization and assets always encode to the same bytes.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"strconv"
	"sync"

	"github.com/gogpu/gg"

	"fightcards/layout"
	"fightcards/models"
	"fightcards/utils"
)

// StatStyle selects how stats are drawn
type StatStyle string

const (
	// StatStyleBars draws each value with a proportional fill bar
	StatStyleBars StatStyle = "bars"
	// StatStyleNumeric draws aligned numbers only
	StatStyleNumeric StatStyle = "numeric"
)

// ParseStatStyle validates a stat style name; empty means bars
func ParseStatStyle(s string) (StatStyle, error) {
	switch StatStyle(s) {
	case "", StatStyleBars:
		return StatStyleBars, nil
	case StatStyleNumeric:
		return StatStyleNumeric, nil
	}
	return "", fmt.Errorf("unknown stat style %q (valid: bars, numeric)", s)
}

var (
	cardBackground = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	white          = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func black(alpha float64) color.NRGBA {
	return utils.WithAlpha(color.NRGBA{}, alpha)
}

func whiteA(alpha float64) color.NRGBA {
	return utils.WithAlpha(white, alpha)
}

// Options configures a Compositor
type Options struct {
	// Scale multiplies every template coordinate; 0 means layout.DefaultScale
	Scale     float64
	StatStyle StatStyle
}

// Assets are the decoded images for one render
type Assets struct {
	Background image.Image
	Photo      image.Image
	// Flag is optional
	Flag image.Image
}

// Compositor draws cards. It is safe for concurrent use; renders run one at a time
// to bound peak memory.
type Compositor struct {
	frame     layout.Frame
	statStyle StatStyle
	fonts     *Fonts
	mu        sync.Mutex
}

// New creates a Compositor
func New(fonts *Fonts, opts Options) *Compositor {
	scale := opts.Scale
	if scale == 0 {
		scale = layout.DefaultScale
	}
	style := opts.StatStyle
	if style == "" {
		style = StatStyleBars
	}
	return &Compositor{
		frame:     layout.NewFrame(scale),
		statStyle: style,
		fonts:     fonts,
	}
}

// Size returns the output dimensions in pixels
func (c *Compositor) Size() (int, int) {
	return c.frame.Width(), c.frame.Height()
}

// Scale returns the configured scale factor
func (c *Compositor) Scale() float64 {
	return c.frame.Scale
}

// Compose renders the card to an RGBA image with transparent corners
func (c *Compositor) Compose(tpl *models.Template, cust models.Customization, assets Assets) (*image.RGBA, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	if assets.Background == nil {
		return nil, fmt.Errorf("%w: background image is missing", models.ErrAssetDecode)
	}
	if assets.Photo == nil {
		return nil, fmt.Errorf("%w: fighter photo is missing", models.ErrAssetDecode)
	}
	accent, err := utils.HexToRGBA(tpl.AccentColor, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidTemplate, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	w, h := c.Size()
	log.Printf("🎨 Compose: template=%s size=%dx%d stats=%s", tpl.ID, w, h, c.statStyle)

	r := &cardRenderer{
		frame:  c.frame,
		fonts:  c.fonts,
		pos:    tpl.Positions,
		accent: accent,
		ctx:    gg.NewContext(w, h),
	}
	defer r.ctx.Close()

	r.drawBackground(assets.Background)
	r.drawPhoto(assets.Photo)
	r.drawRating(cust.Rating)
	r.drawSport(cust.Sport)
	if assets.Flag != nil {
		r.drawFlag(assets.Flag)
	}
	r.drawFooter()
	r.drawName(cust.Name)
	r.drawStats(cust.Stats, c.statStyle)

	card := clipOctagon(r.ctx.Image(), w, h)
	return strokeBorder(card, c.frame), nil
}

// cardRenderer holds the state of one Compose call
type cardRenderer struct {
	frame  layout.Frame
	fonts  *Fonts
	pos    models.Positions
	accent color.NRGBA
	ctx    *gg.Context
}

func (r *cardRenderer) s(v float64) float64 {
	return r.frame.S(v)
}

func (r *cardRenderer) drawBackground(bg image.Image) {
	w, h := r.frame.Width(), r.frame.Height()
	r.ctx.SetColor(cardBackground)
	r.ctx.DrawRectangle(0, 0, float64(w), float64(h))
	_ = r.ctx.Fill()

	fitted := FitBackground(bg, w, h)
	r.ctx.DrawImage(gg.ImageBufFromImage(fitted), 0, 0)
}

func (r *cardRenderer) drawPhoto(photo image.Image) {
	box := r.frame.Box(r.pos.Photo)
	b := photo.Bounds()
	src := layout.CoverCrop(float64(b.Dx()), float64(b.Dy()), box.W, box.H)
	srcRect := image.Rect(
		b.Min.X+int(src.X+0.5),
		b.Min.Y+int(src.Y+0.5),
		b.Min.X+int(src.X+src.W+0.5),
		b.Min.Y+int(src.Y+src.H+0.5),
	)
	r.ctx.DrawImageEx(gg.ImageBufFromImage(photo), gg.DrawImageOptions{
		X:             box.X,
		Y:             box.Y,
		DstWidth:      box.W,
		DstHeight:     box.H,
		SrcRect:       &srcRect,
		Interpolation: gg.InterpBicubic,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// drawGlowText draws a shadow pass then the text itself
func (r *cardRenderer) drawGlowText(t textSpec, fill color.NRGBA, sh shadow) {
	drawShadow(r.ctx, sh, t.bounds(), fillText(t))
	t.draw(r.ctx, fill, 0, 0)
}

func (r *cardRenderer) drawRating(rating int) {
	a := layout.RatingAnchor(r.pos.Rating)
	t := textSpec{
		s:        strconv.Itoa(rating),
		face:     r.fonts.Heavy.Face(r.s(r.pos.Rating.FontSize)),
		x:        r.s(a.X),
		y:        r.s(a.Y),
		align:    layout.AlignCenter,
		baseline: baselineTop,
	}
	r.drawGlowText(t, white, shadow{
		color:  utils.WithAlpha(r.accent, 0.9),
		blur:   r.s(25),
		offset: layout.Point{Y: r.s(4)},
	})
}

func (r *cardRenderer) drawSport(sport string) {
	t := textSpec{
		s:        sport,
		face:     r.fonts.Medium.Face(r.s(r.pos.Sport.FontSize)),
		x:        r.s(r.pos.Sport.X),
		y:        r.s(r.pos.Sport.Y),
		align:    layout.AlignLeft,
		baseline: baselineTop,
	}
	r.drawGlowText(t, white, shadow{color: black(0.8), blur: r.s(12)})
}

func (r *cardRenderer) drawFlag(flag image.Image) {
	box := r.frame.Box(r.pos.Flag)
	drawShadow(r.ctx, shadow{
		color:  black(0.4),
		blur:   r.s(10),
		offset: layout.Point{Y: r.s(4)},
	}, box, fillRect(box))
	r.ctx.DrawImageEx(gg.ImageBufFromImage(flag), gg.DrawImageOptions{
		X:             box.X,
		Y:             box.Y,
		DstWidth:      box.W,
		DstHeight:     box.H,
		Interpolation: gg.InterpBicubic,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

func (r *cardRenderer) drawFooter() {
	w, h := float64(r.frame.Width()), float64(r.frame.Height())
	y0 := r.s(layout.FooterStart(r.pos.Name))
	if y0 >= h {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	brush := gg.NewLinearGradientBrush(0, y0, 0, h).
		AddColorStop(0, gg.RGBA{R: 0, G: 0, B: 0, A: 0}).
		AddColorStop(1, gg.RGBA{R: 0, G: 0, B: 0, A: 0.85})
	r.ctx.SetFillBrush(brush)
	r.ctx.DrawRectangle(0, y0, w, h-y0)
	_ = r.ctx.Fill()
}

func (r *cardRenderer) drawName(name string) {
	face := r.fonts.Heavy.Face(r.s(r.pos.Name.FontSize))
	base := textSpec{
		s:        name,
		face:     face,
		x:        r.s(r.pos.Name.X),
		y:        r.s(r.pos.Name.Y),
		align:    layout.AlignCenter,
		baseline: baselineMiddle,
		spacing:  r.s(layout.NameLetterSpacing),
	}

	// Dark offset pass
	under := base
	under.y += r.s(2)
	r.drawGlowText(under, black(0.6), shadow{
		color:  black(0.9 * 0.6),
		blur:   r.s(30),
		offset: layout.Point{Y: r.s(8)},
	})

	// Colored glow pass
	r.drawGlowText(base, white, shadow{
		color: utils.WithAlpha(r.accent, 0.8),
		blur:  r.s(40),
	})

	line := layout.NameUnderline(r.pos.Name).Scaled(r.frame.Scale)
	r.ctx.SetColor(utils.WithAlpha(r.accent, 0.25))
	r.ctx.DrawRectangle(line.X, line.Y, line.W, line.H)
	_ = r.ctx.Fill()
}

func (r *cardRenderer) drawStats(stats models.Stats, style StatStyle) {
	grid := layout.StatGrid(r.pos.Stats, stats)
	scale := r.frame.Scale

	sep := grid.Separator.Scaled(scale)
	r.ctx.SetColor(whiteA(0.55))
	r.ctx.DrawRectangle(sep.X, sep.Y, sep.W, sep.H)
	_ = r.ctx.Fill()

	labelFace := r.fonts.Medium.Face(r.s(r.pos.Stats.LabelFontSize))
	valueFace := r.fonts.Heavy.Face(r.s(r.pos.Stats.FontSize))

	for _, cell := range grid.Cells {
		if style == StatStyleBars {
			r.drawStatBar(cell)
		}

		label := textSpec{
			s:        cell.Label,
			face:     labelFace,
			x:        r.s(cell.LabelSlot.X),
			y:        r.s(cell.LabelSlot.Y),
			align:    cell.LabelSlot.Align,
			baseline: baselineMiddle,
		}
		r.drawGlowText(label, whiteA(0.88), shadow{color: black(0.35 * 0.88), blur: r.s(3)})

		value := textSpec{
			s:        strconv.Itoa(cell.Value),
			face:     valueFace,
			x:        r.s(cell.ValueSlot.X),
			y:        r.s(cell.ValueSlot.Y),
			align:    cell.ValueSlot.Align,
			baseline: baselineMiddle,
		}
		r.drawGlowText(value, white, shadow{color: utils.WithAlpha(r.accent, 0.5), blur: r.s(6)})
	}
}

func (r *cardRenderer) drawStatBar(cell layout.StatCell) {
	scale := r.frame.Scale
	track := cell.Track.Scaled(scale)
	r.ctx.SetColor(black(0.6))
	r.ctx.DrawRectangle(track.X, track.Y, track.W, track.H)
	_ = r.ctx.Fill()

	fill := cell.Fill.Scaled(scale)
	if fill.W <= 0 {
		return
	}
	drawShadow(r.ctx, shadow{color: utils.WithAlpha(r.accent, 0.8), blur: r.s(15)}, fill, fillRect(fill))

	// Gradient runs from the separator side outward
	x0, x1 := fill.X, fill.X+fill.W
	if cell.Column == layout.ColumnLeft {
		x0, x1 = x1, x0
	}
	brush := gg.NewLinearGradientBrush(x0, 0, x1, 0).
		AddColorStop(0, gg.FromColor(r.accent)).
		AddColorStop(1, gg.FromColor(utils.WithAlpha(r.accent, 0.7)))
	r.ctx.SetFillBrush(brush)
	r.ctx.DrawRectangle(fill.X, fill.Y, fill.W, fill.H)
	_ = r.ctx.Fill()
}

// clipOctagon keeps only the pixels inside the card silhouette, with anti-aliased edges
func clipOctagon(content image.Image, w, h int) *image.RGBA {
	mask := gg.NewContext(w, h)
	defer mask.Close()
	octagonPath(mask, float64(w), float64(h))
	mask.SetColor(white)
	_ = mask.Fill()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.DrawMask(out, out.Bounds(), content, image.Point{}, mask.Image(), image.Point{}, draw.Src)
	return out
}

// strokeBorder strokes the silhouette on top of the clipped card, so the outer half of
// the line is not cut away
func strokeBorder(card *image.RGBA, frame layout.Frame) *image.RGBA {
	b := card.Bounds()
	c := gg.NewContextForImage(card)
	defer c.Close()
	octagonPath(c, float64(b.Dx()), float64(b.Dy()))
	c.SetColor(whiteA(0.9))
	c.SetLineWidth(frame.S(4))
	c.SetLineJoin(gg.LineJoinMiter)
	_ = c.Stroke()
	return c.Image().(*image.RGBA)
}

func octagonPath(c *gg.Context, w, h float64) {
	pts := layout.Octagon(w, h)
	c.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.LineTo(p.X, p.Y)
	}
	c.ClosePath()
}
