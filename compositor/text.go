package compositor

import (
	"image/color"
	"unicode/utf8"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"fightcards/layout"
)

// baseline selects which part of the text y refers to
type baseline int

const (
	baselineTop baseline = iota
	baselineMiddle
)

// textSpec describes one run of text in output pixels
type textSpec struct {
	s        string
	face     text.Face
	x, y     float64
	align    layout.Align
	baseline baseline
	spacing  float64
}

// width returns the advance of the run including letter spacing
func (t textSpec) width() float64 {
	if t.spacing == 0 {
		return t.face.Advance(t.s)
	}
	n := utf8.RuneCountInString(t.s)
	if n == 0 {
		return 0
	}
	return t.face.Advance(t.s) + t.spacing*float64(n-1)
}

// origin returns the left edge and the baseline y of the run
func (t textSpec) origin() (float64, float64) {
	w := t.width()
	x := t.x
	switch t.align {
	case layout.AlignRight:
		x -= w
	case layout.AlignCenter:
		x -= w / 2
	}

	m := t.face.Metrics()
	y := t.y + m.Ascent
	if t.baseline == baselineMiddle {
		y = t.y + (m.Ascent-m.Descent)/2
	}
	return x, y
}

// bounds returns the ink box of the run
func (t textSpec) bounds() layout.Rect {
	x, y := t.origin()
	m := t.face.Metrics()
	return layout.Rect{X: x, Y: y - m.Ascent, W: t.width(), H: m.Ascent + m.Descent}
}

// draw paints the run on c, shifted by (dx, dy)
func (t textSpec) draw(c *gg.Context, col color.Color, dx, dy float64) {
	x, y := t.origin()
	x += dx
	y += dy
	c.SetFont(t.face)
	c.SetColor(col)
	if t.spacing == 0 {
		c.DrawString(t.s, x, y)
		return
	}
	for _, r := range t.s {
		g := string(r)
		c.DrawString(g, x, y)
		x += t.face.Advance(g) + t.spacing
	}
}
