package layout

import (
	"testing"

	"fightcards/models"
)

var testStatsLayout = models.StatsLayout{
	X:             180,
	Y:             390,
	FontSize:      18,
	LabelFontSize: 13,
	RowSpacing:    28,
	ColumnWidth:   120,
}

func TestStatGridPlacement(t *testing.T) {
	grid := StatGrid(testStatsLayout, models.DefaultStats())
	if len(grid.Cells) != 6 {
		t.Fatalf("StatGrid() has %d cells, want 6", len(grid.Cells))
	}

	tests := []struct {
		key    string
		column Column
		row    int
		x, y   float64
	}{
		{"force", ColumnLeft, 0, 56, 390},
		{"rapidite", ColumnRight, 0, 184, 390},
		{"grappling", ColumnLeft, 1, 56, 418},
		{"endurance", ColumnRight, 1, 184, 418},
		{"striking", ColumnLeft, 2, 56, 446},
		{"equilibre", ColumnRight, 2, 184, 446},
	}
	for i, tt := range tests {
		c := grid.Cells[i]
		if c.Key != tt.key || c.Column != tt.column || c.Row != tt.row {
			t.Errorf("cell %d = %s col=%d row=%d, want %s col=%d row=%d", i, c.Key, c.Column, c.Row, tt.key, tt.column, tt.row)
		}
		if !approx(c.Bounds.X, tt.x) || !approx(c.Bounds.Y, tt.y) {
			t.Errorf("cell %s at (%v, %v), want (%v, %v)", c.Key, c.Bounds.X, c.Bounds.Y, tt.x, tt.y)
		}
	}
}

func TestStatGridColumnsFaceSeparator(t *testing.T) {
	grid := StatGrid(testStatsLayout, models.DefaultStats())

	left := grid.Cells[0]
	if left.LabelSlot.Align != AlignLeft || !approx(left.LabelSlot.X, 56) {
		t.Errorf("left label slot = %+v, want left-aligned at 56", left.LabelSlot)
	}
	if left.ValueSlot.Align != AlignRight || !approx(left.ValueSlot.X, 176) {
		t.Errorf("left value slot = %+v, want right-aligned at 176", left.ValueSlot)
	}

	right := grid.Cells[1]
	if right.ValueSlot.Align != AlignLeft || !approx(right.ValueSlot.X, 184) {
		t.Errorf("right value slot = %+v, want left-aligned at 184", right.ValueSlot)
	}
	if right.LabelSlot.Align != AlignRight || !approx(right.LabelSlot.X, 304) {
		t.Errorf("right label slot = %+v, want right-aligned at 304", right.LabelSlot)
	}

	sep := grid.Separator
	want := Rect{X: 179.5, Y: 380, W: 1, H: 81}
	if !approxRect(sep, want) {
		t.Errorf("Separator = %+v, want %+v", sep, want)
	}
	// The separator sits inside the column gap
	if sep.X <= left.Bounds.X+left.Bounds.W || sep.X+sep.W >= right.Bounds.X {
		t.Errorf("Separator %+v overlaps a column", sep)
	}
}

func TestStatGridBars(t *testing.T) {
	stats := models.Stats{Force: 50, Rapidite: 100, Grappling: 0, Endurance: 25, Striking: 75, Equilibre: 10}
	grid := StatGrid(testStatsLayout, stats)

	tests := []struct {
		idx       int
		wantRatio float64
		wantFillX float64
		wantFillW float64
	}{
		// Left bars are anchored at the separator side
		{0, 0.5, 116, 60},
		{1, 1, 184, 120},
		{2, 0, 176, 0},
		{3, 0.25, 184, 30},
		{4, 0.75, 86, 90},
	}
	for _, tt := range tests {
		c := grid.Cells[tt.idx]
		if !approx(c.FillRatio, tt.wantRatio) {
			t.Errorf("%s FillRatio = %v, want %v", c.Key, c.FillRatio, tt.wantRatio)
		}
		if !approx(c.Fill.X, tt.wantFillX) || !approx(c.Fill.W, tt.wantFillW) {
			t.Errorf("%s Fill = %+v, want x=%v w=%v", c.Key, c.Fill, tt.wantFillX, tt.wantFillW)
		}
		if !approx(c.Fill.Y, c.Bounds.Y+8) || c.Fill.H != 7 {
			t.Errorf("%s Fill = %+v, want y=%v h=7", c.Key, c.Fill, c.Bounds.Y+8)
		}
		if c.Fill.X < c.Track.X-1e-9 || c.Fill.X+c.Fill.W > c.Track.X+c.Track.W+1e-9 {
			t.Errorf("%s Fill %+v escapes its track %+v", c.Key, c.Fill, c.Track)
		}
	}
}
