package layout

import "fightcards/models"

// Stat grid constants, in preview units
const (
	// StatColumnGap is the space between the two columns, split evenly around the center line
	StatColumnGap = 8.0

	// StatBarOffset is the distance from a row's center line to the top of its fill bar
	StatBarOffset = 8.0
	// StatBarHeight is the thickness of a fill bar
	StatBarHeight = 7.0

	separatorLead  = 10.0
	separatorTail  = 25.0
	separatorWidth = 1.0
)

// Column identifies a side of the stat grid
type Column int

const (
	ColumnLeft Column = iota
	ColumnRight
)

// Align is a horizontal text alignment
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// TextSlot is where one piece of stat text goes: X is the alignment edge, Y the
// vertical middle of the text
type TextSlot struct {
	X     float64
	Y     float64
	Align Align
}

// StatCell is the resolved layout of one stat
type StatCell struct {
	Key       string
	Label     string
	Value     int
	Column    Column
	Row       int
	// Bounds spans the column width; Y is the row's center line
	Bounds    Rect
	LabelSlot TextSlot
	ValueSlot TextSlot
	Track     Rect
	Fill      Rect
	FillRatio float64
}

// StatGridLayout is the full grid plus its center separator
type StatGridLayout struct {
	Cells     []StatCell
	Separator Rect
}

// StatGrid lays out stats in two mirrored columns around the template's center line.
// Entry i goes to the left column when i is even and to row i/2. Both columns face the
// separator: the left column reads label then value, the right column value then label.
// All results are in preview units.
func StatGrid(cfg models.StatsLayout, stats models.Stats) StatGridLayout {
	values := stats.Values()
	rows := (len(models.StatFields) + 1) / 2

	leftX := cfg.X - cfg.ColumnWidth - StatColumnGap/2
	rightX := cfg.X + StatColumnGap/2

	cells := make([]StatCell, 0, len(models.StatFields))
	for i, field := range models.StatFields {
		col := ColumnLeft
		x := leftX
		if i%2 == 1 {
			col = ColumnRight
			x = rightX
		}
		row := i / 2
		y := cfg.Y + float64(row)*cfg.RowSpacing

		cell := StatCell{
			Key:    field.Key,
			Label:  field.Label,
			Value:  values[i],
			Column: col,
			Row:    row,
			Bounds: Rect{X: x, Y: y, W: cfg.ColumnWidth, H: cfg.RowSpacing},
		}
		if col == ColumnLeft {
			cell.LabelSlot = TextSlot{X: x, Y: y, Align: AlignLeft}
			cell.ValueSlot = TextSlot{X: x + cfg.ColumnWidth, Y: y, Align: AlignRight}
		} else {
			cell.ValueSlot = TextSlot{X: x, Y: y, Align: AlignLeft}
			cell.LabelSlot = TextSlot{X: x + cfg.ColumnWidth, Y: y, Align: AlignRight}
		}

		cell.FillRatio = float64(cell.Value) / 100
		cell.Track = Rect{X: x, Y: y + StatBarOffset, W: cfg.ColumnWidth, H: StatBarHeight}
		cell.Fill = Rect{X: x, Y: y + StatBarOffset, W: cfg.ColumnWidth * cell.FillRatio, H: StatBarHeight}
		// Bars grow outward from the separator
		if col == ColumnLeft {
			cell.Fill.X = x + cfg.ColumnWidth - cell.Fill.W
		}
		cells = append(cells, cell)
	}

	return StatGridLayout{
		Cells: cells,
		Separator: Rect{
			X: cfg.X - separatorWidth/2,
			Y: cfg.Y - separatorLead,
			W: separatorWidth,
			H: float64(rows-1)*cfg.RowSpacing + separatorTail,
		},
	}
}
