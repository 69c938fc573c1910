package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is used when a Measurer is created with a non-positive tab width.
const DefaultTabWidth = 4

// Measurer computes display widths.
type Measurer struct {
	tabWidth int
	cond     *runewidth.Condition
}

// NewMeasurer creates a measurer. ambiguousWide renders East Asian
// ambiguous-width characters as two cells.
func NewMeasurer(tabWidth int, ambiguousWide bool) *Measurer {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = ambiguousWide
	return &Measurer{tabWidth: tabWidth, cond: cond}
}

// TabWidth returns the tab width in cells.
func (m *Measurer) TabWidth() int {
	return m.tabWidth
}

// Cell is one grapheme cluster placed on a line.
type Cell struct {
	// Offset is the byte offset of the cluster in the line.
	Offset int

	// Text is the cluster itself.
	Text string

	// X is the display column from the start of the logical line.
	X int

	// Width is the number of cells the cluster occupies.
	Width int
}

// Row is one visual row of a wrapped line.
type Row struct {
	// Start and End delimit the row's bytes.
	Start, End int

	// X is the display column, within the logical line, where the row begins.
	X int

	first, last int
}

// Line is the layout of one logical line.
type Line struct {
	text  string
	cells []Cell
	rows  []Row
	width int
}

// Layout lays out text, wrapping at wrap cells when wrap > 0.
func (m *Measurer) Layout(text string, wrap int) *Line {
	l := &Line{text: text}

	state := -1
	off, x := 0, 0
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)

		w := m.clusterWidth(cluster, x)
		l.cells = append(l.cells, Cell{Offset: off, Text: cluster, X: x, Width: w})
		off += len(cluster)
		x += w
	}
	l.width = x
	l.rows = wrapRows(l.cells, len(text), wrap)
	return l
}

// Width returns the display width of text.
func (m *Measurer) Width(text string) int {
	return m.Layout(text, 0).Width()
}

func (m *Measurer) clusterWidth(cluster string, x int) int {
	if cluster == "\t" {
		return m.tabWidth - x%m.tabWidth
	}
	return m.cond.StringWidth(cluster)
}

func wrapRows(cells []Cell, textLen, wrap int) []Row {
	if wrap <= 0 || len(cells) == 0 {
		return []Row{{Start: 0, End: textLen, X: 0, first: 0, last: len(cells)}}
	}

	var rows []Row
	first, rowX := 0, 0
	for i, c := range cells {
		if i > first && c.X+c.Width-rowX > wrap {
			rows = append(rows, makeRow(cells, first, i, c.Offset))
			first, rowX = i, c.X
		}
	}
	return append(rows, makeRow(cells, first, len(cells), textLen))
}

func makeRow(cells []Cell, first, last, end int) Row {
	return Row{
		Start: cells[first].Offset,
		End:   end,
		X:     cells[first].X,
		first: first,
		last:  last,
	}
}

// Text returns the laid out text.
func (l *Line) Text() string { return l.text }

// Cells returns the placed clusters.
func (l *Line) Cells() []Cell { return l.cells }

// Rows returns the visual rows; there is always at least one.
func (l *Line) Rows() []Row { return l.rows }

// Width returns the total display width.
func (l *Line) Width() int { return l.width }

// RowCells returns the cells of row i.
func (l *Line) RowCells(i int) []Cell {
	r := l.rows[i]
	return l.cells[r.first:r.last]
}

// RowOf returns the index of the row holding byte column col. A column at
// a wrap point belongs to the row that starts there.
func (l *Line) RowOf(col int) int {
	for i := len(l.rows) - 1; i > 0; i-- {
		if l.rows[i].Start <= col {
			return i
		}
	}
	return 0
}

// XOf returns the display column of the cluster containing col, measured
// from the start of the logical line. Columns at or past the end of the
// line map to the line width.
func (l *Line) XOf(col int) int {
	for _, c := range l.cells {
		if col < c.Offset+len(c.Text) {
			return c.X
		}
	}
	return l.width
}

// RowX returns the display column of col relative to the start of its row.
func (l *Line) RowX(col int) int {
	return l.XOf(col) - l.rows[l.RowOf(col)].X
}

// ColumnAt returns the byte column on row whose cells cover display column
// x, counted from the row start. A wide cluster is entered at its first
// byte whichever of its cells x hits. Past the end, the last row yields the
// line end and other rows yield their last cluster, since the row end is
// drawn on the following row.
func (l *Line) ColumnAt(row, x int) int {
	if row < 0 {
		row = 0
	}
	if row >= len(l.rows) {
		row = len(l.rows) - 1
	}
	r := l.rows[row]
	if x <= 0 {
		return r.Start
	}

	cells := l.cells[r.first:r.last]
	for _, c := range cells {
		rel := c.X - r.X
		if rel <= x && x < rel+c.Width {
			return c.Offset
		}
	}

	if row == len(l.rows)-1 || len(cells) == 0 {
		return r.End
	}
	return cells[len(cells)-1].Offset
}
