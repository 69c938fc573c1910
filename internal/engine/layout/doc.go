// Package layout maps byte columns to display columns and back.
//
// A logical line is cut into grapheme clusters (github.com/rivo/uniseg) and
// each cluster gets a cell width (github.com/mattn/go-runewidth). Wide CJK
// glyphs take two cells; a combining sequence takes the width of its base.
// Tabs run to the next tab stop. With a wrap width the line is further cut into visual
// rows. Tab stops are measured from the start of the logical line, not the
// row.
//
//	m := layout.NewMeasurer(4, false)
//	l := m.Layout("a\tb日本", 0)
//	l.XOf(2)          // 4: "b" sits after the tab stop
//	l.ColumnAt(0, 6)  // 3: byte offset of "日", which covers cells 5-6
package layout
