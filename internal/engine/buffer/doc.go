// Package buffer holds the text being navigated as a slice of lines.
//
// The buffer is read-only once loaded. Positions are Points: a zero-based
// line and a byte column within that line. Columns are only meaningful at
// grapheme cluster boundaries; Clamp, PrevBoundary and NextBoundary keep
// them there so a cursor never lands inside a multi-rune character.
//
//	buf := buffer.New("héllo\nwörld")
//	p := buf.Clamp(buffer.Point{Line: 0, Column: 2}) // (0:1), start of "é"
package buffer
