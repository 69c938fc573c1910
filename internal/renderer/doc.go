// Package renderer draws an editor view onto a backend.
//
// The screen is split into a text area and a one-row status line at the
// bottom. The text area shows visual rows: one per logical line, or
// several when soft wrap splits a line. A gutter of line numbers sits at
// the left of the first row of each line.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term, renderer.DefaultOptions())
//	r.Render(ed, "status")
//
// Render scrolls the view so the cursor stays visible with ScrollOff rows
// of context above and below it where the document allows.
package renderer
