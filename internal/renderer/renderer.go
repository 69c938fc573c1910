package renderer

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/vnav/internal/engine/buffer"
	"github.com/dshills/vnav/internal/engine/layout"
	"github.com/dshills/vnav/internal/renderer/backend"
)

// Document is what the renderer shows.
type Document interface {
	// LineCount returns the number of logical lines, at least one.
	LineCount() int

	// LayoutLine lays out line i with the current wrap width.
	LayoutLine(i int) *layout.Line

	// Cursor returns the cursor position.
	Cursor() buffer.Point

	// WrapWidth returns the soft wrap width, zero when lines do not wrap.
	WrapWidth() int
}

// Options configures the renderer.
type Options struct {
	ShowLineNumbers bool // Show line numbers in gutter
	ScrollOff       int  // Rows kept visible above and below the cursor
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers: true,
		ScrollOff:       3,
	}
}

var (
	plainStyle  = backend.Style{}
	gutterStyle = backend.Style{Dim: true}
	statusStyle = backend.Style{Reverse: true}
)

// pos is a visual row: row index within a logical line.
type pos struct {
	line, row int
}

func (p pos) before(q pos) bool {
	return p.line < q.line || (p.line == q.line && p.row < q.row)
}

// Renderer draws documents. It is not safe for concurrent use.
type Renderer struct {
	opts    Options
	backend backend.Backend

	width  int
	height int

	// First visible row and, without wrapping, first visible display column.
	top  pos
	left int

	frameCount uint64
}

// New creates a new renderer with the given backend and options.
func New(be backend.Backend, opts Options) *Renderer {
	width, height := be.Size()
	return &Renderer{
		opts:    opts,
		backend: be,
		width:   width,
		height:  height,
	}
}

// Resize updates the renderer dimensions.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Size returns the renderer dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the options.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	return r.frameCount
}

// TextHeight returns the number of rows available for text.
func (r *Renderer) TextHeight() int {
	return max(r.height-1, 0)
}

// GutterWidth returns the width of the line number gutter for doc,
// separator included.
func (r *Renderer) GutterWidth(doc Document) int {
	if !r.opts.ShowLineNumbers {
		return 0
	}
	digits := 1
	for n := doc.LineCount(); n >= 10; n /= 10 {
		digits++
	}
	// Minimum 3 digits, plus separator
	return max(digits, 3) + 1
}

// TextWidth returns the number of columns available for text.
func (r *Renderer) TextWidth(doc Document) int {
	return max(r.width-r.GutterWidth(doc), 1)
}

// Top returns the first visible line and its visual row.
func (r *Renderer) Top() (line, row int) {
	return r.top.line, r.top.row
}

// Render draws doc with status in the bottom row and places the cursor.
func (r *Renderer) Render(doc Document, status string) {
	r.frameCount++
	r.backend.Clear()

	if r.width <= 0 || r.height <= 0 {
		r.backend.Show()
		return
	}

	r.scrollToCursor(doc)

	gw := r.GutterWidth(doc)
	tw := r.TextWidth(doc)

	p, more := r.top, true
	for y := 0; y < r.TextHeight(); y++ {
		if !more {
			r.backend.SetContent(0, y, '~', nil, gutterStyle)
			continue
		}
		lay := doc.LayoutLine(p.line)
		if gw > 0 && p.row == 0 {
			r.drawString(0, y, fmt.Sprintf("%*d ", gw-1, p.line+1), gutterStyle, gw)
		}
		r.drawRow(lay, p.row, gw, y, tw)
		p, more = next(doc, p)
	}

	r.drawStatus(status)
	r.placeCursor(doc, gw, tw)
	r.backend.Show()
}

// HitTest maps screen cell x, y to a visual row of doc and a display column
// within that row. ok is false outside the text area.
func (r *Renderer) HitTest(doc Document, x, y int) (line, row, col int, ok bool) {
	if y < 0 || y >= r.TextHeight() {
		return 0, 0, 0, false
	}
	p := r.clampTop(doc)
	for i := 0; i < y; i++ {
		if p, ok = next(doc, p); !ok {
			return 0, 0, 0, false
		}
	}
	gw := r.GutterWidth(doc)
	return p.line, p.row, max(x-gw, 0) + r.left, true
}

func (r *Renderer) drawRow(lay *layout.Line, row, gw, y, tw int) {
	rowX := lay.Rows()[row].X
	for _, c := range lay.RowCells(row) {
		x := c.X - rowX - r.left
		if c.Width == 0 || x < 0 || x+c.Width > tw {
			continue
		}
		if c.Text == "\t" {
			for i := 0; i < c.Width; i++ {
				r.backend.SetContent(gw+x+i, y, ' ', nil, plainStyle)
			}
			continue
		}
		runes := []rune(c.Text)
		r.backend.SetContent(gw+x, y, runes[0], runes[1:], plainStyle)
	}
}

func (r *Renderer) drawStatus(status string) {
	y := r.height - 1
	for x := 0; x < r.width; x++ {
		r.backend.SetContent(x, y, ' ', nil, statusStyle)
	}
	r.drawString(0, y, status, statusStyle, r.width)
}

func (r *Renderer) drawString(x, y int, s string, style backend.Style, limit int) {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > limit {
			return
		}
		r.backend.SetContent(x, y, ch, nil, style)
		x += w
	}
}

func (r *Renderer) placeCursor(doc Document, gw, tw int) {
	c := doc.Cursor()
	lay := doc.LayoutLine(c.Line)
	cur := pos{c.Line, lay.RowOf(c.Column)}

	y := 0
	for p := r.top; p.before(cur); y++ {
		var ok bool
		if p, ok = next(doc, p); !ok || y >= r.TextHeight() {
			r.backend.HideCursor()
			return
		}
	}

	x := lay.RowX(c.Column) - r.left
	if y >= r.TextHeight() || x < 0 || x >= tw {
		r.backend.HideCursor()
		return
	}
	r.backend.ShowCursor(gw+x, y)
}

// scrollToCursor moves the view so the cursor row is visible with
// ScrollOff rows of context.
func (r *Renderer) scrollToCursor(doc Document) {
	r.top = r.clampTop(doc)

	h := r.TextHeight()
	if h == 0 {
		return
	}
	off := min(max(r.opts.ScrollOff, 0), (h-1)/2)

	c := doc.Cursor()
	lay := doc.LayoutLine(c.Line)
	cur := pos{c.Line, lay.RowOf(c.Column)}

	above := back(doc, cur, off)
	if above.before(r.top) {
		r.top = above
	}

	// Rows that exist below the cursor, up to off.
	after := 0
	for p, ok := next(doc, cur); ok && after < off; p, ok = next(doc, p) {
		after++
	}
	if lowest := back(doc, cur, h-1-after); r.top.before(lowest) {
		r.top = lowest
	}

	if doc.WrapWidth() > 0 {
		r.left = 0
		return
	}
	tw := r.TextWidth(doc)
	x := lay.XOf(c.Column)
	if x < r.left {
		r.left = x
	}
	if x >= r.left+tw {
		r.left = x - tw + 1
	}
}

// clampTop keeps the top row inside doc after edits to wrap or content.
func (r *Renderer) clampTop(doc Document) pos {
	p := r.top
	if p.line >= doc.LineCount() {
		p = pos{line: doc.LineCount() - 1}
	}
	if rows := len(doc.LayoutLine(p.line).Rows()); p.row >= rows {
		p.row = rows - 1
	}
	return p
}

func next(doc Document, p pos) (pos, bool) {
	if p.row+1 < len(doc.LayoutLine(p.line).Rows()) {
		return pos{p.line, p.row + 1}, true
	}
	if p.line+1 < doc.LineCount() {
		return pos{p.line + 1, 0}, true
	}
	return p, false
}

func prev(doc Document, p pos) (pos, bool) {
	if p.row > 0 {
		return pos{p.line, p.row - 1}, true
	}
	if p.line > 0 {
		l := p.line - 1
		return pos{l, len(doc.LayoutLine(l).Rows()) - 1}, true
	}
	return p, false
}

// back steps up to n rows back from p.
func back(doc Document, p pos, n int) pos {
	for ; n > 0; n-- {
		q, ok := prev(doc, p)
		if !ok {
			break
		}
		p = q
	}
	return p
}
