package editor

import (
	"context"

	"github.com/dshills/vnav/internal/engine/buffer"
	"github.com/dshills/vnav/internal/event/events"
)

// MoveUp moves count rows up, keeping the goal column.
func (e *Editor) MoveUp(ctx context.Context, count int) error {
	return e.vertical(ctx, step{rows: -atLeastOne(count), reason: events.ReasonVertical})
}

// MoveDown moves count rows down, keeping the goal column.
func (e *Editor) MoveDown(ctx context.Context, count int) error {
	return e.vertical(ctx, step{rows: atLeastOne(count), reason: events.ReasonVertical})
}

// PageUp moves one page of rows up, keeping the goal column.
func (e *Editor) PageUp(ctx context.Context) error {
	return e.vertical(ctx, step{rows: -e.page, reason: events.ReasonPage})
}

// PageDown moves one page of rows down, keeping the goal column.
func (e *Editor) PageDown(ctx context.Context) error {
	return e.vertical(ctx, step{rows: e.page, reason: events.ReasonPage})
}

// moveVertical runs inside the navline guard.
func (e *Editor) moveVertical(ctx context.Context, s step) error {
	line := e.cursor.Line
	lay := e.LayoutLine(line)
	row := lay.RowOf(e.cursor.Column)

	x, ok := e.nav.X()
	if !ok {
		x = lay.RowX(e.cursor.Column)
		e.nav.SetX(x)
	}

down:
	for n := s.rows; n > 0; n-- {
		switch {
		case row+1 < len(lay.Rows()):
			row++
		case line+1 < e.buf.LineCount():
			line++
			lay = e.LayoutLine(line)
			row = 0
		default:
			break down
		}
	}
up:
	for n := s.rows; n < 0; n++ {
		switch {
		case row > 0:
			row--
		case line > 0:
			line--
			lay = e.LayoutLine(line)
			row = len(lay.Rows()) - 1
		default:
			break up
		}
	}

	target := buffer.Point{Line: line, Column: lay.ColumnAt(row, x)}
	e.logger.Debug("vertical move",
		"from", e.cursor.String(),
		"to", target.String(),
		"goal_x", x,
	)
	return e.setCursor(ctx, target, s.reason)
}

// MoveLeft moves count clusters left, continuing onto the previous line.
func (e *Editor) MoveLeft(ctx context.Context, count int) error {
	p := e.cursor
	for i := atLeastOne(count); i > 0; i-- {
		switch {
		case p.Column > 0:
			p.Column = e.buf.PrevBoundary(p.Line, p.Column)
		case p.Line > 0:
			p.Line--
			p.Column = e.buf.LineLen(p.Line)
		}
	}
	return e.setCursor(ctx, p, events.ReasonHorizontal)
}

// MoveRight moves count clusters right, continuing onto the next line.
func (e *Editor) MoveRight(ctx context.Context, count int) error {
	p := e.cursor
	for i := atLeastOne(count); i > 0; i-- {
		switch {
		case p.Column < e.buf.LineLen(p.Line):
			p.Column = e.buf.NextBoundary(p.Line, p.Column)
		case p.Line+1 < e.buf.LineCount():
			p.Line++
			p.Column = 0
		}
	}
	return e.setCursor(ctx, p, events.ReasonHorizontal)
}

// LineStart moves to the start of the line.
func (e *Editor) LineStart(ctx context.Context) error {
	return e.setCursor(ctx, buffer.Point{Line: e.cursor.Line}, events.ReasonLineStart)
}

// LineEnd moves to the end of the line.
func (e *Editor) LineEnd(ctx context.Context) error {
	line := e.cursor.Line
	return e.setCursor(ctx, buffer.Point{Line: line, Column: e.buf.LineLen(line)}, events.ReasonLineEnd)
}

// DocumentStart moves to the start of the buffer.
func (e *Editor) DocumentStart(ctx context.Context) error {
	return e.setCursor(ctx, buffer.Point{}, events.ReasonDocumentStart)
}

// DocumentEnd moves to the end of the last line.
func (e *Editor) DocumentEnd(ctx context.Context) error {
	last := e.buf.LineCount() - 1
	return e.setCursor(ctx, buffer.Point{Line: last, Column: e.buf.LineLen(last)}, events.ReasonDocumentEnd)
}

// MoveTo places the cursor at p, as a mouse click does.
func (e *Editor) MoveTo(ctx context.Context, p buffer.Point) error {
	return e.setCursor(ctx, p, events.ReasonClick)
}

// ClickAt places the cursor at display column x of visual row within line.
func (e *Editor) ClickAt(ctx context.Context, line, row, x int) error {
	if line < 0 {
		line = 0
	}
	if line >= e.buf.LineCount() {
		line = e.buf.LineCount() - 1
	}
	col := e.LayoutLine(line).ColumnAt(row, x)
	return e.MoveTo(ctx, buffer.Point{Line: line, Column: col})
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
