package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/vnav/internal/engine/buffer"
	"github.com/dshills/vnav/internal/engine/layout"
	"github.com/dshills/vnav/internal/event"
	"github.com/dshills/vnav/internal/event/events"
	"github.com/dshills/vnav/internal/navline"
)

// eventSource names the editor as the publisher of its events.
const eventSource = "editor"

// DefaultPageSize is the number of rows PageUp and PageDown move by
// until SetPageSize is called.
const DefaultPageSize = 20

// ErrMissingDependency is returned by New when a required component is nil.
var ErrMissingDependency = errors.New("editor: missing dependency")

// Editor owns the cursor for one buffer.
type Editor struct {
	buf     *buffer.Buffer
	nav     *navline.State
	bus     event.Bus
	measure *layout.Measurer
	logger  *slog.Logger

	wrap   int
	page   int
	cursor buffer.Point

	vertical func(context.Context, step) error
}

// step is one guarded vertical motion.
type step struct {
	rows   int
	reason events.MoveReason
}

// Option configures an Editor.
type Option func(*Editor)

// WithWrapWidth sets the soft wrap width in cells; zero disables wrapping.
func WithWrapWidth(width int) Option {
	return func(e *Editor) {
		e.SetWrapWidth(width)
	}
}

// WithPageSize sets the number of rows a page motion moves.
func WithPageSize(rows int) Option {
	return func(e *Editor) {
		e.SetPageSize(rows)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an editor with the cursor at the start of buf.
func New(buf *buffer.Buffer, nav *navline.State, bus event.Bus, measure *layout.Measurer, opts ...Option) (*Editor, error) {
	switch {
	case buf == nil:
		return nil, fmt.Errorf("%w: buffer", ErrMissingDependency)
	case nav == nil:
		return nil, fmt.Errorf("%w: navigation state", ErrMissingDependency)
	case bus == nil:
		return nil, fmt.Errorf("%w: event bus", ErrMissingDependency)
	case measure == nil:
		return nil, fmt.Errorf("%w: measurer", ErrMissingDependency)
	}

	e := &Editor{
		buf:     buf,
		nav:     nav,
		bus:     bus,
		measure: measure,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		page:    DefaultPageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.vertical = navline.Guard2(nav, e.moveVertical)
	return e, nil
}

// Cursor returns the cursor position.
func (e *Editor) Cursor() buffer.Point {
	return e.cursor
}

// GoalX returns the remembered goal column, if any.
func (e *Editor) GoalX() (int, bool) {
	return e.nav.X()
}

// Buffer returns the buffer being navigated.
func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf
}

// LineCount returns the number of lines in the buffer.
func (e *Editor) LineCount() int {
	return e.buf.LineCount()
}

// Measurer returns the measurer used for display columns.
func (e *Editor) Measurer() *layout.Measurer {
	return e.measure
}

// SetMeasurer replaces the measurer, e.g. after a tab width change.
func (e *Editor) SetMeasurer(m *layout.Measurer) {
	if m != nil {
		e.measure = m
	}
}

// WrapWidth returns the soft wrap width, zero when wrapping is off.
func (e *Editor) WrapWidth() int {
	return e.wrap
}

// SetWrapWidth sets the soft wrap width; values below one disable wrapping.
func (e *Editor) SetWrapWidth(width int) {
	if width < 1 {
		width = 0
	}
	e.wrap = width
}

// SetPageSize sets the rows moved by PageUp and PageDown. Minimum one.
func (e *Editor) SetPageSize(rows int) {
	if rows < 1 {
		rows = 1
	}
	e.page = rows
}

// LayoutLine lays out line i with the current measurer and wrap width.
func (e *Editor) LayoutLine(i int) *layout.Line {
	return e.measure.Layout(e.buf.Line(i), e.wrap)
}

// Load replaces the buffer and puts the cursor at its start.
func (e *Editor) Load(ctx context.Context, buf *buffer.Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: buffer", ErrMissingDependency)
	}
	e.buf = buf

	if err := e.bus.Publish(ctx, event.NewEvent(events.TopicBufferLoaded, events.BufferLoaded{
		Path:  buf.Path(),
		Lines: buf.LineCount(),
	}, eventSource)); err != nil {
		return fmt.Errorf("publishing buffer load: %w", err)
	}

	old := e.cursor
	e.cursor = buffer.Point{}
	return e.publishMove(ctx, old, e.cursor, events.ReasonLoad)
}

// setCursor clamps p, moves the cursor there and publishes the change.
// Nothing is published when the cursor does not move.
func (e *Editor) setCursor(ctx context.Context, p buffer.Point, reason events.MoveReason) error {
	p = e.buf.Clamp(p)
	if p == e.cursor {
		return nil
	}
	old := e.cursor
	e.cursor = p
	return e.publishMove(ctx, old, p, reason)
}

func (e *Editor) publishMove(ctx context.Context, from, to buffer.Point, reason events.MoveReason) error {
	oldPos, newPos := position(from), position(to)

	if err := e.bus.Publish(ctx, event.NewEvent(events.TopicCursorMoved, events.CursorMoved{
		Old: oldPos, New: newPos, Reason: reason,
	}, eventSource)); err != nil {
		return fmt.Errorf("publishing cursor move: %w", err)
	}

	if err := e.bus.Publish(ctx, event.NewEvent(events.TopicSelectionChanged, events.SelectionChanged{
		Old: oldPos, New: newPos, Reason: reason,
	}, eventSource)); err != nil {
		return fmt.Errorf("publishing selection change: %w", err)
	}
	return nil
}

func position(p buffer.Point) events.Position {
	return events.Position{Line: p.Line, Column: p.Column}
}
