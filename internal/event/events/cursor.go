package events

import "github.com/dshills/vnav/internal/event/topic"

// Cursor event topics.
const (
	// TopicCursorMoved is published whenever the cursor changes position.
	TopicCursorMoved topic.Topic = "cursor.moved"

	// TopicSelectionChanged is published after every cursor or selection change,
	// whatever caused it.
	TopicSelectionChanged topic.Topic = "cursor.selection.changed"
)

// Position is a cursor location.
type Position struct {
	// Line is the zero-based line number.
	Line int

	// Column is the zero-based byte offset within the line.
	Column int
}

// MoveReason says what caused a cursor change.
type MoveReason string

// Move reasons.
const (
	ReasonVertical      MoveReason = "vertical"
	ReasonPage          MoveReason = "page"
	ReasonHorizontal    MoveReason = "horizontal"
	ReasonLineStart     MoveReason = "line-start"
	ReasonLineEnd       MoveReason = "line-end"
	ReasonDocumentStart MoveReason = "document-start"
	ReasonDocumentEnd   MoveReason = "document-end"
	ReasonClick         MoveReason = "click"
	ReasonLoad          MoveReason = "load"
)

// IsVertical reports whether the move travels between lines while keeping a goal column.
func (r MoveReason) IsVertical() bool {
	return r == ReasonVertical || r == ReasonPage
}

// CursorMoved is published when the cursor moves.
type CursorMoved struct {
	Old    Position
	New    Position
	Reason MoveReason
}

// SelectionChanged is published after any selection change.
type SelectionChanged struct {
	Old    Position
	New    Position
	Reason MoveReason
}
