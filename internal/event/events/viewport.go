package events

import "github.com/dshills/vnav/internal/event/topic"

// TopicViewportResized is published when the terminal size changes.
const TopicViewportResized topic.Topic = "viewport.resized"

// ViewportResized carries the new text area size in cells.
type ViewportResized struct {
	Width  int
	Height int
}
