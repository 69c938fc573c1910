package events

import "github.com/dshills/vnav/internal/event/topic"

// TopicBufferLoaded is published when a buffer's content is replaced.
const TopicBufferLoaded topic.Topic = "buffer.loaded"

// BufferLoaded describes newly loaded content.
type BufferLoaded struct {
	// Path is the source file, empty for scratch content.
	Path string

	// Lines is the number of lines loaded.
	Lines int
}
