package events

import "github.com/dshills/vnav/internal/event/topic"

// Config event topics.
const (
	// TopicConfigReloaded is published after a changed config file has been applied.
	TopicConfigReloaded topic.Topic = "config.reloaded"

	// TopicConfigReloadFailed is published when a changed config file cannot be applied.
	TopicConfigReloadFailed topic.Topic = "config.reload.failed"
)

// ConfigReloaded is published after a reload.
type ConfigReloaded struct {
	Path string
}

// ConfigReloadFailed carries the reason a reload was rejected.
type ConfigReloadFailed struct {
	Path  string
	Error string
}
