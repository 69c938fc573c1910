// Package events defines the topics and payloads published on the vnav bus.
//
// Topics follow <subsystem>.<entity>.<action>:
//
//	cursor.moved
//	cursor.selection.changed
//	buffer.loaded
//	config.reloaded
//	viewport.resized
//
// Payloads are plain structs wrapped with event.NewEvent:
//
//	evt := event.NewEvent(events.TopicSelectionChanged,
//	    events.SelectionChanged{Old: from, New: to, Reason: events.ReasonClick},
//	    "editor",
//	)
//	bus.Publish(ctx, evt)
package events
