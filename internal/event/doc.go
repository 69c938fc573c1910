// Package event provides the synchronous publish/subscribe bus that links
// the editor's components.
//
// Every publish runs on the caller's goroutine, which in vnav is always the
// loop goroutine, so handlers see state changes in the order they happen.
// Subscriptions use topic patterns (see package topic) and run in priority
// order, lower values first.
//
//	bus := event.NewBus()
//	sub, _ := bus.SubscribeFunc("cursor.**", func(ctx context.Context, ev any) error {
//	    return nil
//	}, event.WithPriority(event.PriorityHigh))
//	defer bus.Unsubscribe(sub)
//
//	bus.Publish(ctx, event.NewEvent(events.TopicCursorMoved, payload, "editor"))
//
// Handler panics are recovered, reported through the bus panic handler and
// returned to the publisher as *PanicError values joined with handler errors.
//
// Signal adapts a topic pattern to a plain callback source; navline uses it
// to hear about selection changes without importing this package.
package event
