package app

import (
	"context"

	"github.com/dshills/vnav/internal/event"
)

// subscribeDebugTap logs every published event at debug level. It runs
// after all other handlers.
func (a *Application) subscribeDebugTap() error {
	sub, err := a.bus.SubscribeFunc("**", func(_ context.Context, ev any) error {
		attrs := []any{"topic", topicName(ev)}
		if mp, ok := ev.(event.MetadataProvider); ok {
			md := mp.EventMetadata()
			attrs = append(attrs, "id", md.ID, "source", md.Source)
		}
		a.logger.Debug("event", attrs...)
		return nil
	}, event.WithPriority(event.PriorityLow))
	if err != nil {
		return err
	}
	a.tap = sub
	return nil
}
