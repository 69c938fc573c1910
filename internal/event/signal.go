package event

import (
	"context"

	"github.com/dshills/vnav/internal/event/topic"
)

// Signal turns events on a topic pattern into plain callbacks.
type Signal struct {
	bus     Bus
	pattern topic.Topic
	opts    []SubscriptionOption
}

// NewSignal creates a Signal for pattern on bus.
func NewSignal(bus Bus, pattern topic.Topic, opts ...SubscriptionOption) *Signal {
	return &Signal{bus: bus, pattern: pattern, opts: opts}
}

// Listen subscribes fn. The returned function unsubscribes it and may be
// called more than once.
func (s *Signal) Listen(fn func()) (func(), error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	sub, err := s.bus.SubscribeFunc(s.pattern, func(context.Context, any) error {
		fn()
		return nil
	}, s.opts...)
	if err != nil {
		return nil, err
	}
	return func() { _ = s.bus.Unsubscribe(sub) }, nil
}
