package event

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/vnav/internal/event/topic"
)

// Bus is the synchronous event bus.
type Bus interface {
	// Publish delivers event to every matching subscription before returning.
	// Handler errors and panics are joined into the returned error.
	Publish(ctx context.Context, event any) error

	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	Stats() Stats
}

type bus struct {
	registry *Registry
	config   busConfig

	eventsPublished  atomic.Uint64
	eventsDelivered  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{
		registry: NewRegistry(),
		config:   config,
	}
}

// Publish implements Bus.
func (b *bus) Publish(ctx context.Context, event any) error {
	eventTopic := topicOf(event)
	if !eventTopic.IsValid() || eventTopic.IsWildcard() {
		return ErrInvalidEvent
	}

	subs := b.registry.Match(eventTopic)
	if len(subs) == 0 {
		return nil
	}
	b.eventsPublished.Add(1)

	var errs []error
	delivered := false
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !sub.shouldDeliver(event) {
			continue
		}

		b.handlersExecuted.Add(1)
		if err := b.deliver(ctx, sub, eventTopic, event); err != nil {
			var pe *PanicError
			if !errors.As(err, &pe) {
				b.handlerErrors.Add(1)
			}
			errs = append(errs, err)
			continue
		}
		delivered = true

		if sub.config.Once {
			sub.Cancel()
			b.registry.Remove(sub.id)
		}
	}

	if delivered {
		b.eventsDelivered.Add(1)
	}
	return errors.Join(errs...)
}

// deliver runs one handler with panic recovery.
func (b *bus) deliver(ctx context.Context, sub *subscription, t topic.Topic, event any) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b.handlerPanics.Add(1)
		err = &PanicError{
			SubscriptionID: sub.id,
			Topic:          t.String(),
			Value:          r,
			Stack:          string(debug.Stack()),
		}
		func() {
			// A panicking panic handler must not take the publisher down.
			defer func() { _ = recover() }()
			b.config.panicHandler(event, sub, r)
		}()
	}()

	return sub.handler.Handle(ctx, event)
}

// Subscribe implements Bus.
func (b *bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(uuid.NewString(), pattern, handler, opts...)
	b.registry.Add(sub)
	return sub, nil
}

// SubscribeFunc implements Bus.
func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe implements Bus.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats implements Bus.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.CountActive(),
	}
}

func topicOf(event any) topic.Topic {
	if tp, ok := event.(TopicProvider); ok {
		return tp.EventTopic()
	}
	return ""
}
