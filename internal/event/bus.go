package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/bstviz/internal/event/topic"
)

// HandlerFunc handles a published event.
type HandlerFunc func(ctx context.Context, event any) error

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, recovered any)

// Subscription is a registered handler.
type Subscription struct {
	id      string
	pattern topic.Topic
	handler HandlerFunc
	active  atomic.Bool
}

// ID returns the unique subscription ID.
func (s *Subscription) ID() string { return s.id }

// Pattern returns the topic pattern the subscription was registered with.
func (s *Subscription) Pattern() topic.Topic { return s.pattern }

// IsActive reports whether the subscription still receives events.
func (s *Subscription) IsActive() bool { return s.active.Load() }

// Stats contains bus statistics.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlersExecuted  uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets a callback invoked when a handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// WithErrorHandler sets a callback invoked when a handler returns an error.
func WithErrorHandler(h func(event any, err error)) BusOption {
	return func(b *Bus) {
		b.errorHandler = h
	}
}

// Bus delivers events synchronously to matching subscriptions.
// Bus is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription

	panicHandler PanicHandler
	errorHandler func(event any, err error)

	// Stats
	eventsPublished  atomic.Uint64
	eventsDelivered  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for every event whose topic matches pattern.
func (b *Bus) Subscribe(pattern topic.Topic, fn HandlerFunc) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}

	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: fn,
	}
	sub.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.Index(b.subs, sub)
	if i < 0 {
		return ErrSubscriptionNotFound
	}
	sub.active.Store(false)
	b.subs = slices.Delete(b.subs, i, i+1)
	return nil
}

// Publish delivers the event to every matching subscription in
// registration order. The event must implement TopicProvider or be an
// Envelope.
func (b *Bus) Publish(ctx context.Context, event any) error {
	eventTopic := ToEnvelope(event).Topic
	if eventTopic == "" {
		return ErrInvalidEvent
	}

	b.mu.RLock()
	var matched []*Subscription
	for _, sub := range b.subs {
		if eventTopic.Matches(sub.pattern) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	b.eventsPublished.Add(1)

	for _, sub := range matched {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sub.IsActive() {
			continue
		}
		b.dispatch(ctx, sub, event)
	}
	return nil
}

// dispatch runs one handler, recovering panics.
func (b *Bus) dispatch(ctx context.Context, sub *Subscription, event any) {
	b.handlersExecuted.Add(1)

	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(event, r)
			}
		}
	}()

	if err := sub.handler(ctx, event); err != nil {
		b.handlerErrors.Add(1)
		if b.errorHandler != nil {
			b.errorHandler(event, err)
		}
		return
	}
	b.eventsDelivered.Add(1)
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}
