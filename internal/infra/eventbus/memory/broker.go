// Package memory provides an in-memory implementation of the event bus.
// It offers a lightweight, non-persistent broker suitable for testing and
// development environments where durability is not required.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/events"
)

var _ events.EventBus = (*EventBus)(nil)

// EventBus delivers event envelopes to subscribed handlers synchronously,
// in process. Useful for tests and single-binary development setups.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]events.HandlerFunc
}

// NewEventBus creates and initializes a new in-memory event bus with an empty
// handler registry.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[events.EventType][]events.HandlerFunc)}
}

// Publish delivers the envelope to every handler subscribed to its type,
// stopping at the first handler error. Handlers are copied before iteration
// so a subscription during delivery cannot deadlock.
func (b *EventBus) Publish(ctx context.Context, event events.EventEnvelope, opts ...events.PublishOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var pParams events.PublishParams
	for _, opt := range opts {
		opt(&pParams)
	}
	if pParams.Key != "" {
		event.Key = pParams.Key
	}

	b.mu.RLock()
	handlersCopy := make([]events.HandlerFunc, len(b.handlers[event.Type]))
	copy(handlersCopy, b.handlers[event.Type])
	b.mu.RUnlock()

	ack := func(error) {}

	for _, handler := range handlersCopy {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := handler(ctx, event, ack); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers the handler for each event type. The subscription is
// removed when the provided context is cancelled.
func (b *EventBus) Subscribe(ctx context.Context, eventTypes []events.EventType, handler events.HandlerFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	indexes := make(map[events.EventType]int, len(eventTypes))
	for _, et := range eventTypes {
		indexes[et] = len(b.handlers[et])
		b.handlers[et] = append(b.handlers[et], handler)
	}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		for et, idx := range indexes {
			list := b.handlers[et]
			if idx < len(list) {
				b.handlers[et] = append(list[:idx], list[idx+1:]...)
			}
		}
	}()

	return nil
}

// Close releases the handler registry.
func (b *EventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[events.EventType][]events.HandlerFunc)
	return nil
}
