package events

import "context"

// AckFunc acknowledges processing of an event. A nil error marks the event
// as successfully handled; a non-nil error signals the transport that
// processing failed.
type AckFunc func(err error)

// HandlerFunc processes a single event envelope. The ack callback must be
// invoked exactly once when processing concludes.
type HandlerFunc func(ctx context.Context, evt EventEnvelope, ack AckFunc) error

// EventHandler defines the contract for components that process domain events.
// Each handler must declare which event types it can process and implement the
// logic to handle those events. The event dispatcher routes events to the
// appropriate handlers based on the event type.
type EventHandler interface {
	// HandleEvent processes a domain event and returns an error if processing fails.
	HandleEvent(ctx context.Context, evt EventEnvelope, ack AckFunc) error

	// SupportedEvents returns the event types this handler can process.
	SupportedEvents() []EventType
}
