package events

import "time"

// DomainEvent is implemented by every event the system publishes. Concrete
// events carry their own payload fields; the interface exposes only what the
// event plumbing needs for routing and bookkeeping.
type DomainEvent interface {
	// EventType identifies the category of this event for routing and handling.
	EventType() EventType

	// OccurredAt records when this event was created, enabling temporal tracking
	// and debugging of event flows.
	OccurredAt() time.Time
}

// EventMetadata carries transport-level position information for a consumed
// event, used for logging and diagnostics.
type EventMetadata struct {
	// Partition is the transport partition the event was consumed from.
	Partition int32
	// Offset is the transport offset of the event within its partition.
	Offset int64
}

// EventEnvelope wraps an event payload with the routing and bookkeeping data
// the event bus needs, providing a standardized format for event processing
// and distribution.
type EventEnvelope struct {
	// Type identifies the category of this event for routing and handling.
	Type EventType

	// Key enables consistent event routing, typically containing a business
	// identifier that events can be grouped or partitioned by.
	Key string

	// Timestamp records when this event was created.
	Timestamp time.Time

	// Metadata holds transport position information for consumed events.
	Metadata EventMetadata

	// Payload contains the actual event data. The concrete type depends on
	// the EventType.
	Payload any
}
