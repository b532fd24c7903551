package scanning

import (
	"time"

	"github.com/google/uuid"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/events"
)

// Event types for the scanning domain:
const (
	// EventTypeObjectUploaded signals that a new object landed in a watched bucket.
	EventTypeObjectUploaded events.EventType = "ObjectUploaded"

	// EventTypeAlertRaised signals that a scan produced findings.
	EventTypeAlertRaised events.EventType = "AlertRaised"
)

// ObjectUploadedEvent represents the upload notification that triggers one
// scan cycle.
type ObjectUploadedEvent struct {
	occurredAt time.Time
	Ref        ObjectRef
	Size       int64
}

// NewObjectUploadedEvent creates a new object uploaded event.
func NewObjectUploadedEvent(ref ObjectRef, size int64) ObjectUploadedEvent {
	return ObjectUploadedEvent{
		occurredAt: time.Now(),
		Ref:        ref,
		Size:       size,
	}
}

// EventType satisfies the events.DomainEvent interface.
func (e ObjectUploadedEvent) EventType() events.EventType { return EventTypeObjectUploaded }

// OccurredAt satisfies the events.DomainEvent interface.
func (e ObjectUploadedEvent) OccurredAt() time.Time { return e.occurredAt }

// AlertRaisedEvent carries the alert produced by a scan with findings.
type AlertRaisedEvent struct {
	occurredAt time.Time
	ScanID     uuid.UUID
	Alert      Alert
}

// NewAlertRaisedEvent creates a new alert raised event.
func NewAlertRaisedEvent(scanID uuid.UUID, alert Alert) AlertRaisedEvent {
	return AlertRaisedEvent{
		occurredAt: time.Now(),
		ScanID:     scanID,
		Alert:      alert,
	}
}

// EventType satisfies the events.DomainEvent interface.
func (e AlertRaisedEvent) EventType() events.EventType { return EventTypeAlertRaised }

// OccurredAt satisfies the events.DomainEvent interface.
func (e AlertRaisedEvent) OccurredAt() time.Time { return e.occurredAt }
