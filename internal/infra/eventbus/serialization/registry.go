// Package serialization provides functions for serializing and deserializing
// domain events for transport. Events travel as a universal JSON envelope
// carrying the event type and a raw payload document.
package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/events"
)

// SerializeFunc converts a domain event payload to its wire document.
type SerializeFunc func(payload any) ([]byte, error)

// DeserializeFunc converts a wire document back into a domain event payload.
type DeserializeFunc func(data []byte) (any, error)

var (
	serializers   = make(map[events.EventType]SerializeFunc)
	deserializers = make(map[events.EventType]DeserializeFunc)
)

// registerSerializeFunc registers a function for serializing domain events to wire documents.
func registerSerializeFunc(eventType events.EventType, fn SerializeFunc) {
	serializers[eventType] = fn
}

// registerDeserializeFunc registers a function for deserializing wire documents to domain events.
func registerDeserializeFunc(eventType events.EventType, fn DeserializeFunc) {
	deserializers[eventType] = fn
}

// universalEnvelope is the outer wire format shared by every event type.
type universalEnvelope struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// SerializeEventEnvelope wraps the payload's wire document in the universal
// envelope and returns the bytes to publish.
func SerializeEventEnvelope(eventType events.EventType, payload any) ([]byte, error) {
	serialize, ok := serializers[eventType]
	if !ok {
		return nil, fmt.Errorf("no serializer registered for event type: %s", eventType)
	}

	doc, err := serialize(payload)
	if err != nil {
		return nil, fmt.Errorf("serializing payload for %s: %w", eventType, err)
	}

	return json.Marshal(universalEnvelope{EventType: string(eventType), Payload: doc})
}

// UnmarshalUniversalEnvelope splits consumed bytes into the event type and the
// raw payload document.
func UnmarshalUniversalEnvelope(data []byte) (events.EventType, []byte, error) {
	var envelope universalEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", nil, fmt.Errorf("decoding event envelope: %w", err)
	}
	if envelope.EventType == "" {
		return "", nil, fmt.Errorf("event envelope missing event_type")
	}
	return events.EventType(envelope.EventType), envelope.Payload, nil
}

// DeserializePayload converts a raw payload document into its domain event payload.
func DeserializePayload(eventType events.EventType, data []byte) (any, error) {
	deserialize, ok := deserializers[eventType]
	if !ok {
		return nil, fmt.Errorf("no deserializer registered for event type: %s", eventType)
	}
	return deserialize(data)
}
