package serialization

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bsheehan3117/serverless-security-scanner/internal/app/scanning/dtos"
	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
)

func init() {
	registerSerializeFunc(scanning.EventTypeObjectUploaded, serializeObjectUploaded)
	registerDeserializeFunc(scanning.EventTypeObjectUploaded, deserializeObjectUploaded)

	registerSerializeFunc(scanning.EventTypeAlertRaised, serializeAlertRaised)
	registerDeserializeFunc(scanning.EventTypeAlertRaised, deserializeAlertRaised)
}

// ObjectUploaded travels as the native S3 event-notification document so the
// scanner can consume bridge topics fed directly from bucket notifications.
func serializeObjectUploaded(payload any) ([]byte, error) {
	event, ok := payload.(scanning.ObjectUploadedEvent)
	if !ok {
		return nil, fmt.Errorf("expected ObjectUploadedEvent, got %T", payload)
	}
	return json.Marshal(dtos.FromDomain(event))
}

func deserializeObjectUploaded(data []byte) (any, error) {
	notification, err := dtos.ParseS3EventNotification(data)
	if err != nil {
		return nil, err
	}
	return notification.ToDomain(), nil
}

// alertRaisedDoc is the wire shape for raised alerts.
type alertRaisedDoc struct {
	ScanID     uuid.UUID      `json:"scan_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Alert      scanning.Alert `json:"alert"`
}

func serializeAlertRaised(payload any) ([]byte, error) {
	event, ok := payload.(scanning.AlertRaisedEvent)
	if !ok {
		return nil, fmt.Errorf("expected AlertRaisedEvent, got %T", payload)
	}
	return json.Marshal(alertRaisedDoc{
		ScanID:     event.ScanID,
		OccurredAt: event.OccurredAt(),
		Alert:      event.Alert,
	})
}

func deserializeAlertRaised(data []byte) (any, error) {
	var doc alertRaisedDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding alert raised payload: %w", err)
	}
	return scanning.NewAlertRaisedEvent(doc.ScanID, doc.Alert), nil
}
