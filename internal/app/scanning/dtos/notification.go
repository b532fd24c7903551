// Package dtos defines the wire shapes exchanged with external systems,
// decoupling transport payloads from domain types.
package dtos

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// S3EventNotification is the native S3 upload-notification document delivered
// on the notifications topic. Only the first record is consulted.
type S3EventNotification struct {
	Records []S3EventRecord `json:"Records" validate:"required,min=1,dive"`
}

// S3EventRecord is one record within an S3 event notification.
type S3EventRecord struct {
	EventName string   `json:"eventName"`
	S3        S3Entity `json:"s3" validate:"required"`
}

// S3Entity nests the bucket and object identity within a record.
type S3Entity struct {
	Bucket S3BucketEntity `json:"bucket" validate:"required"`
	Object S3ObjectEntity `json:"object" validate:"required"`
}

// S3BucketEntity names the bucket that received the object.
type S3BucketEntity struct {
	Name string `json:"name" validate:"required"`
}

// S3ObjectEntity identifies the uploaded object.
type S3ObjectEntity struct {
	Key  string `json:"key" validate:"required"`
	Size int64  `json:"size"`
}

// ParseS3EventNotification decodes and validates a raw notification document.
func ParseS3EventNotification(data []byte) (S3EventNotification, error) {
	var notification S3EventNotification
	if err := json.Unmarshal(data, &notification); err != nil {
		return S3EventNotification{}, fmt.Errorf("decoding S3 event notification: %w", err)
	}
	if err := validate.Struct(notification); err != nil {
		return S3EventNotification{}, fmt.Errorf("invalid S3 event notification: %w", err)
	}
	return notification, nil
}

// ToDomain converts the notification into the domain upload event, consulting
// the first record.
func (n S3EventNotification) ToDomain() scanning.ObjectUploadedEvent {
	record := n.Records[0]
	ref := scanning.NewObjectRef(record.S3.Bucket.Name, record.S3.Object.Key)
	return scanning.NewObjectUploadedEvent(ref, record.S3.Object.Size)
}

// FromDomain renders a domain upload event as a single-record notification
// document, the wire shape producers publish.
func FromDomain(event scanning.ObjectUploadedEvent) S3EventNotification {
	return S3EventNotification{
		Records: []S3EventRecord{{
			EventName: "ObjectCreated:Put",
			S3: S3Entity{
				Bucket: S3BucketEntity{Name: event.Ref.Bucket},
				Object: S3ObjectEntity{Key: event.Ref.Key, Size: event.Size},
			},
		}},
	}
}
