package scanning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/events"
	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
	"github.com/bsheehan3117/serverless-security-scanner/pkg/common/logger"
)

// mockObjectStore fakes the storage retrieval interface.
type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, int64, error) {
	args := m.Called(ctx, bucket, key)
	if data := args.Get(0); data != nil {
		return data.([]byte), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

// mockPublisher fakes the domain event publisher.
type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishDomainEvent(ctx context.Context, event events.DomainEvent, opts ...events.PublishOption) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// noopMetrics satisfies ScannerMetrics without recording anything.
type noopMetrics struct{}

func (noopMetrics) IncScansStarted(context.Context)        {}
func (noopMetrics) IncObjectsSkipped(context.Context)      {}
func (noopMetrics) IncScanErrors(context.Context)          {}
func (noopMetrics) IncAlertsRaised(context.Context)        {}
func (noopMetrics) AddFindingsDetected(context.Context, int) {}

func newTestOrchestrator(store scanning.ObjectStore, publisher events.DomainEventPublisher) *ScanOrchestrator {
	return NewScanOrchestrator(
		store,
		publisher,
		logger.Noop(),
		noop.NewTracerProvider().Tracer("test"),
		noopMetrics{},
	)
}

func TestScanOrchestrator_SkipsNonJSONWithoutRetrieval(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "notes.txt"))

	assert.Equal(t, scanning.StatusOK, outcome.Status)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishDomainEvent", mock.Anything, mock.Anything)
}

func TestScanOrchestrator_SuffixCheckIsCaseSensitive(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "app.JSON"))

	assert.Equal(t, scanning.StatusOK, outcome.Status)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanOrchestrator_RetrievalFailureMapsToFailureOutcome(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	store.On("Get", mock.Anything, "configs", "app.json").
		Return(nil, int64(0), errors.New("NoSuchKey: object not found"))

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "app.json"))

	assert.Equal(t, scanning.StatusError, outcome.Status)
	assert.Contains(t, outcome.Message, "NoSuchKey")
	publisher.AssertNotCalled(t, "PublishDomainEvent", mock.Anything, mock.Anything)
}

func TestScanOrchestrator_ParseFailureMapsToFailureOutcome(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	store.On("Get", mock.Anything, "configs", "app.json").
		Return([]byte("{not valid json"), int64(15), nil)

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "app.json"))

	assert.Equal(t, scanning.StatusError, outcome.Status)
	assert.Contains(t, outcome.Message, "app.json")
	publisher.AssertNotCalled(t, "PublishDomainEvent", mock.Anything, mock.Anything)
}

func TestScanOrchestrator_CleanConfigProducesNoAlert(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	body := []byte(`{"ssl_enabled": true, "database": {"password": "/secrets/db/password"}}`)
	store.On("Get", mock.Anything, "configs", "app.json").Return(body, int64(len(body)), nil)

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "app.json"))

	assert.Equal(t, scanning.StatusOK, outcome.Status)
	publisher.AssertNotCalled(t, "PublishDomainEvent", mock.Anything, mock.Anything)
}

func TestScanOrchestrator_VulnerableConfigRaisesAlert(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	body := []byte(`{"ssl_enabled": false, "debug_mode": true, "api_key": "abc123"}`)
	store.On("Get", mock.Anything, "configs", "app.json").Return(body, int64(len(body)), nil)

	var published scanning.AlertRaisedEvent
	publisher.On("PublishDomainEvent", mock.Anything, mock.MatchedBy(func(event events.DomainEvent) bool {
		evt, ok := event.(scanning.AlertRaisedEvent)
		if ok {
			published = evt
		}
		return ok
	})).Return(nil)

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "app.json"))

	assert.Equal(t, scanning.StatusOK, outcome.Status)
	publisher.AssertExpectations(t)

	alert := published.Alert
	require.Equal(t, 3, alert.VulnerabilityCount)
	assert.Equal(t, "s3://configs/app.json", alert.FileScanned)
	assert.Equal(t, map[scanning.Severity]int{
		scanning.SeverityCritical: 0,
		scanning.SeverityHigh:     2,
		scanning.SeverityMedium:   1,
	}, alert.SeveritySummary)
}

func TestScanOrchestrator_PublishFailureMapsToFailureOutcome(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	body := []byte(`{"debug_mode": true}`)
	store.On("Get", mock.Anything, "configs", "app.json").Return(body, int64(len(body)), nil)
	publisher.On("PublishDomainEvent", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "app.json"))

	assert.Equal(t, scanning.StatusError, outcome.Status)
	assert.Contains(t, outcome.Message, "broker unavailable")
}

func TestScanOrchestrator_LargeObjectFlaggedFromRetrievedSize(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	// Content length reported by the store exceeds the threshold even though
	// the body itself is small.
	store.On("Get", mock.Anything, "configs", "big.json").
		Return([]byte(`{}`), int64(11_000_000), nil)

	var published scanning.AlertRaisedEvent
	publisher.On("PublishDomainEvent", mock.Anything, mock.MatchedBy(func(event events.DomainEvent) bool {
		evt, ok := event.(scanning.AlertRaisedEvent)
		if ok {
			published = evt
		}
		return ok
	})).Return(nil)

	outcome := orchestrator.Scan(context.Background(), scanning.NewObjectRef("configs", "big.json"))

	assert.Equal(t, scanning.StatusOK, outcome.Status)
	require.Equal(t, 1, published.Alert.VulnerabilityCount)
	assert.Equal(t, FindingTypeSuspiciousFileSize, published.Alert.Vulnerabilities[0].Type)
}

func TestScanOrchestrator_HandleObjectUploaded(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	body := []byte(`{}`)
	store.On("Get", mock.Anything, "configs", "app.json").Return(body, int64(len(body)), nil)

	acked := false
	evt := events.EventEnvelope{
		Type:    scanning.EventTypeObjectUploaded,
		Payload: scanning.NewObjectUploadedEvent(scanning.NewObjectRef("configs", "app.json"), 2),
	}

	err := orchestrator.HandleObjectUploaded(context.Background(), evt, func(error) { acked = true })
	require.NoError(t, err)
	assert.True(t, acked)
}

func TestScanOrchestrator_HandleObjectUploadedWrongPayload(t *testing.T) {
	store := new(mockObjectStore)
	publisher := new(mockPublisher)
	orchestrator := newTestOrchestrator(store, publisher)

	acked := false
	evt := events.EventEnvelope{Type: scanning.EventTypeObjectUploaded, Payload: "bogus"}

	err := orchestrator.HandleObjectUploaded(context.Background(), evt, func(error) { acked = true })
	require.Error(t, err)
	assert.True(t, acked)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}
