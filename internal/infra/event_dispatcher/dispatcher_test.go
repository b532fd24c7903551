package eventdispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/events"
	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
	"github.com/bsheehan3117/serverless-security-scanner/pkg/common/logger"
)

func newTestDispatcher() *Dispatcher {
	return New(noop.NewTracerProvider().Tracer("test"), logger.Noop())
}

func TestDispatcherRoutesToRegisteredHandler(t *testing.T) {
	dispatcher := newTestDispatcher()
	ctx := context.Background()

	var handled events.EventEnvelope
	dispatcher.RegisterHandler(ctx, scanning.EventTypeObjectUploaded,
		func(ctx context.Context, evt events.EventEnvelope, ack events.AckFunc) error {
			handled = evt
			ack(nil)
			return nil
		})

	evt := events.EventEnvelope{
		Type:     scanning.EventTypeObjectUploaded,
		Metadata: events.EventMetadata{Partition: 2, Offset: 42},
	}
	err := dispatcher.Dispatch(ctx, evt, func(error) {})
	require.NoError(t, err)
	assert.Equal(t, scanning.EventTypeObjectUploaded, handled.Type)
	assert.Equal(t, int64(42), handled.Metadata.Offset)
}

func TestDispatcherHandlerNotFound(t *testing.T) {
	dispatcher := newTestDispatcher()

	evt := events.EventEnvelope{Type: scanning.EventTypeAlertRaised}
	err := dispatcher.Dispatch(context.Background(), evt, func(error) {})

	var notFound *HandlerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, scanning.EventTypeAlertRaised, notFound.EventType)
}

func TestDispatcherPropagatesHandlerError(t *testing.T) {
	dispatcher := newTestDispatcher()
	ctx := context.Background()

	handlerErr := errors.New("boom")
	dispatcher.RegisterHandler(ctx, scanning.EventTypeObjectUploaded,
		func(ctx context.Context, evt events.EventEnvelope, ack events.AckFunc) error {
			return handlerErr
		})

	err := dispatcher.Dispatch(ctx, events.EventEnvelope{Type: scanning.EventTypeObjectUploaded}, func(error) {})
	assert.ErrorIs(t, err, handlerErr)
}

func TestDispatcherReplacesHandler(t *testing.T) {
	dispatcher := newTestDispatcher()
	ctx := context.Background()

	first, second := 0, 0
	dispatcher.RegisterHandler(ctx, scanning.EventTypeObjectUploaded,
		func(ctx context.Context, evt events.EventEnvelope, ack events.AckFunc) error {
			first++
			return nil
		})
	dispatcher.RegisterHandler(ctx, scanning.EventTypeObjectUploaded,
		func(ctx context.Context, evt events.EventEnvelope, ack events.AckFunc) error {
			second++
			return nil
		})

	require.NoError(t, dispatcher.Dispatch(ctx, events.EventEnvelope{Type: scanning.EventTypeObjectUploaded}, func(error) {}))
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}
