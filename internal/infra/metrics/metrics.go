// Package metrics implements the service's metrics interfaces on top of the
// OpenTelemetry metric API. Counters are exported through the provider
// configured at startup.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records scan-lifecycle and event-bus counters for the scanner
// service. It satisfies both the orchestrator's ScannerMetrics and the
// event bus's EventBusMetrics interfaces.
type Metrics struct {
	scansStarted     metric.Int64Counter
	objectsSkipped   metric.Int64Counter
	scanErrors       metric.Int64Counter
	alertsRaised     metric.Int64Counter
	findingsDetected metric.Int64Counter

	messagesPublished metric.Int64Counter
	messagesConsumed  metric.Int64Counter
	publishErrors     metric.Int64Counter
	consumeErrors     metric.Int64Counter
}

// New constructs the counters on the global meter provider under the given
// namespace.
func New(namespace string) (*Metrics, error) {
	meter := otel.GetMeterProvider().Meter(namespace)

	m := new(Metrics)

	var err error
	counters := []struct {
		counter *metric.Int64Counter
		name    string
		desc    string
	}{
		{&m.scansStarted, "scans_started_total", "Total scan cycles started"},
		{&m.objectsSkipped, "objects_skipped_total", "Objects skipped due to unsupported file type"},
		{&m.scanErrors, "scan_errors_total", "Scan cycles that ended in a failure outcome"},
		{&m.alertsRaised, "alerts_raised_total", "Alerts raised for scans with findings"},
		{&m.findingsDetected, "findings_detected_total", "Individual rule findings detected"},
		{&m.messagesPublished, "messages_published_total", "Messages published to the event bus"},
		{&m.messagesConsumed, "messages_consumed_total", "Messages consumed from the event bus"},
		{&m.publishErrors, "publish_errors_total", "Event bus publish failures"},
		{&m.consumeErrors, "consume_errors_total", "Event bus consume failures"},
	}
	for _, c := range counters {
		*c.counter, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating counter %s: %w", c.name, err)
		}
	}

	return m, nil
}

func (m *Metrics) IncScansStarted(ctx context.Context)   { m.scansStarted.Add(ctx, 1) }
func (m *Metrics) IncObjectsSkipped(ctx context.Context) { m.objectsSkipped.Add(ctx, 1) }
func (m *Metrics) IncScanErrors(ctx context.Context)     { m.scanErrors.Add(ctx, 1) }
func (m *Metrics) IncAlertsRaised(ctx context.Context)   { m.alertsRaised.Add(ctx, 1) }

func (m *Metrics) AddFindingsDetected(ctx context.Context, count int) {
	m.findingsDetected.Add(ctx, int64(count))
}

func (m *Metrics) IncMessagePublished(ctx context.Context, topic string) {
	m.messagesPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}

func (m *Metrics) IncMessageConsumed(ctx context.Context, topic string) {
	m.messagesConsumed.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}

func (m *Metrics) IncPublishError(ctx context.Context, topic string) {
	m.publishErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}

func (m *Metrics) IncConsumeError(ctx context.Context, topic string) {
	m.consumeErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}
