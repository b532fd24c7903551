package scanning

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/events"
	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
	"github.com/bsheehan3117/serverless-security-scanner/pkg/common/logger"
)

// ScanOrchestrator drives one scan cycle per upload notification:
// retrieve -> parse -> evaluate -> format -> respond. The evaluator and
// formatter are total functions; every retrieval, parse, or publish failure
// is logged and converted into a failure outcome, never propagated.
type ScanOrchestrator struct {
	store     scanning.ObjectStore
	evaluator *RuleEvaluator
	formatter *AlertFormatter
	publisher events.DomainEventPublisher

	logger  *logger.Logger
	tracer  trace.Tracer
	metrics ScannerMetrics
}

// NewScanOrchestrator creates a scan orchestrator with its collaborators.
func NewScanOrchestrator(
	store scanning.ObjectStore,
	publisher events.DomainEventPublisher,
	logger *logger.Logger,
	tracer trace.Tracer,
	metrics ScannerMetrics,
) *ScanOrchestrator {
	logger = logger.With("component", "scan_orchestrator")
	return &ScanOrchestrator{
		store:     store,
		evaluator: NewRuleEvaluator(),
		formatter: NewAlertFormatter(),
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
		metrics:   metrics,
	}
}

// HandleObjectUploaded adapts the orchestrator to the event bus handler
// contract. Scan failures are reflected in the outcome and logs; the event is
// acknowledged either way since the scanner performs no redelivery retries.
func (o *ScanOrchestrator) HandleObjectUploaded(ctx context.Context, evt events.EventEnvelope, ack events.AckFunc) error {
	defer ack(nil)

	upload, ok := evt.Payload.(scanning.ObjectUploadedEvent)
	if !ok {
		err := fmt.Errorf("expected ObjectUploadedEvent payload, got %T", evt.Payload)
		o.logger.Error(ctx, "dropping event with unexpected payload", "error", err, "event_type", evt.Type)
		return err
	}

	outcome := o.Scan(ctx, upload.Ref)
	o.logger.Info(ctx, "scan cycle finished",
		"object", upload.Ref.URI(),
		"status", outcome.Status,
		"message", outcome.Message,
	)

	return nil
}

// Scan executes one full scan cycle for the referenced object and returns the
// explicit outcome: 200 for skipped objects and completed scans (with or
// without findings), 500 for any handled failure with the reason embedded in
// the message.
func (o *ScanOrchestrator) Scan(ctx context.Context, ref scanning.ObjectRef) scanning.ScanOutcome {
	scanID := uuid.New()
	logger := o.logger.With("scan_id", scanID.String(), "object", ref.URI())

	ctx, span := o.tracer.Start(ctx, "scan_orchestrator.scan",
		trace.WithAttributes(
			attribute.String("scan_id", scanID.String()),
			attribute.String("bucket", ref.Bucket),
			attribute.String("key", ref.Key),
		))
	defer span.End()

	o.metrics.IncScansStarted(ctx)

	// Non-matching extension is not an error; the object is skipped with a
	// success outcome and no retrieval happens.
	if !ref.Scannable() {
		logger.Debug(ctx, "skipping object without .json suffix")
		span.AddEvent("object_skipped")
		o.metrics.IncObjectsSkipped(ctx)
		return scanning.SuccessOutcome("skipped: not a JSON configuration file")
	}

	data, size, err := o.store.Get(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return o.fail(ctx, span, logger, fmt.Errorf("retrieving %s: %w", ref.URI(), err))
	}
	span.SetAttributes(attribute.Int64("object.size", size))

	record, err := scanning.ParseConfigRecord(data)
	if err != nil {
		return o.fail(ctx, span, logger, fmt.Errorf("parsing %s: %w", ref.URI(), err))
	}

	findings := o.evaluator.Evaluate(record, &size)
	o.metrics.AddFindingsDetected(ctx, len(findings))
	span.SetAttributes(attribute.Int("findings.count", len(findings)))

	alert := o.formatter.Format(ref, findings)
	if alert == nil {
		logger.Info(ctx, "scan completed with no findings")
		return scanning.SuccessOutcome("scan completed: no findings")
	}

	// The structured log entry is the primary alert sink; the domain event
	// feeds the alerts topic for downstream consumers.
	logger.Warn(ctx, "security alert raised",
		"alert_type", alert.AlertType,
		"file_scanned", alert.FileScanned,
		"vulnerability_count", alert.VulnerabilityCount,
		"severity_summary", alert.SeveritySummary,
		"vulnerabilities", alert.Vulnerabilities,
	)

	if err := o.publisher.PublishDomainEvent(ctx,
		scanning.NewAlertRaisedEvent(scanID, *alert),
		events.WithKey(scanID.String()),
	); err != nil {
		return o.fail(ctx, span, logger, fmt.Errorf("publishing alert for %s: %w", ref.URI(), err))
	}
	o.metrics.IncAlertsRaised(ctx)

	return scanning.SuccessOutcome(fmt.Sprintf("scan completed: %d findings", alert.VulnerabilityCount))
}

// fail logs the handled failure, records it on the span and metrics, and
// converts it into a 500 outcome. Failures are never silently dropped.
func (o *ScanOrchestrator) fail(ctx context.Context, span trace.Span, logger *logger.Logger, err error) scanning.ScanOutcome {
	logger.Error(ctx, "scan cycle failed", "error", err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	o.metrics.IncScanErrors(ctx)
	return scanning.FailureOutcome(err)
}
