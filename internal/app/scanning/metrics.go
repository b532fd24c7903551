package scanning

import "context"

// ScannerMetrics defines the metrics operations the orchestrator records
// over the scan lifecycle.
type ScannerMetrics interface {
	IncScansStarted(ctx context.Context)
	IncObjectsSkipped(ctx context.Context)
	IncScanErrors(ctx context.Context)
	IncAlertsRaised(ctx context.Context)
	AddFindingsDetected(ctx context.Context, count int)
}
