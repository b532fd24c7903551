package scanning

import (
	"time"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
)

// AlertFormatter turns a findings list into an alert record. It performs no
// I/O; emitting the record is the caller's responsibility.
type AlertFormatter struct{}

// NewAlertFormatter creates an alert formatter.
func NewAlertFormatter() *AlertFormatter { return &AlertFormatter{} }

// Format builds the alert for one scanned object. It returns nil when
// findings is empty, signaling that no alert is needed. The timestamp is
// captured at formatting time, UTC. The severity summary always contains
// every level, zero counts included.
func (f *AlertFormatter) Format(ref scanning.ObjectRef, findings []scanning.Finding) *scanning.Alert {
	if len(findings) == 0 {
		return nil
	}

	summary := make(map[scanning.Severity]int, len(scanning.Severities()))
	for _, sev := range scanning.Severities() {
		summary[sev] = 0
	}
	for _, finding := range findings {
		summary[finding.Severity]++
	}

	return &scanning.Alert{
		AlertType:          scanning.AlertType,
		Timestamp:          time.Now().UTC(),
		FileScanned:        ref.URI(),
		VulnerabilityCount: len(findings),
		Vulnerabilities:    findings,
		SeveritySummary:    summary,
	}
}
