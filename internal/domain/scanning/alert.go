package scanning

import "time"

// AlertType tags every alert record emitted by the scanner so downstream
// consumers can route on it.
const AlertType = "security_vulnerability_detected"

// Alert aggregates all findings for one scanned file. An alert exists if and
// only if the scan produced at least one finding; it is immutable once built.
type Alert struct {
	// AlertType is the constant record tag.
	AlertType string `json:"alert_type"`

	// Timestamp is when the alert was formatted, UTC.
	Timestamp time.Time `json:"timestamp"`

	// FileScanned identifies the scanned object as a URI (s3://bucket/key).
	FileScanned string `json:"file_scanned"`

	// VulnerabilityCount is the number of findings.
	VulnerabilityCount int `json:"vulnerability_count"`

	// Vulnerabilities holds the findings in evaluation order.
	Vulnerabilities []Finding `json:"vulnerabilities"`

	// SeveritySummary maps each severity level to its finding count. Levels
	// with zero findings are present with value 0.
	SeveritySummary map[Severity]int `json:"severity_summary"`
}
