// Package scanning contains the domain model for configuration-file security
// scanning: the parsed configuration record, rule findings, and the alert
// aggregate raised when a scan detects vulnerabilities.
package scanning

// Severity classifies how serious a finding is. Values are ordered by
// descending severity.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
)

// Severities returns all severity levels in descending order. The alert
// severity summary includes every level, zero counts included.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium}
}
