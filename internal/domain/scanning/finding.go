package scanning

// RedactedValue replaces secret material in findings so alerts never leak
// the credential they flagged.
const RedactedValue = "REDACTED"

// Finding represents one detected rule violation in a scanned configuration
// file. Findings are immutable once created.
type Finding struct {
	// Type is the rule category that produced this finding (e.g. "ssl_disabled").
	Type string `json:"type"`

	// Severity classifies how serious the violation is.
	Severity Severity `json:"severity"`

	// Field is the dotted path into the configuration record that triggered
	// the rule.
	Field string `json:"field"`

	// Value is the offending value, or RedactedValue when it is secret material.
	Value string `json:"value"`

	// Recommendation is human-readable remediation text.
	Recommendation string `json:"recommendation"`
}
