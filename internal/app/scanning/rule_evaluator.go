// Package scanning implements the application services for configuration-file
// security scanning: the fixed rule checklist, alert formatting, and the scan
// orchestrator that drives one cycle per upload notification.
package scanning

import (
	"strconv"
	"strings"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
)

// MaxConfigFileSize is the file-size threshold above which a configuration
// file is flagged as suspicious: 10 MiB.
const MaxConfigFileSize int64 = 10 * 1024 * 1024

// Rule categories produced by the evaluator.
const (
	FindingTypeSSLDisabled        = "ssl_disabled"
	FindingTypeDebugModeEnabled   = "debug_mode_enabled"
	FindingTypeHardcodedPassword  = "hardcoded_password"
	FindingTypeHardcodedAPIKey    = "hardcoded_api_key"
	FindingTypeSuspiciousFileSize = "suspicious_file_size"
)

// RuleEvaluator applies the fixed security checklist to a parsed configuration
// record. It is a total function over its inputs: missing fields mean a rule
// is not applicable, never an error, and no rule short-circuits another.
type RuleEvaluator struct{}

// NewRuleEvaluator creates a rule evaluator.
func NewRuleEvaluator() *RuleEvaluator { return &RuleEvaluator{} }

// Evaluate runs every rule against the record and returns findings in rule
// declaration order: ssl, debug, password, api key, file size. fileSize is
// optional; nil skips the size rule.
func (e *RuleEvaluator) Evaluate(record scanning.ConfigRecord, fileSize *int64) []scanning.Finding {
	var findings []scanning.Finding

	if v, ok := record.Get("ssl_enabled"); ok {
		if enabled, isBool := v.(bool); isBool && !enabled {
			findings = append(findings, scanning.Finding{
				Type:           FindingTypeSSLDisabled,
				Severity:       scanning.SeverityHigh,
				Field:          "ssl_enabled",
				Value:          "false",
				Recommendation: "Enable SSL/TLS for all connections",
			})
		}
	}

	if v, ok := record.Get("debug_mode"); ok {
		if enabled, isBool := v.(bool); isBool && enabled {
			findings = append(findings, scanning.Finding{
				Type:           FindingTypeDebugModeEnabled,
				Severity:       scanning.SeverityMedium,
				Field:          "debug_mode",
				Value:          "true",
				Recommendation: "Disable debug mode in production environments",
			})
		}
	}

	// Secret-like values referencing an external secret store are path-like;
	// absence of "/" implies a literal secret. Values are coerced to their
	// string form before the check, so numeric or boolean secrets are
	// stringified rather than type-checked.
	if v, ok := record.Get("database.password"); ok {
		if !strings.Contains(scanning.StringValue(v), "/") {
			findings = append(findings, scanning.Finding{
				Type:           FindingTypeHardcodedPassword,
				Severity:       scanning.SeverityCritical,
				Field:          "database.password",
				Value:          scanning.RedactedValue,
				Recommendation: "Store database credentials in a secrets manager and reference them by path",
			})
		}
	}

	if v, ok := record.Get("api_key"); ok {
		if !strings.Contains(scanning.StringValue(v), "/") {
			findings = append(findings, scanning.Finding{
				Type:           FindingTypeHardcodedAPIKey,
				Severity:       scanning.SeverityHigh,
				Field:          "api_key",
				Value:          scanning.RedactedValue,
				Recommendation: "Store API keys in a secrets manager and reference them by path",
			})
		}
	}

	if fileSize != nil && *fileSize > MaxConfigFileSize {
		findings = append(findings, scanning.Finding{
			Type:           FindingTypeSuspiciousFileSize,
			Severity:       scanning.SeverityMedium,
			Field:          "file_size",
			Value:          strconv.FormatInt(*fileSize, 10),
			Recommendation: "Review why a configuration file exceeds 10 MiB",
		})
	}

	return findings
}
