package scanning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
)

func int64Ptr(v int64) *int64 { return &v }

func TestRuleEvaluator_SSLDisabled(t *testing.T) {
	tests := []struct {
		name        string
		record      scanning.ConfigRecord
		wantFinding bool
	}{
		{
			name:        "ssl explicitly disabled",
			record:      scanning.ConfigRecord{"ssl_enabled": false},
			wantFinding: true,
		},
		{
			name:        "ssl enabled",
			record:      scanning.ConfigRecord{"ssl_enabled": true},
			wantFinding: false,
		},
		{
			name:        "ssl field absent",
			record:      scanning.ConfigRecord{},
			wantFinding: false,
		},
		{
			name:        "ssl field is a string, not a bool",
			record:      scanning.ConfigRecord{"ssl_enabled": "false"},
			wantFinding: false,
		},
	}

	evaluator := NewRuleEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := evaluator.Evaluate(tt.record, nil)
			if !tt.wantFinding {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, FindingTypeSSLDisabled, findings[0].Type)
			assert.Equal(t, scanning.SeverityHigh, findings[0].Severity)
			assert.Equal(t, "ssl_enabled", findings[0].Field)
		})
	}
}

func TestRuleEvaluator_DebugMode(t *testing.T) {
	evaluator := NewRuleEvaluator()

	findings := evaluator.Evaluate(scanning.ConfigRecord{"debug_mode": true}, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, FindingTypeDebugModeEnabled, findings[0].Type)
	assert.Equal(t, scanning.SeverityMedium, findings[0].Severity)

	findings = evaluator.Evaluate(scanning.ConfigRecord{"debug_mode": false}, nil)
	assert.Empty(t, findings)
}

func TestRuleEvaluator_HardcodedPassword(t *testing.T) {
	tests := []struct {
		name        string
		record      scanning.ConfigRecord
		wantFinding bool
	}{
		{
			name: "literal password without slash",
			record: scanning.ConfigRecord{
				"database": map[string]any{"password": "p@ssw0rd"},
			},
			wantFinding: true,
		},
		{
			name: "secret store path is not flagged",
			record: scanning.ConfigRecord{
				"database": map[string]any{"password": "/secrets/db/password"},
			},
			wantFinding: false,
		},
		{
			name: "slash anywhere in the value suppresses the finding",
			record: scanning.ConfigRecord{
				"database": map[string]any{"password": "abc/def"},
			},
			wantFinding: false,
		},
		{
			name:        "no database field",
			record:      scanning.ConfigRecord{"api_endpoint": "https://example.com"},
			wantFinding: false,
		},
		{
			name:        "database is not a mapping",
			record:      scanning.ConfigRecord{"database": "postgres://localhost"},
			wantFinding: false,
		},
		{
			name: "numeric password is stringified and flagged",
			record: scanning.ConfigRecord{
				"database": map[string]any{"password": float64(123456)},
			},
			wantFinding: true,
		},
	}

	evaluator := NewRuleEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := evaluator.Evaluate(tt.record, nil)
			if !tt.wantFinding {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, FindingTypeHardcodedPassword, findings[0].Type)
			assert.Equal(t, scanning.SeverityCritical, findings[0].Severity)
			assert.Equal(t, scanning.RedactedValue, findings[0].Value)
		})
	}
}

func TestRuleEvaluator_HardcodedAPIKey(t *testing.T) {
	evaluator := NewRuleEvaluator()

	findings := evaluator.Evaluate(scanning.ConfigRecord{"api_key": "abc123"}, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, FindingTypeHardcodedAPIKey, findings[0].Type)
	assert.Equal(t, scanning.SeverityHigh, findings[0].Severity)
	assert.Equal(t, scanning.RedactedValue, findings[0].Value)

	findings = evaluator.Evaluate(scanning.ConfigRecord{"api_key": "/secrets/api/key"}, nil)
	assert.Empty(t, findings)
}

func TestRuleEvaluator_SuspiciousFileSize(t *testing.T) {
	evaluator := NewRuleEvaluator()

	findings := evaluator.Evaluate(scanning.ConfigRecord{}, int64Ptr(11_000_000))
	require.Len(t, findings, 1)
	assert.Equal(t, FindingTypeSuspiciousFileSize, findings[0].Type)
	assert.Equal(t, scanning.SeverityMedium, findings[0].Severity)
	assert.Equal(t, "11000000", findings[0].Value)

	// Exactly at the threshold is not suspicious.
	findings = evaluator.Evaluate(scanning.ConfigRecord{}, int64Ptr(MaxConfigFileSize))
	assert.Empty(t, findings)

	// No size provided skips the rule.
	findings = evaluator.Evaluate(scanning.ConfigRecord{}, nil)
	assert.Empty(t, findings)
}

func TestRuleEvaluator_EmptyRecordProducesNoFindings(t *testing.T) {
	findings := NewRuleEvaluator().Evaluate(scanning.ConfigRecord{}, nil)
	assert.Empty(t, findings)
}

func TestRuleEvaluator_FindingsFollowRuleDeclarationOrder(t *testing.T) {
	record := scanning.ConfigRecord{
		"ssl_enabled": false,
		"debug_mode":  true,
		"database":    map[string]any{"password": "hunter2"},
		"api_key":     "abc123",
	}

	findings := NewRuleEvaluator().Evaluate(record, int64Ptr(20_000_000))
	require.Len(t, findings, 5)

	wantOrder := []string{
		FindingTypeSSLDisabled,
		FindingTypeDebugModeEnabled,
		FindingTypeHardcodedPassword,
		FindingTypeHardcodedAPIKey,
		FindingTypeSuspiciousFileSize,
	}
	for i, want := range wantOrder {
		assert.Equal(t, want, findings[i].Type)
	}
}

func TestRuleEvaluator_CombinedScenario(t *testing.T) {
	record := scanning.ConfigRecord{
		"ssl_enabled": false,
		"debug_mode":  true,
		"api_key":     "abc123",
	}

	findings := NewRuleEvaluator().Evaluate(record, int64Ptr(5000))
	require.Len(t, findings, 3)

	assert.Equal(t, FindingTypeSSLDisabled, findings[0].Type)
	assert.Equal(t, scanning.SeverityHigh, findings[0].Severity)
	assert.Equal(t, FindingTypeDebugModeEnabled, findings[1].Type)
	assert.Equal(t, scanning.SeverityMedium, findings[1].Severity)
	assert.Equal(t, FindingTypeHardcodedAPIKey, findings[2].Type)
	assert.Equal(t, scanning.SeverityHigh, findings[2].Severity)
}
