package scanning

import "fmt"

// Scan outcome status codes, mirroring the upload-notification response
// contract: 200 covers skipped objects and completed scans (with or without
// findings); 500 covers any retrieval, parse, or unexpected failure.
const (
	StatusOK    = 200
	StatusError = 500
)

// ScanOutcome is the explicit result of one scan cycle. The orchestrator
// always returns an outcome; failures are converted, never propagated.
type ScanOutcome struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// SuccessOutcome builds a 200 outcome with the given message.
func SuccessOutcome(msg string) ScanOutcome {
	return ScanOutcome{Status: StatusOK, Message: msg}
}

// FailureOutcome builds a 500 outcome embedding the failure reason.
func FailureOutcome(reason error) ScanOutcome {
	return ScanOutcome{Status: StatusError, Message: fmt.Sprintf("Error: %v", reason)}
}
