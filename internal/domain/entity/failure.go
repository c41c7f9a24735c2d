package entity

import "time"

// FailureCategory buckets an error for retry and reporting decisions.
// Categories are checked in this priority order by the failure classifier.
type FailureCategory string

const (
	FailureMissingConfiguration FailureCategory = "missing_configuration"
	FailureNetworkOrTimeout     FailureCategory = "network_or_timeout"
	FailureElementNotFound      FailureCategory = "element_not_found"
	FailureValidationOrFormat   FailureCategory = "validation_or_format"
	FailureAlreadyExists        FailureCategory = "already_exists"
	FailureUnknown              FailureCategory = "unknown"
)

type FailureRecord struct {
	Operation string          `json:"operation"`
	Category  FailureCategory `json:"category"`
	Message   string          `json:"message"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`
}
