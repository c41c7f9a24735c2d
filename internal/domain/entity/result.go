package entity

import "time"

// ExtractionResult is the reporting snapshot of one traversal run. It is
// JSON round-trippable; the report package persists it.
type ExtractionResult struct {
	RunID      string    `json:"run_id"`
	StartURL   string    `json:"start_url,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Steps        []StepReport   `json:"steps"`
	VisitedSteps []StepIdentity `json:"visited_steps"`

	StepsCompleted   int `json:"steps_completed"`
	StepsFailed      int `json:"steps_failed"`
	FieldsResolved   int `json:"fields_resolved"`
	FieldsUnresolved int `json:"fields_unresolved"`

	Failures []FailureRecord `json:"failures,omitempty"`

	// TerminationReason records why the traversal loop stopped. Running out
	// of steps is a normal completion, not an error.
	TerminationReason string `json:"termination_reason"`
	// ApplicationComplete is set when a completion marker (URL or page text)
	// was observed before termination.
	ApplicationComplete bool `json:"application_complete"`

	Performance *PerformanceSummary `json:"performance,omitempty"`
}

// PerformanceSummary aggregates the background resource samples and timed
// operations collected during a run.
type PerformanceSummary struct {
	Samples       int                       `json:"samples"`
	PeakHeapBytes uint64                    `json:"peak_heap_bytes"`
	MaxGoroutines int                       `json:"max_goroutines"`
	Operations    map[string]OperationStats `json:"operations,omitempty"`
}

type OperationStats struct {
	Count   int   `json:"count"`
	TotalMs int64 `json:"total_ms"`
	MaxMs   int64 `json:"max_ms"`
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
