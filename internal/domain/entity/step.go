package entity

import "strings"

// StepIdentity fingerprints one wizard screen for loop and duplicate
// detection. It is content-based: progress-indicator text when available,
// otherwise a heading matched against a known step vocabulary.
type StepIdentity string

func (s StepIdentity) Empty() bool {
	return strings.TrimSpace(string(s)) == ""
}

// StepReport captures everything that happened on one step. Descriptors and
// mapped fields are step-scoped; only the visited identity set outlives them.
type StepReport struct {
	Identity StepIdentity      `json:"identity"`
	Fields   []FieldDescriptor `json:"fields"`
	Mapped   []MappedField     `json:"mapped"`
	Failures []FailureRecord   `json:"failures,omitempty"`
	// Completed means the step's fill-and-navigate cycle finished without a
	// fatal failure. Per-field failures do not clear it.
	Completed bool `json:"completed"`
}
