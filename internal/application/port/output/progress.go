package output

// ProgressPort receives step-by-step traversal progress for display. It must
// never block traversal.
type ProgressPort interface {
	Begin(totalHint int)
	StepStarted(identity string, index int)
	StepCompleted(identity string)
	StepFailed(identity string, reason string)
	Finish(completed, failed int)
}
