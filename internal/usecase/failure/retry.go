package failure

import (
	"context"
	"time"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
)

const (
	defaultBaseDelay   = 1 * time.Second
	defaultMaxAttempts = 3
)

// Outcome is the boundary result of a retried operation. The policy returns,
// it never lets an error escape.
type Outcome struct {
	Success bool
	// Skipped means the failure was downgraded for a non-critical operation.
	Skipped bool
	Retries int
	Record  *entity.FailureRecord
}

// Policy applies bounded exponential-backoff retries according to the failure
// category of each attempt's error.
type Policy struct {
	BaseDelay   time.Duration
	MaxAttempts int

	log output.LoggerPort
	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration)
}

func NewPolicy(log output.LoggerPort) *Policy {
	return &Policy{
		BaseDelay:   defaultBaseDelay,
		MaxAttempts: defaultMaxAttempts,
		log:         log,
		sleep:       sleepCtx,
	}
}

// Do runs fn until it succeeds or its failure category says stop. fn receives
// the attempt index so callers can switch to alternative selectors or values
// on later attempts. For operations marked non-critical, validation and
// unknown failures degrade to a recorded skip.
func (p *Policy) Do(ctx context.Context, operation string, critical bool, fn func(ctx context.Context, attempt int) error) Outcome {
	var lastErr error
	var category entity.FailureCategory
	retries := 0

	for attempt := 0; ; attempt++ {
		retries = attempt
		if err := ctx.Err(); err != nil {
			lastErr = err
			category = entity.FailureNetworkOrTimeout
			break
		}

		err := fn(ctx, attempt)
		if err == nil {
			return Outcome{Success: true, Retries: attempt}
		}

		lastErr = err
		category = Classify(err)

		switch category {
		case entity.FailureAlreadyExists:
			// The work is already done; degrade gracefully to success.
			p.log.Info("Operation target already exists, continuing",
				"operation", operation)
			return Outcome{
				Success: true,
				Retries: attempt,
				Record:  p.record(operation, category, err, attempt),
			}
		case entity.FailureMissingConfiguration:
			return p.fail(operation, category, lastErr, attempt, false)
		}

		if attempt+1 >= p.attemptsFor(category) {
			break
		}

		delay := p.BaseDelay << uint(attempt)
		p.log.Warn("Operation failed, retrying",
			"operation", operation, "attempt", attempt+1, "delay", delay.String(), "error", err)
		p.sleep(ctx, delay)
	}

	skippable := category == entity.FailureValidationOrFormat || category == entity.FailureUnknown
	if skippable && !critical {
		p.log.Warn("Skipping non-critical operation after failure",
			"operation", operation, "category", string(category), "error", lastErr)
		return p.fail(operation, category, lastErr, retries, true)
	}

	return p.fail(operation, category, lastErr, retries, false)
}

// attemptsFor bounds retries per category: transient failures get the full
// budget, validation gets one alternative-value retry, the rest get none.
func (p *Policy) attemptsFor(category entity.FailureCategory) int {
	switch category {
	case entity.FailureNetworkOrTimeout, entity.FailureElementNotFound:
		return p.MaxAttempts
	case entity.FailureValidationOrFormat:
		return 2
	default:
		return 1
	}
}

func (p *Policy) fail(operation string, category entity.FailureCategory, err error, retries int, skipped bool) Outcome {
	if retries < 0 {
		retries = 0
	}
	return Outcome{
		Success: false,
		Skipped: skipped,
		Retries: retries,
		Record:  p.record(operation, category, err, retries),
	}
}

func (p *Policy) record(operation string, category entity.FailureCategory, err error, retries int) *entity.FailureRecord {
	return &entity.FailureRecord{
		Operation: operation,
		Category:  category,
		Message:   err.Error(),
		Retries:   retries,
		Timestamp: time.Now(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
