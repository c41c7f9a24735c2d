package traversal

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
	"formwalker/internal/usecase/extraction"
	"formwalker/internal/usecase/failure"
	"formwalker/internal/usecase/resolution"
)

// Termination reasons reported in the run result.
const (
	ReasonNoStepIdentity   = "no step identity detected"
	ReasonStepRevisited    = "step already visited"
	ReasonNoNavigation     = "no navigation control found"
	ReasonNavigationFailed = "navigation failed"
	ReasonStepUnchanged    = "step did not change after navigation"
	ReasonIterationCeiling = "iteration ceiling reached"
	ReasonCancelled        = "cancelled"
	ReasonComplete         = "application complete"
)

type Config struct {
	// MaxIterations bounds the number of steps processed regardless of what
	// the page reports, guaranteeing termination.
	MaxIterations int
	// NavigationWait bounds how long to wait for the step identity to change
	// after activating a navigation control.
	NavigationWait time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:  10,
		NavigationWait: 20 * time.Second,
	}
}

// Controller walks a multi-step wizard one step at a time: detect step,
// extract fields, resolve them against the profile, hand them to the filler,
// navigate, repeat. Strictly sequential; exactly one traversal per page
// session.
type Controller struct {
	page      output.PagePort
	filler    output.FillerPort
	extractor *extraction.Extractor
	resolver  *resolution.Resolver
	catalog   extraction.SelectorCatalog
	retry     *failure.Policy
	progress  output.ProgressPort
	log       output.LoggerPort
	profile   entity.DataProfile
	cfg       Config

	state     State
	cancelled atomic.Bool
}

func NewController(
	page output.PagePort,
	filler output.FillerPort,
	extractor *extraction.Extractor,
	resolver *resolution.Resolver,
	catalog extraction.SelectorCatalog,
	retry *failure.Policy,
	progress output.ProgressPort,
	log output.LoggerPort,
	profile entity.DataProfile,
	cfg Config,
) *Controller {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.NavigationWait <= 0 {
		cfg.NavigationWait = DefaultConfig().NavigationWait
	}
	return &Controller{
		page:      page,
		filler:    filler,
		extractor: extractor,
		resolver:  resolver,
		catalog:   catalog,
		retry:     retry,
		progress:  progress,
		log:       log,
		profile:   profile,
		cfg:       cfg,
		state:     StateIdle,
	}
}

// Cancel requests a cooperative stop, honored between state transitions.
func (c *Controller) Cancel() {
	c.cancelled.Store(true)
}

func (c *Controller) State() State {
	return c.state
}

// Run drives the traversal to completion and always returns a result; a bad
// field or page never aborts the run.
func (c *Controller) Run(ctx context.Context) *entity.ExtractionResult {
	result := &entity.ExtractionResult{
		StartURL:  c.page.CurrentURL(),
		StartedAt: time.Now(),
	}
	visited := map[entity.StepIdentity]bool{}

	c.progress.Begin(c.cfg.MaxIterations)
	reason := ReasonIterationCeiling

	for iter := 0; iter < c.cfg.MaxIterations; iter++ {
		if c.cancelled.Load() || ctx.Err() != nil {
			reason = ReasonCancelled
			break
		}

		c.transition(StateDetecting)
		identity := c.detectStep(ctx)
		if identity.Empty() {
			reason = ReasonNoStepIdentity
			if c.checkComplete(ctx, result) {
				reason = ReasonComplete
			}
			break
		}
		if visited[identity] {
			c.log.Info("Step already visited, stopping", "step", string(identity))
			reason = ReasonStepRevisited
			break
		}

		c.progress.StepStarted(string(identity), iter+1)
		step := c.processStep(ctx, identity, result)

		visited[identity] = true
		result.VisitedSteps = append(result.VisitedSteps, identity)
		result.Steps = append(result.Steps, step)
		if step.Completed {
			result.StepsCompleted++
			c.progress.StepCompleted(string(identity))
		} else {
			result.StepsFailed++
			c.progress.StepFailed(string(identity), lastFailureMessage(step.Failures))
		}

		c.transition(StateNavigating)
		ok, navReason := c.navigate(ctx, identity, result)
		if !ok {
			reason = navReason
			break
		}
	}

	c.transition(StateTerminated)
	if reason == ReasonNoNavigation || reason == ReasonNoStepIdentity {
		// Running out of wizard is the normal way to finish.
		if c.checkComplete(ctx, result) {
			reason = ReasonComplete
		}
	}
	result.TerminationReason = reason
	result.FinishedAt = time.Now()
	c.progress.Finish(result.StepsCompleted, result.StepsFailed)
	c.log.Info("Traversal terminated",
		"reason", reason,
		"steps_completed", result.StepsCompleted,
		"steps_failed", result.StepsFailed,
		"fields_resolved", result.FieldsResolved,
		"fields_unresolved", result.FieldsUnresolved)
	return result
}

// processStep runs extraction, resolution and filling for one step. Per-field
// failures are recorded and the step continues with the remaining fields.
func (c *Controller) processStep(ctx context.Context, identity entity.StepIdentity, result *entity.ExtractionResult) entity.StepReport {
	step := entity.StepReport{Identity: identity, Completed: true}
	log := c.log.WithField("step", string(identity))

	c.transition(StateExtracting)
	controls, err := c.page.Controls(ctx)
	if err != nil {
		log.Error("Control snapshot failed", "error", err)
		step.Failures = append(step.Failures, entity.FailureRecord{
			Operation: "extract",
			Category:  failure.Classify(err),
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		step.Completed = false
		return step
	}

	fields, extractFailures := c.extractor.Extract(ctx, controls)
	step.Fields = fields
	step.Failures = append(step.Failures, extractFailures...)
	log.Info("Extracted fields", "total_controls", len(controls), "fields", len(fields))

	c.transition(StateResolving)
	step.Mapped = c.resolver.Resolve(fields, c.profile)
	result.FieldsResolved += len(step.Mapped)
	result.FieldsUnresolved += len(fields) - len(step.Mapped)
	log.Info("Resolved fields", "resolved", len(step.Mapped), "unresolved", len(fields)-len(step.Mapped))

	c.transition(StateFilling)
	for _, mf := range step.Mapped {
		mf := mf
		if mf.Fallback {
			log.Warn("Filling with first-option fallback",
				"field", mf.Field.ID, "value", mf.Value)
		}
		outcome := c.retry.Do(ctx, "fill:"+mf.Field.ID, mf.Field.Required,
			func(ctx context.Context, attempt int) error {
				return c.filler.Fill(ctx, mf)
			})
		if outcome.Record != nil {
			step.Failures = append(step.Failures, *outcome.Record)
		}
		if !outcome.Success && mf.Field.Required && !outcome.Skipped {
			step.Completed = false
		}
	}

	return step
}

// detectStep derives the current StepIdentity: progress-bar indicator text
// first, then headings matched against the step vocabulary.
func (c *Controller) detectStep(ctx context.Context) entity.StepIdentity {
	if text, ok := c.page.ElementText(ctx, c.catalog.StepIndicator); ok {
		if id := normalizeIdentity(text); !id.Empty() {
			return id
		}
	}

	headings, err := c.page.Headings(ctx)
	if err != nil {
		c.log.Warn("Heading extraction failed", "error", err)
		return ""
	}
	if step, ok := c.catalog.MatchVocabulary(headings); ok {
		return normalizeIdentity(step)
	}
	return ""
}

// navigate activates the most-preferred navigation control and waits for the
// step identity to change. A missing control ends the traversal normally; a
// click or wait failure is fatal to the traversal but not to the run.
func (c *Controller) navigate(ctx context.Context, current entity.StepIdentity, result *entity.ExtractionResult) (bool, string) {
	controls, err := c.page.Controls(ctx)
	if err != nil {
		c.recordFatal(result, "navigate", err)
		return false, ReasonNavigationFailed
	}

	selector, found := c.catalog.FindNavigation(controls)
	if !found {
		c.log.Info("No navigation control found, stopping")
		return false, ReasonNoNavigation
	}

	outcome := c.retry.Do(ctx, "navigate", true, func(ctx context.Context, attempt int) error {
		return c.page.Click(ctx, selector)
	})
	if outcome.Record != nil {
		result.Failures = append(result.Failures, *outcome.Record)
	}
	if !outcome.Success {
		return false, ReasonNavigationFailed
	}

	err = c.page.WaitFor(ctx, c.cfg.NavigationWait, func(ctx context.Context) bool {
		next := c.detectStep(ctx)
		return next != current
	})
	if err != nil {
		c.recordFatal(result, "navigate", fmt.Errorf("wait for step change: %w", err))
		return false, ReasonStepUnchanged
	}

	return true, ""
}

func (c *Controller) checkComplete(ctx context.Context, result *entity.ExtractionResult) bool {
	text, err := c.page.PageText(ctx)
	if err != nil {
		text = ""
	}
	if c.catalog.IsComplete(c.page.CurrentURL(), text) {
		result.ApplicationComplete = true
		return true
	}
	return false
}

func (c *Controller) recordFatal(result *entity.ExtractionResult, operation string, err error) {
	c.log.Error("Traversal failure", "operation", operation, "error", err)
	result.Failures = append(result.Failures, entity.FailureRecord{
		Operation: operation,
		Category:  failure.Classify(err),
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}

func (c *Controller) transition(next State) {
	c.log.Debug("State transition", "from", c.state.String(), "to", next.String())
	c.state = next
}

func normalizeIdentity(s string) entity.StepIdentity {
	return entity.StepIdentity(strings.Join(strings.Fields(s), " "))
}

func lastFailureMessage(failures []entity.FailureRecord) string {
	if len(failures) == 0 {
		return ""
	}
	return failures[len(failures)-1].Message
}
