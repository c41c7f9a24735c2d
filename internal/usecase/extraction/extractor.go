package extraction

import (
	"context"
	"fmt"
	"time"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
)

// Extractor runs the classifier and builder over a step's raw controls and
// produces its canonical descriptor set. Per-node errors are recorded and
// skipped; they never abort the step.
type Extractor struct {
	classifier *Classifier
	builder    *Builder
	log        output.LoggerPort
}

func NewExtractor(classifier *Classifier, builder *Builder, log output.LoggerPort) *Extractor {
	return &Extractor{
		classifier: classifier,
		builder:    builder,
		log:        log,
	}
}

func (e *Extractor) Extract(ctx context.Context, controls []entity.Control) ([]entity.FieldDescriptor, []entity.FailureRecord) {
	var (
		fields   []entity.FieldDescriptor
		failures []entity.FailureRecord
		groups   = map[string]int{} // radio group name -> index into fields
		seen     = map[string]int{} // identifier -> occurrences
	)

	for i, ctl := range controls {
		typ, ok := e.classifier.Classify(ctl)
		if !ok {
			continue
		}

		desc, err := e.builder.Build(ctx, ctl, typ)
		if err != nil {
			e.log.Warn("Skipping control", "index", i, "error", err)
			failures = append(failures, entity.FailureRecord{
				Operation: "extract",
				Category:  entity.FailureValidationOrFormat,
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		if typ == entity.ControlRadio {
			if idx, ok := groups[desc.GroupName]; ok {
				mergeRadioMember(&fields[idx], desc)
				continue
			}
			desc.Type = entity.ControlRadioGroup
			groups[desc.GroupName] = len(fields)
		}

		desc.ID = uniqueID(seen, desc.ID)
		fields = append(fields, desc)
	}

	return fields, failures
}

// mergeRadioMember folds another same-name radio into an existing group
// descriptor: the option list is the ordered union of member labels.
func mergeRadioMember(group *entity.FieldDescriptor, member entity.FieldDescriptor) {
	for _, opt := range member.Options {
		if !containsString(group.Options, opt) {
			group.Options = append(group.Options, opt)
		}
	}
	group.Required = group.Required || member.Required
	if group.Label == "Unlabeled Field" && member.Label != "Unlabeled Field" {
		group.Label = member.Label
	}
}

// uniqueID keeps identifiers unique within one step by suffixing collisions.
func uniqueID(seen map[string]int, id string) string {
	seen[id]++
	if n := seen[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
