package extraction

import (
	"context"
	"fmt"
	"strings"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
)

const maxSiblingLabelLen = 100

// OptionSource discovers the option texts of a lazily-populated dropdown by
// interacting with it. output.PagePort satisfies it.
type OptionSource interface {
	DropdownOptions(ctx context.Context, selector string) ([]string, error)
}

// Builder turns a classified control into a FieldDescriptor. Radio inputs are
// described individually here and merged into groups by the extractor.
type Builder struct {
	options OptionSource
	log     output.LoggerPort

	// defaultOptions substitutes a known option set when a dropdown yields
	// nothing, keyed by field identifier. An explicit escape hatch, never
	// silent inference.
	defaultOptions map[string][]string
}

func NewBuilder(options OptionSource, log output.LoggerPort, defaults map[string][]string) *Builder {
	return &Builder{
		options:        options,
		log:            log,
		defaultOptions: defaults,
	}
}

func (b *Builder) Build(ctx context.Context, ctl entity.Control, typ entity.ControlType) (entity.FieldDescriptor, error) {
	label := b.resolveLabel(ctl, typ)

	desc := entity.FieldDescriptor{
		ID:       b.resolveIdentifier(ctl, label),
		Label:    label,
		Type:     typ,
		Required: isRequired(ctl, label),
		Selector: ctl.Selector,
	}

	switch typ {
	case entity.ControlSelect, entity.ControlMultiSelect:
		desc.Options = selectOptions(ctl)
	case entity.ControlDropdown:
		opts, err := b.dropdownOptions(ctx, desc)
		if err != nil {
			return desc, err
		}
		desc.Options = opts
	case entity.ControlRadio:
		name := ctl.Attr("name")
		if name == "" {
			return desc, fmt.Errorf("radio %q has no name attribute and cannot be grouped", label)
		}
		desc.GroupName = name
		desc.Options = []string{radioOptionLabel(ctl)}
		if ctl.GroupLabel != "" {
			// Individual radio labels are usually just "Yes"/"No"; the field
			// container carries the actual question.
			desc.Label = cleanLabel(ctl.GroupLabel)
			desc.ID = name
		}
	}

	return desc, nil
}

// resolveLabel picks the first non-empty source: bound label element,
// aria-label, placeholder, nearby text, else "Unlabeled Field".
func (b *Builder) resolveLabel(ctl entity.Control, typ entity.ControlType) string {
	if l := cleanLabel(ctl.LabelText); l != "" {
		return l
	}
	if l := cleanLabel(ctl.Attr("aria-label")); l != "" {
		return l
	}
	if l := cleanLabel(ctl.Attr("placeholder")); l != "" {
		return l
	}
	if sibling := cleanLabel(ctl.SiblingText); sibling != "" && len(sibling) < maxSiblingLabelLen {
		return sibling
	}
	return "Unlabeled Field"
}

func (b *Builder) resolveIdentifier(ctl entity.Control, label string) string {
	for _, attr := range []string{"data-automation-id", "id", "name"} {
		if v := ctl.Attr(attr); v != "" {
			return v
		}
	}
	return slugify(label)
}

func (b *Builder) dropdownOptions(ctx context.Context, desc entity.FieldDescriptor) ([]string, error) {
	opts, err := b.options.DropdownOptions(ctx, desc.Selector)
	if err != nil {
		return nil, fmt.Errorf("discover options for %q: %w", desc.ID, err)
	}
	if len(opts) > 0 {
		return opts, nil
	}
	if defaults, ok := b.defaultOptions[desc.ID]; ok {
		b.log.Info("Dropdown yielded no options, substituting defaults",
			"field", desc.ID, "options", len(defaults))
		return append([]string(nil), defaults...), nil
	}
	return nil, nil
}

func isRequired(ctl entity.Control, label string) bool {
	if _, ok := ctl.Attrs["required"]; ok {
		return true
	}
	if ctl.Attr("aria-required") == "true" {
		return true
	}
	if strings.Contains(ctl.LabelText, "*") || strings.Contains(label, "*") {
		return true
	}
	return ctl.ContainerRequired
}

func selectOptions(ctl entity.Control) []string {
	opts := make([]string, 0, len(ctl.Options))
	for _, o := range ctl.Options {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			text = strings.TrimSpace(o.Value)
		}
		if text != "" {
			opts = append(opts, text)
		}
	}
	return opts
}

// radioOptionLabel picks the member's option text: label, value, or id.
func radioOptionLabel(ctl entity.Control) string {
	if l := cleanLabel(ctl.LabelText); l != "" {
		return l
	}
	if v := ctl.Attr("value"); v != "" {
		return v
	}
	return ctl.Attr("id")
}

// cleanLabel normalizes whitespace and strips required/optional markers.
func cleanLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"*", "required", "Required", "optional", "Optional", "(required)", "(optional)"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	return s
}

func slugify(label string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "unlabeled-field"
	}
	return slug
}
