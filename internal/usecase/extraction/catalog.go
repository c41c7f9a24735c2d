package extraction

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"formwalker/internal/domain/entity"
)

// NavRule describes one preferred navigation control. Rules are ordered:
// explicit next/continue controls come before generic submit buttons.
type NavRule struct {
	// AutomationID matches as a substring of data-automation-id.
	AutomationID string `yaml:"automation_id,omitempty"`
	// Text matches the normalized button text exactly.
	Text string `yaml:"text,omitempty"`
	// Submit matches any submit-type button or input.
	Submit bool `yaml:"submit,omitempty"`
}

// SelectorCatalog is the pluggable data table of site-specific selector
// strings and vocabularies. The algorithms never hard-code these; swap the
// catalog to target another wizard flavour.
type SelectorCatalog struct {
	// StepIndicator selectors locate the active-step element of the progress
	// bar, tried in order.
	StepIndicator []string `yaml:"step_indicator"`
	// StepVocabulary is the set of known step names used for the heading-text
	// fallback when no progress indicator exists.
	StepVocabulary []string `yaml:"step_vocabulary"`
	Navigation     []NavRule `yaml:"navigation"`
	// CompletionMarkers are URL or page-text fragments that signal the wizard
	// finished.
	CompletionMarkers []string `yaml:"completion_markers"`
	// DefaultOptions backs the dropdown escape hatch, keyed by identifier.
	DefaultOptions map[string][]string `yaml:"default_options"`
}

func DefaultCatalog() SelectorCatalog {
	return SelectorCatalog{
		StepIndicator: []string{
			`[data-automation-id="progressBarActiveStep"]`,
			`[aria-current="step"]`,
		},
		StepVocabulary: []string{
			"My Information",
			"My Experience",
			"Application Questions",
			"Voluntary Disclosures",
			"Self Identify",
			"Review",
		},
		Navigation: []NavRule{
			{AutomationID: "pageFooterNextButton"},
			{Text: "save and continue"},
			{Text: "continue"},
			{Text: "next"},
			{Submit: true},
		},
		CompletionMarkers: []string{
			"thankyou",
			"application complete",
			"successfully submitted",
		},
		DefaultOptions: map[string][]string{
			"phoneNumber--phoneDeviceType": {"Mobile", "Landline"},
			"source--source":               {"Job Board", "Company Website", "Referral", "Other"},
		},
	}
}

// LoadCatalog overlays a YAML catalog file onto the defaults. Only non-empty
// sections override.
func LoadCatalog(path string) (SelectorCatalog, error) {
	catalog := DefaultCatalog()

	data, err := os.ReadFile(path)
	if err != nil {
		return catalog, fmt.Errorf("read selector catalog: %w", err)
	}

	var loaded SelectorCatalog
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return catalog, fmt.Errorf("parse selector catalog: %w", err)
	}

	if len(loaded.StepIndicator) > 0 {
		catalog.StepIndicator = loaded.StepIndicator
	}
	if len(loaded.StepVocabulary) > 0 {
		catalog.StepVocabulary = loaded.StepVocabulary
	}
	if len(loaded.Navigation) > 0 {
		catalog.Navigation = loaded.Navigation
	}
	if len(loaded.CompletionMarkers) > 0 {
		catalog.CompletionMarkers = loaded.CompletionMarkers
	}
	if len(loaded.DefaultOptions) > 0 {
		catalog.DefaultOptions = loaded.DefaultOptions
	}

	return catalog, nil
}

// FindNavigation selects the single most-preferred navigation control from
// the raw control set. Rules are tried in order; the first control matching
// the highest-priority rule wins.
func (c SelectorCatalog) FindNavigation(controls []entity.Control) (string, bool) {
	for _, rule := range c.Navigation {
		for _, ctl := range controls {
			if !isClickable(ctl) {
				continue
			}
			if rule.matches(ctl) {
				return ctl.Selector, true
			}
		}
	}
	return "", false
}

// MatchVocabulary maps a heading onto a known step name, case-insensitively.
func (c SelectorCatalog) MatchVocabulary(headings []string) (string, bool) {
	for _, h := range headings {
		lower := strings.ToLower(strings.TrimSpace(h))
		if lower == "" {
			continue
		}
		for _, step := range c.StepVocabulary {
			if strings.Contains(lower, strings.ToLower(step)) {
				return step, true
			}
		}
	}
	return "", false
}

// IsComplete reports whether a URL or page text carries a completion marker.
func (c SelectorCatalog) IsComplete(url, pageText string) bool {
	haystacks := []string{strings.ToLower(url), strings.ToLower(pageText)}
	for _, marker := range c.CompletionMarkers {
		for _, h := range haystacks {
			if h != "" && strings.Contains(h, strings.ToLower(marker)) {
				return true
			}
		}
	}
	return false
}

func (r NavRule) matches(ctl entity.Control) bool {
	switch {
	case r.AutomationID != "":
		return strings.Contains(ctl.AutomationID(), r.AutomationID)
	case r.Text != "":
		return normalizeText(ctl.Text) == r.Text
	case r.Submit:
		return strings.EqualFold(ctl.InputType, "submit") ||
			(ctl.Tag == "button" && ctl.Attr("type") == "submit")
	}
	return false
}

func isClickable(ctl entity.Control) bool {
	if ctl.Tag != "button" && !(ctl.Tag == "input" && strings.EqualFold(ctl.InputType, "submit")) {
		return false
	}
	if _, disabled := ctl.Attrs["disabled"]; disabled {
		return false
	}
	return ctl.Display != "none" && ctl.Visibility != "hidden"
}
