package entity

// ControlType is the canonical type of a data-entry control after
// classification.
type ControlType string

const (
	ControlText        ControlType = "text"
	ControlPassword    ControlType = "password"
	ControlTextarea    ControlType = "textarea"
	ControlSelect      ControlType = "select"
	ControlMultiSelect ControlType = "multiselect"
	ControlCheckbox    ControlType = "checkbox"
	ControlDate        ControlType = "date"
	ControlFile        ControlType = "file"
	ControlDropdown    ControlType = "dropdown"

	// ControlRadio is assigned per radio input during classification. Radios
	// sharing a name attribute collapse into one ControlRadioGroup descriptor;
	// a final descriptor set never contains ControlRadio.
	ControlRadio      ControlType = "radio"
	ControlRadioGroup ControlType = "radioGroup"
)

// FieldDescriptor describes one canonical data-entry field within a step.
// Identifiers are unique within a step's descriptor set.
type FieldDescriptor struct {
	ID        string      `json:"id"`
	Label     string      `json:"label"`
	Type      ControlType `json:"type"`
	Required  bool        `json:"required"`
	Options   []string    `json:"options,omitempty"`
	GroupName string      `json:"group_name,omitempty"`
	Selector  string      `json:"selector,omitempty"`
}

// MappedField pairs a descriptor with the value resolved for it from a
// DataProfile.
type MappedField struct {
	Field FieldDescriptor `json:"field"`
	Type  ControlType     `json:"type"`
	Value string          `json:"value"`
	// Checked carries the boolean resolution for checkbox fields.
	Checked bool `json:"checked,omitempty"`
	// Fallback marks that no semantic option match was found and the first
	// available option was chosen. Never silent: callers must surface it.
	Fallback bool `json:"fallback,omitempty"`
}

// DataProfile is the caller-supplied flat key-value source of fill values.
// Resolution never mutates it; it is safe to share across sessions.
type DataProfile map[string]string

func (p DataProfile) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}
