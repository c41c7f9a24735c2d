package entity

// Control is a raw snapshot of one on-screen control, captured by the page
// adapter before classification. All attribute and style reads happen at
// capture time so the classifier and builder stay free of page access.
type Control struct {
	Tag       string
	InputType string
	Attrs     map[string]string
	Text      string

	// LabelText is the text of a <label for=...> bound to this control.
	LabelText string
	// SiblingText is the nearest parent/sibling text, whitespace-normalized.
	SiblingText string
	// GroupLabel is the surrounding field-container text for radio inputs.
	GroupLabel string

	Display    string
	Visibility string
	HasBox     bool
	Width      float64
	Height     float64

	Multiple          bool
	ContainerRequired bool
	Options           []ControlOption

	// Selector locates this control again for interaction (dropdown opening,
	// filling). The adapter guarantees it is stable within one step.
	Selector string
}

type ControlOption struct {
	Text  string
	Value string
}

func (c Control) Attr(name string) string {
	if c.Attrs == nil {
		return ""
	}
	return c.Attrs[name]
}

func (c Control) AutomationID() string {
	return c.Attr("data-automation-id")
}
