package extraction

import (
	"strings"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
)

const minControlPixels = 10.0

// Clutter keyword sets, matched against identifier, automation id and class.
// Navigation and paging chrome first, then UI state controls, then hidden and
// tracking/technical tokens.
var clutterKeywords = []string{
	"next", "continue", "back", "previous", "save", "submit", "close", "cancel",
	"pagefooter", "navigation", "breadcrumb", "menu", "header", "footer",
	"modal", "dialog", "popup", "tooltip", "dropdown-toggle", "collapse",
	"accordion", "sidebar", "overlay", "backdrop", "settings", "account",
	"search", "filter", "sort", "pagination", "scroll", "resize",
	"toggle", "switch", "checkbox-all", "select-all", "expand", "minimize",
	"hidden", "csrf", "token", "session", "tracking", "analytics",
	"autocomplete-off", "captcha", "honeypot", "jobposting",
}

var clutterClassPatterns = []string{
	"btn-secondary", "btn-outline", "btn-ghost", "btn-link",
	"nav-", "navbar-", "breadcrumb-", "dropdown-", "modal-",
	"tooltip-", "popover-", "accordion-", "tab-", "sidebar-",
}

var clutterInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"reset":  true,
	"image":  true,
}

var navigationButtonText = map[string]bool{
	"next": true, "continue": true, "back": true, "previous": true,
	"save": true, "submit": true, "close": true, "cancel": true,
	"ok": true, "done": true, "finish": true, "skip": true,
}

// fileTriggerKeywords is the allow-list that overrides keyword rejection for
// buttons that open a file picker.
var fileTriggerKeywords = []string{
	"select file", "select files", "upload", "browse", "browse files",
	"choose file", "add file", "attach",
}

var textInputTypes = map[string]bool{
	"text": true, "email": true, "tel": true, "number": true,
	"url": true, "search": true, "": true,
}

// Classifier decides whether a raw control is clutter or a genuine data-entry
// field and assigns its canonical control type.
type Classifier struct {
	log output.LoggerPort
}

func NewClassifier(log output.LoggerPort) *Classifier {
	return &Classifier{log: log}
}

// Classify returns the control type for a data-entry control, or ok=false for
// clutter. Rejection checks run in a fixed order; the first match wins.
func (c *Classifier) Classify(ctl entity.Control) (entity.ControlType, bool) {
	if ctl.Attr("aria-hidden") == "true" {
		return "", false
	}
	if ctl.Display == "none" || ctl.Visibility == "hidden" {
		return "", false
	}

	if ctl.Tag == "button" && isFileTrigger(ctl) {
		// File-selection triggers survive every keyword and size check.
		return entity.ControlFile, true
	}

	if hasClutterKeyword(ctl) {
		return "", false
	}
	if ctl.Tag == "input" && clutterInputTypes[strings.ToLower(ctl.InputType)] {
		return "", false
	}
	if ctl.Tag == "button" && navigationButtonText[normalizeText(ctl.Text)] {
		return "", false
	}
	if ctl.HasBox && (ctl.Width < minControlPixels || ctl.Height < minControlPixels) {
		return "", false
	}

	return c.controlType(ctl)
}

func (c *Classifier) controlType(ctl entity.Control) (entity.ControlType, bool) {
	if isDateControl(ctl) {
		return entity.ControlDate, true
	}

	switch ctl.Tag {
	case "textarea":
		return entity.ControlTextarea, true
	case "select":
		if ctl.Multiple {
			return entity.ControlMultiSelect, true
		}
		return entity.ControlSelect, true
	case "input":
		switch strings.ToLower(ctl.InputType) {
		case "password":
			return entity.ControlPassword, true
		case "checkbox":
			return entity.ControlCheckbox, true
		case "radio":
			return entity.ControlRadio, true
		case "date":
			return entity.ControlDate, true
		case "file":
			return entity.ControlFile, true
		}
		if isDropdownControl(ctl) {
			return entity.ControlDropdown, true
		}
		if textInputTypes[strings.ToLower(ctl.InputType)] {
			return entity.ControlText, true
		}
	case "button", "div":
		if isDropdownControl(ctl) {
			return entity.ControlDropdown, true
		}
	}

	return "", false
}

func isDropdownControl(ctl entity.Control) bool {
	if ctl.Attr("aria-haspopup") == "listbox" {
		return true
	}
	role := strings.ToLower(ctl.Attr("role"))
	return role == "combobox" || role == "listbox"
}

func isDateControl(ctl entity.Control) bool {
	if ctl.Tag != "input" {
		return false
	}
	// Workday renders dates as a trio of month/day/year spin controls sharing
	// a dateSection identifier.
	joined := strings.ToLower(ctl.Attr("id") + " " + ctl.AutomationID())
	if strings.Contains(joined, "datesection") {
		return true
	}
	return ctl.Attr("role") == "spinbutton" && strings.Contains(joined, "date")
}

func isFileTrigger(ctl entity.Control) bool {
	text := normalizeText(ctl.Text)
	id := strings.ToLower(ctl.AutomationID())
	if strings.Contains(id, "select-files") {
		return true
	}
	for _, kw := range fileTriggerKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasClutterKeyword(ctl entity.Control) bool {
	id := strings.ToLower(ctl.Attr("id"))
	automationID := strings.ToLower(ctl.AutomationID())
	for _, kw := range clutterKeywords {
		if strings.Contains(automationID, kw) || strings.Contains(id, kw) {
			return true
		}
	}
	class := ctl.Attr("class")
	for _, pattern := range clutterClassPatterns {
		if strings.Contains(class, pattern) {
			return true
		}
	}
	return false
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
