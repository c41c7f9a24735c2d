package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.FillerPort = (*Filler)(nil)

// Filler simulates the actual input for resolved fields. It shares the page
// session with the adapter; traversal is strictly sequential so there is no
// contention.
type Filler struct {
	adapter *PageAdapter
	log     output.LoggerPort
}

func NewFiller(adapter *PageAdapter, log output.LoggerPort) *Filler {
	return &Filler{adapter: adapter, log: log}
}

func (f *Filler) Fill(ctx context.Context, mf entity.MappedField) error {
	f.log.Debug("Filling field", "id", mf.Field.ID, "type", string(mf.Type))

	switch mf.Type {
	case entity.ControlText, entity.ControlTextarea, entity.ControlPassword, entity.ControlDate:
		return f.fillText(mf.Field.Selector, mf.Value)
	case entity.ControlCheckbox:
		return f.setCheckbox(mf.Field.Selector, mf.Checked)
	case entity.ControlSelect, entity.ControlMultiSelect:
		return f.selectOption(mf.Field.Selector, mf.Value)
	case entity.ControlDropdown:
		return f.pickDropdownOption(mf.Field.Selector, mf.Value)
	case entity.ControlRadioGroup:
		return f.pickRadio(mf.Field.GroupName, mf.Value)
	case entity.ControlFile:
		return f.attachFile(mf.Field.Selector, mf.Value)
	}
	return fmt.Errorf("unsupported control type %q for field %q", mf.Type, mf.Field.ID)
}

func (f *Filler) fillText(selector, value string) error {
	el, err := f.adapter.element(selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (f *Filler) setCheckbox(selector string, checked bool) error {
	el, err := f.adapter.element(selector)
	if err != nil {
		return fmt.Errorf("checkbox not found: %s: %w", selector, err)
	}

	current, err := el.Property("checked")
	if err != nil {
		return fmt.Errorf("read checkbox state: %w", err)
	}
	if current.Bool() == checked {
		return nil
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("toggle checkbox: %w", err)
	}
	return nil
}

func (f *Filler) selectOption(selector, value string) error {
	el, err := f.adapter.element(selector)
	if err != nil {
		return fmt.Errorf("select not found: %s: %w", selector, err)
	}
	if err := el.Select([]string{value}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("select option %q: %w", value, err)
	}
	return nil
}

// pickDropdownOption opens a lazily-populated dropdown and clicks the visible
// option matching value, case-insensitively.
func (f *Filler) pickDropdownOption(selector, value string) error {
	el, err := f.adapter.element(selector)
	if err != nil {
		return fmt.Errorf("dropdown not found: %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("open dropdown: %w", err)
	}
	f.adapter.page.WaitIdle(1 * time.Second)

	options, err := f.adapter.page.Elements(`[role="option"]`)
	if err == nil {
		for _, opt := range options {
			visible, err := opt.Visible()
			if err != nil || !visible {
				continue
			}
			text, err := opt.Text()
			if err != nil {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(value)) {
				if err := opt.Click(proto.InputMouseButtonLeft, 1); err != nil {
					return fmt.Errorf("click option %q: %w", value, err)
				}
				return nil
			}
		}
	}

	_ = f.adapter.page.Keyboard.Press(input.Escape)
	return fmt.Errorf("dropdown option not found: %q", value)
}

// pickRadio clicks the member of a radio group whose label matches value.
func (f *Filler) pickRadio(groupName, value string) error {
	radios, err := f.adapter.page.Elements(fmt.Sprintf(`input[type="radio"][name=%q]`, groupName))
	if err != nil || len(radios) == 0 {
		return fmt.Errorf("radio group not found: %s: %w", groupName, err)
	}

	for _, radio := range radios {
		label, err := radioLabel(radio)
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(value)) {
			if err := radio.Click(proto.InputMouseButtonLeft, 1); err != nil {
				return fmt.Errorf("click radio %q: %w", value, err)
			}
			return nil
		}
	}
	return fmt.Errorf("radio option not found in group %q: %q", groupName, value)
}

func (f *Filler) attachFile(selector, path string) error {
	el, err := f.adapter.element(selector)
	if err != nil {
		return fmt.Errorf("file control not found: %s: %w", selector, err)
	}

	if tag, tagErr := el.Eval(`() => this.tagName.toLowerCase()`); tagErr == nil && tag.Value.Str() != "input" {
		// A trigger button: the real input is elsewhere on the page.
		fileInput, inputErr := f.adapter.page.Timeout(f.adapter.timeout).Element(`input[type="file"]`)
		if inputErr != nil {
			return fmt.Errorf("file input not found: %w", inputErr)
		}
		el = fileInput
	}

	if err := el.SetFiles([]string{path}); err != nil {
		return fmt.Errorf("attach file %q: %w", path, err)
	}
	return nil
}

func radioLabel(radio *rod.Element) (string, error) {
	obj, err := radio.Eval(`() => {
		if (this.id) {
			const bound = document.querySelector('label[for="' + CSS.escape(this.id) + '"]');
			if (bound) return bound.innerText;
		}
		const wrapper = this.closest('label');
		if (wrapper) return wrapper.innerText;
		return this.value || this.id || '';
	}`)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}
