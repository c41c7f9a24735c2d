package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"formwalker/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const maxControls = 500

// controlSnapshotJS captures everything classification and building need in
// one round trip per element: tag, attributes, computed style, bounding box,
// bound label, nearby text and native select options.
const controlSnapshotJS = `() => {
	const cs = window.getComputedStyle(this);
	const rect = this.getBoundingClientRect();
	const attrs = {};
	for (const a of this.attributes) attrs[a.name] = a.value;

	let label = '';
	if (this.id) {
		const bound = document.querySelector('label[for="' + CSS.escape(this.id) + '"]');
		if (bound) label = bound.innerText;
	}
	if (!label) {
		const wrapper = this.closest('label');
		if (wrapper) label = wrapper.innerText;
	}

	let sibling = '';
	if (this.parentElement) sibling = this.parentElement.innerText || '';

	let group = '';
	const name = this.getAttribute('name');
	if (name && this.type === 'radio') {
		const container = document.querySelector('[data-automation-id="formField-' + CSS.escape(name) + '"]');
		if (container) group = container.innerText;
	}

	const options = [];
	if (this.tagName === 'SELECT') {
		for (const o of this.options) options.push({ text: o.innerText, value: o.value });
	}

	return {
		tag: this.tagName.toLowerCase(),
		type: this.type || '',
		attrs: attrs,
		text: (this.innerText || '').trim(),
		label: label,
		sibling: sibling,
		group: group,
		display: cs.display,
		visibility: cs.visibility,
		hasBox: rect.width > 0 || rect.height > 0,
		width: rect.width,
		height: rect.height,
		multiple: !!this.multiple,
		containerRequired: !!this.closest('[data-required], [aria-required="true"]'),
		options: options,
	};
}`

// Controls snapshots every candidate form control in the current view. Nodes
// that fail to snapshot are skipped; that is the extractor's error model too.
func (a *PageAdapter) Controls(ctx context.Context) ([]entity.Control, error) {
	elements, err := a.page.Timeout(a.timeout).Elements(
		"input, select, textarea, button, [role='combobox'], [aria-haspopup='listbox']")
	if err != nil {
		return nil, fmt.Errorf("query controls: %w", err)
	}

	controls := make([]entity.Control, 0, len(elements))
	for _, el := range elements {
		if len(controls) >= maxControls {
			break
		}
		ctl, err := snapshotControl(el)
		if err != nil {
			continue
		}
		controls = append(controls, ctl)
	}
	return controls, nil
}

// DropdownOptions opens a lazily-populated dropdown, collects its visible
// option texts and closes it with Escape.
func (a *PageAdapter) DropdownOptions(ctx context.Context, selector string) ([]string, error) {
	el, err := a.element(selector)
	if err != nil {
		return nil, fmt.Errorf("dropdown not found: %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("open dropdown: %w", err)
	}
	a.page.WaitIdle(1 * time.Second)

	var options []string
	optionEls, err := a.page.Elements(`[role="option"]`)
	if err == nil {
		for _, opt := range optionEls {
			visible, err := opt.Visible()
			if err != nil || !visible {
				continue
			}
			text, err := opt.Text()
			if err != nil {
				continue
			}
			if text = strings.TrimSpace(text); text != "" {
				options = append(options, text)
			}
		}
	}

	_ = a.page.Keyboard.Press(input.Escape)
	a.page.WaitIdle(500 * time.Millisecond)
	return options, nil
}

func snapshotControl(el *rod.Element) (entity.Control, error) {
	obj, err := el.Eval(controlSnapshotJS)
	if err != nil {
		return entity.Control{}, fmt.Errorf("snapshot control: %w", err)
	}
	xpath, err := el.GetXPath(false)
	if err != nil {
		return entity.Control{}, fmt.Errorf("element xpath: %w", err)
	}
	v := obj.Value

	ctl := entity.Control{
		Tag:               v.Get("tag").Str(),
		InputType:         v.Get("type").Str(),
		Attrs:             gsonStringMap(v.Get("attrs")),
		Text:              v.Get("text").Str(),
		LabelText:         v.Get("label").Str(),
		SiblingText:       v.Get("sibling").Str(),
		GroupLabel:        v.Get("group").Str(),
		Display:           v.Get("display").Str(),
		Visibility:        v.Get("visibility").Str(),
		HasBox:            v.Get("hasBox").Bool(),
		Width:             v.Get("width").Num(),
		Height:            v.Get("height").Num(),
		Multiple:          v.Get("multiple").Bool(),
		ContainerRequired: v.Get("containerRequired").Bool(),
		Selector:          xpath,
	}

	for _, o := range v.Get("options").Arr() {
		ctl.Options = append(ctl.Options, entity.ControlOption{
			Text:  o.Get("text").Str(),
			Value: o.Get("value").Str(),
		})
	}

	return ctl, nil
}

func gsonStringMap(v gson.JSON) map[string]string {
	out := map[string]string{}
	for k, val := range v.Map() {
		out[k] = val.Str()
	}
	return out
}
