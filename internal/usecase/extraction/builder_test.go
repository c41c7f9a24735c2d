package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formwalker/internal/domain/entity"
)

type fakeOptions struct {
	opts map[string][]string
	err  error
}

func (f *fakeOptions) DropdownOptions(ctx context.Context, selector string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.opts[selector], nil
}

func newTestBuilder(opts *fakeOptions, defaults map[string][]string) *Builder {
	if opts == nil {
		opts = &fakeOptions{}
	}
	return NewBuilder(opts, nopLogger{}, defaults)
}

func TestBuild_LabelPrecedence(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	tests := []struct {
		name string
		ctl  entity.Control
		want string
	}{
		{"bound label wins", entity.Control{
			Tag: "input", LabelText: "First Name",
			Attrs: map[string]string{"aria-label": "fn", "placeholder": "enter"},
		}, "First Name"},
		{"aria label second", entity.Control{
			Tag: "input", Attrs: map[string]string{"aria-label": "Email Address", "placeholder": "you@example.com"},
		}, "Email Address"},
		{"placeholder third", entity.Control{
			Tag: "input", Attrs: map[string]string{"placeholder": "Street address"},
		}, "Street address"},
		{"sibling text fourth", entity.Control{
			Tag: "input", SiblingText: "Postal Code",
		}, "Postal Code"},
		{"nothing", entity.Control{Tag: "input"}, "Unlabeled Field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := b.Build(ctx, tt.ctl, entity.ControlText)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.Label)
		})
	}
}

func TestBuild_LongSiblingTextIgnored(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	long := make([]byte, 0, 120)
	for i := 0; i < 40; i++ {
		long = append(long, 'a', 'b', ' ')
	}
	desc, err := b.Build(ctx, entity.Control{Tag: "input", SiblingText: string(long)}, entity.ControlText)
	require.NoError(t, err)
	assert.Equal(t, "Unlabeled Field", desc.Label)
}

func TestBuild_IdentifierPrecedence(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	tests := []struct {
		name string
		ctl  entity.Control
		want string
	}{
		{"automation id wins", entity.Control{Tag: "input", Attrs: map[string]string{
			"data-automation-id": "name--legalName--firstName", "id": "input-4", "name": "first",
		}}, "name--legalName--firstName"},
		{"dom id second", entity.Control{Tag: "input", Attrs: map[string]string{
			"id": "input-4", "name": "first",
		}}, "input-4"},
		{"name third", entity.Control{Tag: "input", Attrs: map[string]string{"name": "first"}}, "first"},
		{"label slug last", entity.Control{Tag: "input", LabelText: "First Name*"}, "first-name"},
		{"no sources at all", entity.Control{Tag: "input"}, "unlabeled-field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := b.Build(ctx, tt.ctl, entity.ControlText)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.ID)
		})
	}
}

func TestBuild_RequiredDetection(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	tests := []struct {
		name string
		ctl  entity.Control
		want bool
	}{
		{"required attr", entity.Control{Tag: "input", Attrs: map[string]string{"required": ""}}, true},
		{"aria required", entity.Control{Tag: "input", Attrs: map[string]string{"aria-required": "true"}}, true},
		{"star in label", entity.Control{Tag: "input", LabelText: "Email*"}, true},
		{"required container", entity.Control{Tag: "input", ContainerRequired: true}, true},
		{"optional", entity.Control{Tag: "input", LabelText: "Middle Name"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := b.Build(ctx, tt.ctl, entity.ControlText)
			require.NoError(t, err)
			assert.Equal(t, tt.want, desc.Required)
		})
	}
}

func TestBuild_SelectOptions(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	ctl := entity.Control{
		Tag:       "select",
		LabelText: "Country",
		Options: []entity.ControlOption{
			{Text: "United States", Value: "us"},
			{Text: "", Value: "ca"},
			{Text: "  ", Value: ""},
		},
	}
	desc, err := b.Build(ctx, ctl, entity.ControlSelect)
	require.NoError(t, err)
	assert.Equal(t, []string{"United States", "ca"}, desc.Options)
}

func TestBuild_DropdownOptionsDiscovered(t *testing.T) {
	ctx := context.Background()
	opts := &fakeOptions{opts: map[string][]string{
		`//*[@id="dd1"]`: {"Mobile", "Landline"},
	}}
	b := newTestBuilder(opts, nil)

	ctl := entity.Control{
		Tag:      "button",
		Attrs:    map[string]string{"data-automation-id": "phoneNumber--phoneDeviceType", "aria-haspopup": "listbox"},
		Selector: `//*[@id="dd1"]`,
	}
	desc, err := b.Build(ctx, ctl, entity.ControlDropdown)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mobile", "Landline"}, desc.Options)
}

func TestBuild_DropdownDefaultsSubstituted(t *testing.T) {
	ctx := context.Background()
	defaults := map[string][]string{
		"source--source": {"Job Board", "Other"},
	}
	b := newTestBuilder(&fakeOptions{}, defaults)

	ctl := entity.Control{
		Tag:      "button",
		Attrs:    map[string]string{"data-automation-id": "source--source", "aria-haspopup": "listbox"},
		Selector: `//*[@id="dd2"]`,
	}
	desc, err := b.Build(ctx, ctl, entity.ControlDropdown)
	require.NoError(t, err)
	assert.Equal(t, []string{"Job Board", "Other"}, desc.Options)

	// Unknown identifiers stay empty; defaults are an explicit opt-in.
	ctl.Attrs["data-automation-id"] = "somethingElse"
	desc, err = b.Build(ctx, ctl, entity.ControlDropdown)
	require.NoError(t, err)
	assert.Empty(t, desc.Options)
}

func TestBuild_DropdownDiscoveryError(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(&fakeOptions{err: errors.New("element detached")}, nil)

	ctl := entity.Control{Tag: "button", Attrs: map[string]string{"id": "dd"}, Selector: "#dd"}
	_, err := b.Build(ctx, ctl, entity.ControlDropdown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dd")
}

func TestBuild_RadioMember(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	ctl := entity.Control{
		Tag:       "input",
		InputType: "radio",
		Attrs:     map[string]string{"name": "workAuthorization", "value": "yes"},
		LabelText: "Yes",
	}
	desc, err := b.Build(ctx, ctl, entity.ControlRadio)
	require.NoError(t, err)
	assert.Equal(t, "workAuthorization", desc.GroupName)
	assert.Equal(t, []string{"Yes"}, desc.Options)
	assert.Equal(t, "Yes", desc.Label)
}

func TestBuild_RadioGroupLabelOverrides(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	ctl := entity.Control{
		Tag:        "input",
		InputType:  "radio",
		Attrs:      map[string]string{"name": "sponsorship", "id": "sponsorship-yes"},
		LabelText:  "Yes",
		GroupLabel: "Will you require sponsorship?*",
	}
	desc, err := b.Build(ctx, ctl, entity.ControlRadio)
	require.NoError(t, err)
	assert.Equal(t, "sponsorship", desc.ID)
	assert.Equal(t, "Will you require sponsorship?", desc.Label)
}

func TestBuild_NamelessRadioFails(t *testing.T) {
	ctx := context.Background()
	b := newTestBuilder(nil, nil)

	ctl := entity.Control{Tag: "input", InputType: "radio", LabelText: "Yes"}
	_, err := b.Build(ctx, ctl, entity.ControlRadio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name attribute")
}
