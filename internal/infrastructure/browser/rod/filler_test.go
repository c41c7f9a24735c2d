package rod

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

func propertyString(t *testing.T, adapter *PageAdapter, selector, property string) string {
	t.Helper()
	el, err := adapter.element(selector)
	require.NoError(t, err)
	v, err := el.Property(property)
	require.NoError(t, err)
	return v.Str()
}

func TestFill_TextField(t *testing.T) {
	adapter := newTestAdapter(t, formPage)
	filler := NewFiller(adapter, nopLogger{})

	mf := entity.MappedField{
		Field: entity.FieldDescriptor{ID: "firstName", Selector: "#firstName"},
		Type:  entity.ControlText,
		Value: "Jane",
	}
	require.NoError(t, filler.Fill(context.Background(), mf))
	assert.Equal(t, "Jane", propertyString(t, adapter, "#firstName", "value"))

	// Filling again replaces, never appends.
	mf.Value = "Joan"
	require.NoError(t, filler.Fill(context.Background(), mf))
	assert.Equal(t, "Joan", propertyString(t, adapter, "#firstName", "value"))
}

func TestFill_Checkbox(t *testing.T) {
	adapter := newTestAdapter(t, formPage)
	filler := NewFiller(adapter, nopLogger{})

	mf := entity.MappedField{
		Field:   entity.FieldDescriptor{ID: "subscribe", Selector: "#subscribe"},
		Type:    entity.ControlCheckbox,
		Checked: true,
	}
	require.NoError(t, filler.Fill(context.Background(), mf))

	el, err := adapter.element("#subscribe")
	require.NoError(t, err)
	checked, err := el.Property("checked")
	require.NoError(t, err)
	assert.True(t, checked.Bool())

	// Idempotent: a second fill with the same target state is a no-op.
	require.NoError(t, filler.Fill(context.Background(), mf))
	checked, err = el.Property("checked")
	require.NoError(t, err)
	assert.True(t, checked.Bool())
}

func TestFill_NativeSelect(t *testing.T) {
	adapter := newTestAdapter(t, formPage)
	filler := NewFiller(adapter, nopLogger{})

	mf := entity.MappedField{
		Field: entity.FieldDescriptor{ID: "country", Selector: "#country"},
		Type:  entity.ControlSelect,
		Value: "United States",
	}
	require.NoError(t, filler.Fill(context.Background(), mf))
	assert.Equal(t, "us", propertyString(t, adapter, "#country", "value"))
}

func TestFill_RadioGroup(t *testing.T) {
	adapter := newTestAdapter(t, formPage)
	filler := NewFiller(adapter, nopLogger{})

	mf := entity.MappedField{
		Field: entity.FieldDescriptor{ID: "workAuthorization", GroupName: "workAuthorization"},
		Type:  entity.ControlRadioGroup,
		Value: "Yes",
	}
	require.NoError(t, filler.Fill(context.Background(), mf))

	el, err := adapter.element(`input[type="radio"][value="yes"]`)
	require.NoError(t, err)
	checked, err := el.Property("checked")
	require.NoError(t, err)
	assert.True(t, checked.Bool())
}

func TestFill_RadioOptionMissing(t *testing.T) {
	adapter := newTestAdapter(t, formPage)
	filler := NewFiller(adapter, nopLogger{})

	mf := entity.MappedField{
		Field: entity.FieldDescriptor{ID: "workAuthorization", GroupName: "workAuthorization"},
		Type:  entity.ControlRadioGroup,
		Value: "Maybe",
	}
	err := filler.Fill(context.Background(), mf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
