package resolution

import (
	"strings"
	"unicode"

	"formwalker/internal/domain/entity"
)

var truthyValues = map[string]bool{
	"true": true,
	"yes":  true,
	"1":    true,
}

// Resolver matches FieldDescriptors against a DataProfile. Resolve is a pure
// function of (descriptors, profile, tables): same inputs, same output, no
// profile mutation.
type Resolver struct {
	tables Tables
}

func NewResolver(tables Tables) *Resolver {
	return &Resolver{tables: tables}
}

// Resolve returns a MappedField per descriptor the profile can answer,
// preserving the input field order. A field with no alias match or no profile
// value is simply absent from the result; that is not an error.
func (r *Resolver) Resolve(fields []entity.FieldDescriptor, profile entity.DataProfile) []entity.MappedField {
	mapped := make([]entity.MappedField, 0, len(fields))
	for _, field := range fields {
		mf, ok := r.resolveField(field, profile)
		if ok {
			mapped = append(mapped, mf)
		}
	}
	return mapped
}

func (r *Resolver) resolveField(field entity.FieldDescriptor, profile entity.DataProfile) (entity.MappedField, bool) {
	key, ok := r.matchAlias(field.ID, field.Label)
	if !ok {
		return entity.MappedField{}, false
	}
	raw, ok := profile.Get(key)
	if !ok {
		return entity.MappedField{}, false
	}

	mf := entity.MappedField{Field: field, Type: field.Type}

	switch field.Type {
	case entity.ControlCheckbox:
		mf.Checked = truthyValues[strings.ToLower(strings.TrimSpace(raw))]
		mf.Value = raw
	case entity.ControlSelect, entity.ControlMultiSelect, entity.ControlDropdown, entity.ControlRadioGroup:
		mf.Value, mf.Fallback = r.reconcileOption(field, raw)
	case entity.ControlText, entity.ControlTextarea, entity.ControlPassword:
		mf.Value = r.formatText(field.ID, raw)
	default:
		mf.Value = raw
	}

	return mf, true
}

// matchAlias finds the profile key for a field: first an exact pass where an
// alias match string appears as a substring of the identifier or label, then
// a fuzzy pass over the camel-case tokens of each match string. Both are
// case-insensitive; the first hit wins.
func (r *Resolver) matchAlias(id, label string) (string, bool) {
	idLower := strings.ToLower(id)
	labelLower := strings.ToLower(label)

	for _, rule := range r.tables.Aliases {
		m := strings.ToLower(rule.Match)
		if strings.Contains(idLower, m) || strings.Contains(labelLower, m) {
			return rule.Key, true
		}
	}

	for _, rule := range r.tables.Aliases {
		for _, token := range camelTokens(rule.Match) {
			t := strings.ToLower(token)
			if len(t) < 3 {
				continue
			}
			if strings.Contains(idLower, t) || strings.Contains(labelLower, t) {
				return rule.Key, true
			}
		}
	}

	return "", false
}

// reconcileOption maps a free-form profile value onto one of the field's
// fixed options: exact case-insensitive match, then the synonym table, then
// the first option flagged as a fallback.
func (r *Resolver) reconcileOption(field entity.FieldDescriptor, value string) (string, bool) {
	if len(field.Options) == 0 {
		return value, false
	}

	for _, opt := range field.Options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(value)) {
			return opt, false
		}
	}

	idLower := strings.ToLower(field.ID)
	valueLower := strings.ToLower(strings.TrimSpace(value))
	for _, rule := range r.tables.Synonyms {
		if !strings.Contains(idLower, strings.ToLower(rule.Field)) {
			continue
		}
		for _, variant := range rule.Variants {
			if valueLower != strings.ToLower(variant) {
				continue
			}
			for _, opt := range field.Options {
				if strings.Contains(strings.ToLower(opt), strings.ToLower(rule.Canonical)) {
					return opt, false
				}
			}
		}
	}

	// No semantic match. Defaulting to the first option keeps the form moving
	// but can pick a wrong answer, so it is always flagged.
	return field.Options[0], true
}

func (r *Resolver) formatText(id, value string) string {
	idLower := strings.ToLower(id)
	for _, rule := range r.tables.Formats {
		if strings.Contains(idLower, strings.ToLower(rule.Match)) {
			if fn, ok := formatters[rule.Format]; ok {
				return fn(value)
			}
		}
	}
	return value
}

// camelTokens splits a match string at camel-case boundaries; a string with
// no uppercase letters yields itself.
func camelTokens(s string) []string {
	var tokens []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			tokens = append(tokens, s[start:i])
			start = i
		}
	}
	tokens = append(tokens, s[start:])
	if len(tokens) == 1 {
		return tokens
	}
	return tokens
}
