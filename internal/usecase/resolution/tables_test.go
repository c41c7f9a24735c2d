package resolution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables_FormattersAreKnown(t *testing.T) {
	for _, rule := range DefaultTables().Formats {
		_, ok := formatters[rule.Format]
		assert.True(t, ok, rule.Format)
	}
}

func TestLoadTables_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	data := `
aliases:
  - match: "vorname"
    key: "REGISTRATION_FIRST_NAME"
formats:
  - match: "telefon"
    format: "phone"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	require.Len(t, tables.Aliases, 1)
	assert.Equal(t, "vorname", tables.Aliases[0].Match)

	require.Len(t, tables.Formats, 1)
	assert.Equal(t, "telefon", tables.Formats[0].Match)

	// The synonym section was omitted and keeps its defaults.
	assert.Equal(t, DefaultTables().Synonyms, tables.Synonyms)
}

func TestLoadTables_UnknownFormatterRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	data := `
formats:
  - match: "phone"
    format: "rot13"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := LoadTables(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rot13")
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(555) 123-4567", formatPhone("5551234567"))
	assert.Equal(t, "(555) 123-4567", formatPhone("555.123.4567"))
	assert.Equal(t, "555-1234", formatPhone("555-1234"))
}

func TestFormatCity(t *testing.T) {
	assert.Equal(t, "Austin", formatCity("Austin, TX"))
	assert.Equal(t, "Austin", formatCity("Austin"))
}

func TestFormatPostal(t *testing.T) {
	assert.Equal(t, "", formatPostal("California, USA"))
	assert.Equal(t, "94105", formatPostal("94105"))
}
