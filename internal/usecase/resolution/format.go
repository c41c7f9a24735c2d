package resolution

import (
	"fmt"
	"strings"
)

const (
	FormatPhone  = "phone"
	FormatPostal = "postal"
	FormatCity   = "city"
)

var formatters = map[string]func(string) string{
	FormatPhone:  formatPhone,
	FormatPostal: formatPostal,
	FormatCity:   formatCity,
}

// formatPhone strips non-digits and renders a ten-digit number as
// (xxx) xxx-xxxx; anything else passes through untouched.
func formatPhone(v string) string {
	var digits strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return v
	}
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}

// formatPostal blanks composite location values ("California, USA") because
// they carry no postal code to extract.
func formatPostal(v string) string {
	if strings.Contains(v, ",") {
		return ""
	}
	return v
}

// formatCity extracts the city part from a "City, Region" value.
func formatCity(v string) string {
	if i := strings.Index(v, ","); i >= 0 {
		return strings.TrimSpace(v[:i])
	}
	return v
}
