package resolution

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasRule maps a known identifier/label substring to a DataProfile key.
// Rules are ordered; resolution takes the first match.
type AliasRule struct {
	Match string `yaml:"match"`
	Key   string `yaml:"key"`
}

type AliasTable []AliasRule

// SynonymRule translates free-form profile values onto a canonical option
// text for one field domain. Field selects the domain as an identifier
// substring.
type SynonymRule struct {
	Field     string   `yaml:"field"`
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

type SynonymTable []SynonymRule

// FormatRule routes a text field through a named formatter by identifier
// substring. Formatters are explicit; unknown names are a load-time error.
type FormatRule struct {
	Match  string `yaml:"match"`
	Format string `yaml:"format"`
}

type FormatTable []FormatRule

// Tables bundles everything the resolver consults. They are injected, never
// global, so tests and per-site deployments can override them.
type Tables struct {
	Aliases  AliasTable   `yaml:"aliases"`
	Synonyms SynonymTable `yaml:"synonyms"`
	Formats  FormatTable  `yaml:"formats"`
}

// DefaultTables covers the common Workday-style application fields.
func DefaultTables() Tables {
	return Tables{
		Aliases: AliasTable{
			// My Information
			{Match: "name--legalName--firstName", Key: "REGISTRATION_FIRST_NAME"},
			{Match: "name--legalName--lastName", Key: "REGISTRATION_LAST_NAME"},
			{Match: "email", Key: "REGISTRATION_EMAIL"},
			{Match: "phoneNumber--phoneNumber", Key: "REGISTRATION_PHONE"},
			{Match: "phoneNumber--phoneDeviceType", Key: "PHONE_DEVICE_TYPE"},
			{Match: "phoneNumber--phoneType", Key: "PHONE_DEVICE_TYPE"},
			{Match: "phoneNumber--countryPhoneCode", Key: "COUNTRY"},
			{Match: "country", Key: "COUNTRY"},
			{Match: "source--source", Key: "JOB_BOARD"},
			{Match: "candidateIsPreviousWorker", Key: "PREVIOUS_WORKER"},
			{Match: "address--addressLine1", Key: "ADDRESS"},
			{Match: "address--city", Key: "CITY"},
			{Match: "address--countryRegion", Key: "STATE"},
			{Match: "address--postalCode", Key: "POSTAL_CODE"},

			// Self identification
			{Match: "selfIdentifiedDisabilityData--name", Key: "LEGAL_NAME"},
			{Match: "dateSectionMonth", Key: "TODAY_MONTH"},
			{Match: "dateSectionDay", Key: "TODAY_DAY"},
			{Match: "dateSectionYear", Key: "TODAY_YEAR"},

			// Professional
			{Match: "currentCompany", Key: "CURRENT_COMPANY"},
			{Match: "currentRole", Key: "CURRENT_ROLE"},
			{Match: "github", Key: "GITHUB_URL"},
			{Match: "workAuthorization", Key: "WORK_AUTHORIZATION"},
			{Match: "visaStatus", Key: "VISA_STATUS"},
			{Match: "requiresSponsorship", Key: "SPONSORSHIP_REQUIRED"},
			{Match: "resumeAttachments--attachments", Key: "RESUME_PATH"},
			{Match: "select-files", Key: "RESUME_PATH"},
			{Match: "file-upload-input-ref", Key: "RESUME_PATH"},

			// Voluntary disclosures
			{Match: "personalInfoPerson--gender", Key: "GENDER"},
			{Match: "personalInfoUS--gender", Key: "GENDER"},
			{Match: "personalInfoUS--ethnicity", Key: "ETHNICITY"},
			{Match: "personalInfoUS--veteranStatus", Key: "VETERAN_STATUS"},
			{Match: "personalInfoUS--disability", Key: "DISABILITY_STATUS"},
			{Match: "acceptTermsAndAgreements", Key: "ACCEPT_TERMS"},

			// Application questions, matched by label text
			{Match: "meet all minimum qualifications", Key: "QUALIFICATIONS_MET"},
			{Match: "unrestricted right to work", Key: "WORK_ELIGIBILITY"},
			{Match: "require sponsorship", Key: "SPONSORSHIP_REQUIRED"},
			{Match: "sponsorship for an immigration-related employment benefit", Key: "SPONSORSHIP_REQUIRED"},
			{Match: "select your age category", Key: "AGE_CATEGORY"},
			{Match: "active duty or guard/reserve experience", Key: "ACTIVE_DUTY_STATUS"},
			{Match: "match the name on your legal id", Key: "NAME_LEGAL"},
		},
		Synonyms: SynonymTable{
			{Field: "country", Canonical: "United States", Variants: []string{"usa", "us", "united states of america"}},
			{Field: "country", Canonical: "Canada", Variants: []string{"ca", "can"}},

			{Field: "gender", Canonical: "Female", Variants: []string{"female", "woman"}},
			{Field: "gender", Canonical: "Male", Variants: []string{"male", "man"}},
			{Field: "gender", Canonical: "I don't wish to answer", Variants: []string{"na", "n/a", "no answer", "decline"}},

			{Field: "ethnicity", Canonical: "Asian", Variants: []string{"asian"}},
			{Field: "ethnicity", Canonical: "White", Variants: []string{"white", "caucasian"}},
			{Field: "ethnicity", Canonical: "Hispanic or Latino", Variants: []string{"hispanic", "latino"}},
			{Field: "ethnicity", Canonical: "Black or African American", Variants: []string{"black", "african american"}},
			{Field: "ethnicity", Canonical: "I don't wish to answer", Variants: []string{"na", "n/a", "no answer", "decline"}},

			{Field: "veteranStatus", Canonical: "I am not a veteran", Variants: []string{"no", "not a veteran", "none"}},
			{Field: "veteranStatus", Canonical: "protected veteran", Variants: []string{"yes", "veteran"}},

			{Field: "disability", Canonical: "No, I don't have a disability", Variants: []string{"no", "none"}},
			{Field: "disability", Canonical: "Yes, I have a disability", Variants: []string{"yes"}},
			{Field: "disability", Canonical: "I don't wish to answer", Variants: []string{"na", "n/a", "no answer", "decline"}},

			{Field: "workAuthorization", Canonical: "Yes", Variants: []string{"yes", "true", "1"}},
			{Field: "workAuthorization", Canonical: "No", Variants: []string{"no", "false", "0"}},
			{Field: "sponsorship", Canonical: "No", Variants: []string{"no", "false", "0"}},
			{Field: "sponsorship", Canonical: "Yes", Variants: []string{"yes", "true", "1"}},
		},
		Formats: FormatTable{
			{Match: "phone", Format: FormatPhone},
			{Match: "postal", Format: FormatPostal},
			{Match: "zip", Format: FormatPostal},
			{Match: "city", Format: FormatCity},
		},
	}
}

// LoadTables reads a YAML override file. Sections left empty in the file keep
// their defaults.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, fmt.Errorf("read resolution tables: %w", err)
	}

	var loaded Tables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return tables, fmt.Errorf("parse resolution tables: %w", err)
	}

	if len(loaded.Aliases) > 0 {
		tables.Aliases = loaded.Aliases
	}
	if len(loaded.Synonyms) > 0 {
		tables.Synonyms = loaded.Synonyms
	}
	if len(loaded.Formats) > 0 {
		for _, rule := range loaded.Formats {
			if _, ok := formatters[rule.Format]; !ok {
				return tables, fmt.Errorf("unknown formatter %q for field match %q", rule.Format, rule.Match)
			}
		}
		tables.Formats = loaded.Formats
	}

	return tables, nil
}
