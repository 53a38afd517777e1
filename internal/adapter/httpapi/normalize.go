package httpapi

import (
	"strings"

	"github.com/couchcryptid/weather-report-service/internal/domain"
)

// submissionAliases maps each logical field to its accepted key spellings,
// in precedence order. Form providers are inconsistent about field naming;
// the first key present with a non-blank string value wins.
var submissionAliases = []struct {
	field string
	keys  []string
}{
	{"name", []string{"name", "full_name", "Full Name"}},
	{"email", []string{"email", "Email"}},
	{"city", []string{"city", "City"}},
}

// NormalizeSubmission resolves an arbitrary webhook payload into the
// canonical submission shape, or returns a MissingFieldsError naming every
// field that could not be resolved.
func NormalizeSubmission(payload map[string]any) (domain.Submission, error) {
	values := make(map[string]string, len(submissionAliases))
	var missing []string

	for _, alias := range submissionAliases {
		value := ""
		for _, key := range alias.keys {
			if v, ok := payload[key].(string); ok && strings.TrimSpace(v) != "" {
				value = v
				break
			}
		}
		if value == "" {
			missing = append(missing, alias.field)
			continue
		}
		values[alias.field] = value
	}

	if len(missing) > 0 {
		return domain.Submission{}, &domain.MissingFieldsError{Fields: missing}
	}

	return domain.Submission{
		Name:  values["name"],
		Email: values["email"],
		City:  values["city"],
	}, nil
}
