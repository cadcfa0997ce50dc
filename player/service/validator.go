// player/service/validator.go
package service

import (
	"net/url"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
)

// ValidateFields checks that every name in required was submitted.
// Presence is all that is checked; an empty value passes.
func ValidateFields(form url.Values, required []string) (map[string]string, error) {
	var missing []string
	out := make(map[string]string, len(required))
	for _, name := range required {
		if _, ok := form[name]; !ok {
			missing = append(missing, name)
			continue
		}
		out[name] = form.Get(name)
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	return out, nil
}

// ValidatePlayerFields checks a create or edit payload.
func ValidatePlayerFields(form url.Values) (models.PlayerFields, error) {
	fields, err := ValidateFields(form, models.RequiredFields)
	if err != nil {
		return nil, err
	}
	return models.PlayerFields(fields), nil
}
