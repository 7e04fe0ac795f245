// Package validation checks canonical records before they reach a platform
// transform or an outbound gateway call. Violations surface as typed field
// errors so handlers can return them as 400s without string matching.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/theo45530/commerceai-pro/pkg/countries"
	"github.com/theo45530/commerceai-pro/pkg/models"
)

var validate = validator.New()

// FieldError reports a single invalid field on a canonical object
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateCampaign verifies a canonical campaign is safe to transform.
// Budget and targeting numbers must be sane; the transformer never silently
// corrects them.
func ValidateCampaign(c models.Campaign) error {
	if c.Name == "" {
		return &FieldError{Field: "name", Reason: "required"}
	}
	if c.Platform == "" {
		return &FieldError{Field: "platform", Reason: "required"}
	}
	if c.Budget < 0 {
		return &FieldError{Field: "budget", Reason: "must not be negative"}
	}
	ta := c.TargetAudience
	if ta.AgeMin < 0 {
		return &FieldError{Field: "target_audience.age_min", Reason: "must not be negative"}
	}
	if ta.AgeMax != 0 && ta.AgeMin > ta.AgeMax {
		return &FieldError{Field: "target_audience.age_max", Reason: "must not be below age_min"}
	}
	for i, code := range ta.Locations.Countries {
		if !countries.IsValid(code) {
			return &FieldError{
				Field:  fmt.Sprintf("target_audience.locations.countries[%d]", i),
				Reason: fmt.Sprintf("%q is not an ISO 3166-1 alpha-2 code", code),
			}
		}
	}
	for i, city := range ta.Locations.Cities {
		if city.Key == "" && city.Name == "" {
			return &FieldError{
				Field:  fmt.Sprintf("target_audience.locations.cities[%d]", i),
				Reason: "needs a key or a name",
			}
		}
		if city.Radius < 0 {
			return &FieldError{
				Field:  fmt.Sprintf("target_audience.locations.cities[%d].radius", i),
				Reason: "must not be negative",
			}
		}
	}
	return nil
}

// ValidateStruct runs tag-based validation on a request struct and converts
// the first violation into a FieldError.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return &FieldError{
			Field:  verrs[0].Field(),
			Reason: fmt.Sprintf("failed %q constraint", verrs[0].Tag()),
		}
	}
	return err
}
