package validation

import (
	"errors"
	"testing"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

func validCampaign() models.Campaign {
	return models.Campaign{
		Name:      "Spring Launch",
		Objective: models.ObjectiveConversions,
		Budget:    25,
		Platform:  "meta",
		TargetAudience: models.TargetAudience{
			AgeMin: 18,
			AgeMax: 45,
			Gender: "all",
		},
	}
}

func TestValidateCampaign(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.Campaign)
		wantField string
	}{
		{"valid", func(c *models.Campaign) {}, ""},
		{"missing name", func(c *models.Campaign) { c.Name = "" }, "name"},
		{"missing platform", func(c *models.Campaign) { c.Platform = "" }, "platform"},
		{"negative budget", func(c *models.Campaign) { c.Budget = -1 }, "budget"},
		{"inverted ages", func(c *models.Campaign) {
			c.TargetAudience.AgeMin = 50
			c.TargetAudience.AgeMax = 20
		}, "target_audience.age_max"},
		{"unknown country code", func(c *models.Campaign) {
			c.TargetAudience.Locations.Countries = []string{"US", "ZZ"}
		}, "target_audience.locations.countries[1]"},
		{"city without key or name", func(c *models.Campaign) {
			c.TargetAudience.Locations.Cities = []models.City{{Radius: 5}}
		}, "target_audience.locations.cities[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCampaign()
			tt.mutate(&c)
			err := ValidateCampaign(c)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", fieldErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Topic string `validate:"required"`
	}
	if err := ValidateStruct(req{}); err == nil {
		t.Fatal("expected error for missing topic")
	}
	if err := ValidateStruct(req{Topic: "boots"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
