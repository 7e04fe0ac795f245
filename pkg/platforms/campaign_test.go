package platforms

import (
	"errors"
	"reflect"
	"testing"

	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/validation"
)

func baseCampaign() models.Campaign {
	return models.Campaign{
		Name:      "Spring Launch",
		Objective: models.ObjectiveTraffic,
		Budget:    12.5,
		Platform:  "facebook",
		TargetAudience: models.TargetAudience{
			AgeMin:    25,
			AgeMax:    40,
			Gender:    "female",
			Interests: []string{"running"},
			Locations: models.Locations{
				Countries: []string{"US"},
				Cities: []models.City{
					{Key: "2418779", Radius: 25},
					{Name: "Portland"},
				},
			},
		},
	}
}

func TestTransformCampaign_Meta(t *testing.T) {
	payload, err := TransformCampaign("facebook", baseCampaign())
	if err != nil {
		t.Fatal(err)
	}
	mc, ok := payload.(MetaCampaign)
	if !ok {
		t.Fatalf("expected MetaCampaign, got %T", payload)
	}

	if mc.Objective != "TRAFFIC" {
		t.Errorf("objective = %q", mc.Objective)
	}
	if mc.Status != StatusPaused {
		t.Errorf("status = %q", mc.Status)
	}
	// 12.50 becomes integer cents
	if mc.DailyBudget != 1250 {
		t.Errorf("daily_budget = %d, want 1250", mc.DailyBudget)
	}
	if mc.Targeting.AgeMin != 25 || mc.Targeting.AgeMax != 40 {
		t.Errorf("ages = %d/%d", mc.Targeting.AgeMin, mc.Targeting.AgeMax)
	}
	if !reflect.DeepEqual(mc.Targeting.Genders, []int{2}) {
		t.Errorf("genders = %v", mc.Targeting.Genders)
	}
	wantCities := []GeoCity{
		{Key: "2418779", Radius: 25, DistanceUnit: "mile"},
		{Key: "Portland", Radius: 10, DistanceUnit: "mile"},
	}
	if !reflect.DeepEqual(mc.Targeting.GeoLocations.Cities, wantCities) {
		t.Errorf("cities = %+v", mc.Targeting.GeoLocations.Cities)
	}
}

func TestTransformCampaign_MetaDefaults(t *testing.T) {
	c := baseCampaign()
	c.Objective = "brand_lift"
	c.TargetAudience.AgeMin = 0
	c.TargetAudience.AgeMax = 0
	c.TargetAudience.Gender = ""

	payload, err := TransformCampaign("meta", c)
	if err != nil {
		t.Fatal(err)
	}
	mc := payload.(MetaCampaign)
	if mc.Objective != "CONVERSIONS" {
		t.Errorf("objective = %q, want CONVERSIONS fallback", mc.Objective)
	}
	if mc.Targeting.AgeMin != 18 || mc.Targeting.AgeMax != 65 {
		t.Errorf("ages = %d/%d, want 18/65", mc.Targeting.AgeMin, mc.Targeting.AgeMax)
	}
	if !reflect.DeepEqual(mc.Targeting.Genders, []int{1, 2}) {
		t.Errorf("genders = %v, want both", mc.Targeting.Genders)
	}
}

func TestTransformCampaign_Google(t *testing.T) {
	c := baseCampaign()
	c.Budget = 3.0
	c.Objective = models.ObjectiveSales

	payload, err := TransformCampaign("google", c)
	if err != nil {
		t.Fatal(err)
	}
	gc, ok := payload.(GoogleCampaign)
	if !ok {
		t.Fatalf("expected GoogleCampaign, got %T", payload)
	}
	if gc.AdvertisingChannelType != "SHOPPING" {
		t.Errorf("channel = %q", gc.AdvertisingChannelType)
	}
	if gc.Status != StatusPaused {
		t.Errorf("status = %q", gc.Status)
	}
	if gc.CampaignBudget.AmountMicros != 3_000_000 {
		t.Errorf("amount_micros = %d, want 3000000", gc.CampaignBudget.AmountMicros)
	}

	c.Objective = "brand_lift"
	payload, err = TransformCampaign("google", c)
	if err != nil {
		t.Fatal(err)
	}
	if got := payload.(GoogleCampaign).AdvertisingChannelType; got != "DISPLAY" {
		t.Errorf("channel = %q, want DISPLAY fallback", got)
	}
}

func TestTransformCampaign_UnknownPlatformPassthrough(t *testing.T) {
	c := baseCampaign()
	payload, err := TransformCampaign("pinterest", c)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := payload.(models.Campaign)
	if !ok {
		t.Fatalf("expected canonical campaign, got %T", payload)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("campaign changed in passthrough: %+v", got)
	}
}

func TestTransformCampaign_Invalid(t *testing.T) {
	c := baseCampaign()
	c.Budget = -5
	_, err := TransformCampaign("meta", c)
	var fieldErr *validation.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Field != "budget" {
		t.Errorf("field = %q", fieldErr.Field)
	}
}

func TestMapGender(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"male", []int{1}},
		{"female", []int{2}},
		{"all", []int{1, 2}},
		{"", []int{1, 2}},
	}
	for _, tt := range tests {
		if got := MapGender(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MapGender(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
