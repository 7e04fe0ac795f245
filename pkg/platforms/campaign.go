package platforms

import (
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/validation"
)

// StatusPaused is the creation status for every new campaign. Spend cannot
// start without an explicit separate activation step.
const StatusPaused = "PAUSED"

// Targeting defaults applied when the canonical audience leaves them unset
const (
	defaultAgeMin     = 18
	defaultAgeMax     = 65
	defaultCityRadius = 10
)

// metaObjectives maps canonical objectives to Meta Ads objectives
var metaObjectives = map[string]string{
	models.ObjectiveAwareness:   "BRAND_AWARENESS",
	models.ObjectiveTraffic:     "TRAFFIC",
	models.ObjectiveEngagement:  "ENGAGEMENT",
	models.ObjectiveLeads:       "LEAD_GENERATION",
	models.ObjectiveConversions: "CONVERSIONS",
	models.ObjectiveSales:       "SALES",
}

// googleChannelTypes maps canonical objectives to Google Ads channel types
var googleChannelTypes = map[string]string{
	models.ObjectiveAwareness:   "DISPLAY",
	models.ObjectiveTraffic:     "SEARCH",
	models.ObjectiveEngagement:  "DISPLAY",
	models.ObjectiveLeads:       "SEARCH",
	models.ObjectiveConversions: "SEARCH",
	models.ObjectiveSales:       "SHOPPING",
}

// GeoCity is a city entry in Meta Ads geo targeting
type GeoCity struct {
	Key          string `json:"key"`
	Radius       int    `json:"radius"`
	DistanceUnit string `json:"distance_unit"`
}

// GeoLocations is the Meta Ads geo targeting block
type GeoLocations struct {
	Countries []string  `json:"countries,omitempty"`
	Cities    []GeoCity `json:"cities,omitempty"`
}

// MetaTargeting is the Meta Ads targeting block
type MetaTargeting struct {
	AgeMin       int          `json:"age_min"`
	AgeMax       int          `json:"age_max"`
	Genders      []int        `json:"genders"`
	GeoLocations GeoLocations `json:"geo_locations"`
	Interests    []string     `json:"interests"`
}

// MetaCampaign is the Meta Ads campaign payload. DailyBudget is integer
// cents.
type MetaCampaign struct {
	Name        string        `json:"name"`
	Objective   string        `json:"objective"`
	Status      string        `json:"status"`
	DailyBudget int64         `json:"daily_budget"`
	Targeting   MetaTargeting `json:"targeting"`
}

// GoogleBudget holds a Google Ads budget in micros
type GoogleBudget struct {
	AmountMicros int64 `json:"amount_micros"`
}

// GoogleCampaign is the Google Ads campaign payload
type GoogleCampaign struct {
	Name                   string       `json:"name"`
	AdvertisingChannelType string       `json:"advertising_channel_type"`
	Status                 string       `json:"status"`
	CampaignBudget         GoogleBudget `json:"campaign_budget"`
}

// TransformCampaign maps a canonical campaign to the destination platform's
// payload. The canonical object is validated first; platforms without an
// explicit transform get the campaign passed through unchanged.
func TransformCampaign(platform string, campaign models.Campaign) (interface{}, error) {
	if err := validation.ValidateCampaign(campaign); err != nil {
		return nil, err
	}

	canonical, _ := Normalize(platform)
	switch canonical {
	case Meta:
		return metaCampaign(campaign), nil
	case Google:
		return googleCampaign(campaign), nil
	default:
		return campaign, nil
	}
}

func metaCampaign(campaign models.Campaign) MetaCampaign {
	objective, ok := metaObjectives[campaign.Objective]
	if !ok {
		objective = "CONVERSIONS"
	}

	ta := campaign.TargetAudience
	ageMin := ta.AgeMin
	if ageMin == 0 {
		ageMin = defaultAgeMin
	}
	ageMax := ta.AgeMax
	if ageMax == 0 {
		ageMax = defaultAgeMax
	}

	return MetaCampaign{
		Name:        campaign.Name,
		Objective:   objective,
		Status:      StatusPaused,
		DailyBudget: int64(campaign.Budget * 100),
		Targeting: MetaTargeting{
			AgeMin:       ageMin,
			AgeMax:       ageMax,
			Genders:      MapGender(ta.Gender),
			GeoLocations: mapLocations(ta.Locations),
			Interests:    ta.Interests,
		},
	}
}

func googleCampaign(campaign models.Campaign) GoogleCampaign {
	channelType, ok := googleChannelTypes[campaign.Objective]
	if !ok {
		channelType = "DISPLAY"
	}

	return GoogleCampaign{
		Name:                   campaign.Name,
		AdvertisingChannelType: channelType,
		Status:                 StatusPaused,
		CampaignBudget: GoogleBudget{
			AmountMicros: int64(campaign.Budget * 1_000_000),
		},
	}
}

// MapGender maps the canonical gender to Meta's numeric code list.
// Anything other than male or female targets both.
func MapGender(gender string) []int {
	switch gender {
	case "male":
		return []int{1}
	case "female":
		return []int{2}
	default:
		return []int{1, 2}
	}
}

func mapLocations(locations models.Locations) GeoLocations {
	geo := GeoLocations{
		Countries: locations.Countries,
	}
	for _, city := range locations.Cities {
		key := city.Key
		if key == "" {
			key = city.Name
		}
		radius := city.Radius
		if radius == 0 {
			radius = defaultCityRadius
		}
		geo.Cities = append(geo.Cities, GeoCity{
			Key:          key,
			Radius:       radius,
			DistanceUnit: "mile",
		})
	}
	return geo
}
