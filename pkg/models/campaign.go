package models

import "time"

// Campaign objectives
const (
	ObjectiveAwareness   = "awareness"
	ObjectiveTraffic     = "traffic"
	ObjectiveEngagement  = "engagement"
	ObjectiveLeads       = "leads"
	ObjectiveConversions = "conversions"
	ObjectiveSales       = "sales"
)

// City is a targeted city with an optional radius
type City struct {
	Key          string `json:"key,omitempty" bson:"key,omitempty"`
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Radius       int    `json:"radius,omitempty" bson:"radius,omitempty"`
	DistanceUnit string `json:"distance_unit,omitempty" bson:"distance_unit,omitempty"`
}

// Locations holds geographic targeting
type Locations struct {
	Countries []string `json:"countries,omitempty" bson:"countries,omitempty"`
	Cities    []City   `json:"cities,omitempty" bson:"cities,omitempty"`
}

// TargetAudience describes who a campaign targets
type TargetAudience struct {
	AgeMin    int       `json:"age_min,omitempty" bson:"age_min,omitempty"`
	AgeMax    int       `json:"age_max,omitempty" bson:"age_max,omitempty"`
	Gender    string    `json:"gender,omitempty" bson:"gender,omitempty"`
	Locations Locations `json:"locations,omitempty" bson:"locations,omitempty"`
	Interests []string  `json:"interests,omitempty" bson:"interests,omitempty"`
}

// Campaign is the canonical, platform-independent campaign representation.
// Budget is in whole currency units (dollars).
type Campaign struct {
	Name           string         `json:"name" bson:"name"`
	Objective      string         `json:"objective" bson:"objective"`
	Budget         float64        `json:"budget" bson:"budget"`
	TargetAudience TargetAudience `json:"target_audience" bson:"target_audience"`
	Platform       string         `json:"platform" bson:"platform"`
}

// AdCampaign is a persisted campaign together with its platform state
type AdCampaign struct {
	ID                 string    `json:"id" bson:"_id"`
	Campaign           Campaign  `json:"campaign" bson:"campaign"`
	Platform           string    `json:"platform" bson:"platform"`
	PlatformCampaignID string    `json:"platform_campaign_id,omitempty" bson:"platform_campaign_id,omitempty"`
	Status             string    `json:"status" bson:"status"`
	ABTestGroup        string    `json:"ab_test_group,omitempty" bson:"ab_test_group,omitempty"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

// AdPerformance is a computed performance snapshot for a campaign
type AdPerformance struct {
	ID             string    `json:"id" bson:"_id"`
	CampaignID     string    `json:"campaign_id" bson:"campaign_id"`
	Impressions    int64     `json:"impressions" bson:"impressions"`
	Clicks         int64     `json:"clicks" bson:"clicks"`
	Conversions    int64     `json:"conversions" bson:"conversions"`
	Spend          float64   `json:"spend" bson:"spend"`
	CTR            float64   `json:"ctr" bson:"ctr"`
	ConversionRate float64   `json:"conversion_rate" bson:"conversion_rate"`
	CPA            float64   `json:"cpa" bson:"cpa"`
	ROAS           float64   `json:"roas" bson:"roas"`
	FetchedAt      time.Time `json:"fetched_at" bson:"fetched_at"`
}
