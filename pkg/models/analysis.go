package models

import "time"

// AnalysisResult holds the structured outcome of an analysis completion.
// Score is always clamped to [0, 100].
type AnalysisResult struct {
	Score           float64                `json:"score" bson:"score"`
	Strengths       []string               `json:"strengths" bson:"strengths"`
	Weaknesses      []string               `json:"weaknesses" bson:"weaknesses"`
	Recommendations []string               `json:"recommendations" bson:"recommendations"`
	Details         map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
}

// ProductAnalysis is a persisted product listing analysis
type ProductAnalysis struct {
	ID          string         `json:"id" bson:"_id"`
	ProductName string         `json:"product_name" bson:"product_name"`
	ProductURL  string         `json:"product_url,omitempty" bson:"product_url,omitempty"`
	Analysis    AnalysisResult `json:"analysis" bson:"analysis"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}

// CheckoutAnalysis is a persisted checkout flow analysis
type CheckoutAnalysis struct {
	ID          string         `json:"id" bson:"_id"`
	CheckoutURL string         `json:"checkout_url,omitempty" bson:"checkout_url,omitempty"`
	StepsCount  int            `json:"steps_count" bson:"steps_count"`
	Analysis    AnalysisResult `json:"analysis" bson:"analysis"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}

// WebsiteAspectScore is one scored aspect of a website analysis (0-10 scale)
type WebsiteAspectScore struct {
	Aspect          string   `json:"aspect" bson:"aspect"`
	Score           float64  `json:"score" bson:"score"`
	Recommendations []string `json:"recommendations" bson:"recommendations"`
}

// WebsiteAnalysis is a persisted whole-site analysis. OverallScore is the
// average of the aspect scores converted to the 0-100 scale.
type WebsiteAnalysis struct {
	ID           string               `json:"id" bson:"_id"`
	WebsiteURL   string               `json:"website_url" bson:"website_url"`
	OverallScore float64              `json:"overall_score" bson:"overall_score"`
	Aspects      []WebsiteAspectScore `json:"aspects" bson:"aspects"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
}
