package models

import "time"

// PageContent holds the extracted segments of a generated page.
// HTML is always non-empty; when no fenced block is found the whole
// completion becomes the HTML segment.
type PageContent struct {
	HTML string `json:"html" bson:"html"`
	CSS  string `json:"css,omitempty" bson:"css,omitempty"`
	JS   string `json:"js,omitempty" bson:"js,omitempty"`
}

// GeneratedPage is a persisted generated page
type GeneratedPage struct {
	ID           string      `json:"id" bson:"_id"`
	BusinessName string      `json:"business_name" bson:"business_name"`
	PageType     string      `json:"page_type" bson:"page_type"`
	TemplateID   string      `json:"template_id,omitempty" bson:"template_id,omitempty"`
	Content      PageContent `json:"content" bson:"content"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
}
