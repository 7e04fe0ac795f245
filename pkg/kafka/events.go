package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Topic names, one stream per domain
const (
	TopicAnalysisEvents = "analysis_events"
	TopicContentEvents  = "content_events"
	TopicPageEvents     = "page_events"
	TopicCampaignEvents = "campaign_events"
)

// Event is the envelope every service publishes. Data carries the
// domain-specific payload.
type Event struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	Source        string                 `json:"source"`
	Data          map[string]interface{} `json:"data,omitempty"`
	SchemaVersion string                 `json:"schema_version"`
}

// NewEvent builds an event envelope with a fresh ID and timestamp.
func NewEvent(eventType, source string, data map[string]interface{}) *Event {
	return &Event{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          data,
		SchemaVersion: "1.0",
	}
}

// Event types published by the analysis service
const (
	EventAnalysisCompleted = "analysis.completed"
)

// Event types published by the content service
const (
	EventContentGenerated = "content.generated"
	EventContentPublished = "content.published"
	EventContentScheduled = "content.scheduled"
	EventContentSynced    = "content.synced"
	EventContentDeleted   = "content.deleted"
)

// Event types published by the pages service
const (
	EventPageGenerated = "page.generated"
	EventPageDeleted   = "page.deleted"
)

// Event types published by the ads service
const (
	EventCampaignCreated     = "campaign.created"
	EventCampaignUpdated     = "campaign.updated"
	EventCampaignDeleted     = "campaign.deleted"
	EventPerformanceRecorded = "campaign.performance_recorded"
)
