package models

import "time"

// Content type tags. Social and email types are parameterized:
// "social_media_<platform>" and "email_<type>".
const (
	ContentTypeBlogPost           = "blog_post"
	ContentTypeProductDescription = "product_description"
	ContentTypeSocialPrefix       = "social_media_"
	ContentTypeEmailPrefix        = "email_"
)

// ContentRecord is a persisted piece of generated content. The publish flow
// attaches the platform post fields after a successful outbound call.
type ContentRecord struct {
	ID              string   `json:"id" bson:"_id"`
	ContentType     string   `json:"content_type" bson:"content_type"`
	Title           string   `json:"title,omitempty" bson:"title,omitempty"`
	Content         string   `json:"content" bson:"content"`
	MetaDescription string   `json:"meta_description,omitempty" bson:"meta_description,omitempty"`
	Keywords        []string `json:"keywords,omitempty" bson:"keywords,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	Subject         string   `json:"subject,omitempty" bson:"subject,omitempty"`
	Topic           string   `json:"topic,omitempty" bson:"topic,omitempty"`
	BusinessName    string   `json:"business_name,omitempty" bson:"business_name,omitempty"`

	// Platform publish state
	Platform           string     `json:"platform,omitempty" bson:"platform,omitempty"`
	PlatformPostID     string     `json:"platform_post_id,omitempty" bson:"platform_post_id,omitempty"`
	PlatformPostURL    string     `json:"platform_post_url,omitempty" bson:"platform_post_url,omitempty"`
	Published          bool       `json:"published" bson:"published"`
	PublishedAt        *time.Time `json:"published_at,omitempty" bson:"published_at,omitempty"`
	ScheduledAt        *time.Time `json:"scheduled_at,omitempty" bson:"scheduled_at,omitempty"`
	ScheduledPlatform  string     `json:"scheduled_platform,omitempty" bson:"scheduled_platform,omitempty"`
	SyncedWithPlatform bool       `json:"synced_with_platform" bson:"synced_with_platform"`
	LastSyncedAt       *time.Time `json:"last_synced_at,omitempty" bson:"last_synced_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ContentInsights is a snapshot of platform engagement metrics for a post
type ContentInsights struct {
	ID        string                 `json:"id" bson:"_id"`
	ContentID string                 `json:"content_id" bson:"content_id"`
	Platform  string                 `json:"platform" bson:"platform"`
	Metrics   map[string]interface{} `json:"metrics" bson:"metrics"`
	FetchedAt time.Time              `json:"fetched_at" bson:"fetched_at"`
}

// PlatformAnalytics stores account-level metrics for one platform and date
// range. Re-fetching the same range replaces the stored numbers.
type PlatformAnalytics struct {
	ID        string                 `json:"id" bson:"_id"`
	Platform  string                 `json:"platform" bson:"platform"`
	StartDate string                 `json:"start_date" bson:"start_date"`
	EndDate   string                 `json:"end_date" bson:"end_date"`
	Analytics map[string]interface{} `json:"analytics" bson:"analytics"`
	FetchedAt time.Time              `json:"fetched_at" bson:"fetched_at"`
}

// ContentPerformance holds the latest engagement metrics per content and
// platform. ContentInsights keeps the full fetch history; this keeps one row.
type ContentPerformance struct {
	ID             string                 `json:"id" bson:"_id"`
	ContentID      string                 `json:"content_id" bson:"content_id"`
	Platform       string                 `json:"platform" bson:"platform"`
	PlatformPostID string                 `json:"platform_post_id" bson:"platform_post_id"`
	Metrics        map[string]interface{} `json:"metrics" bson:"metrics"`
	FetchedAt      time.Time              `json:"fetched_at" bson:"fetched_at"`
}

// PlatformCredentials stores gateway connector credentials for a platform.
// Secret values are field-encrypted before persistence.
type PlatformCredentials struct {
	ID          string            `json:"id" bson:"_id"`
	Platform    string            `json:"platform" bson:"platform"`
	Credentials map[string]string `json:"credentials" bson:"credentials"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}
