package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/platforms"
)

// PublishRequest is the body of POST /content/:id/publish
type PublishRequest struct {
	Platform string `json:"platform" binding:"required"`
	Link     string `json:"link"`
	Media    []string `json:"media_urls"`
	VideoURL string `json:"video_url"`
}

// ScheduleRequest is the body of POST /content/:id/schedule
type ScheduleRequest struct {
	Platform     string    `json:"platform" binding:"required"`
	ScheduleTime time.Time `json:"schedule_time" binding:"required"`
}

// PublishContent transforms a stored record into the platform's payload
// shape and sends it through the gateway.
func PublishContent(c middleware.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rec, err := store.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Content not found"})
		return
	}

	connectorID, ok := connectorFor(c, req.Platform)
	if !ok {
		return
	}

	content := platforms.ContentFromRecord(rec)
	content.Link = req.Link
	content.MediaURLs = req.Media
	content.VideoURL = req.VideoURL
	payload := platforms.TransformContent(req.Platform, content)

	result, err := gw.PublishContent(c.Request.Context(), req.Platform, connectorID, payload)
	if err != nil {
		logger.WithError(err).WithField("platform", req.Platform).Error("Platform publish failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to publish to platform"})
		return
	}

	publishedAt := time.Now().UTC()
	update := bson.M{
		"platform":          req.Platform,
		"platform_post_id":  result.PostID,
		"platform_post_url": result.PostURL,
		"published":         true,
		"published_at":      publishedAt,
		"updated_at":        publishedAt,
	}
	if err := store.UpdateContent(c.Request.Context(), rec.ID, update); err != nil {
		logger.WithError(err).Error("Failed to record publish state")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to record publish state"})
		return
	}

	events.Emit(kafka.TopicContentEvents, kafka.EventContentPublished, map[string]interface{}{
		"content_id":       rec.ID,
		"platform":         req.Platform,
		"platform_post_id": result.PostID,
	})

	c.JSON(http.StatusOK, middleware.H{
		"content_id":        rec.ID,
		"platform":          req.Platform,
		"platform_post_id":  result.PostID,
		"platform_post_url": result.PostURL,
		"published_at":      publishedAt,
	})
}

// ScheduleContent records a future publish time for a stored record
func ScheduleContent(c middleware.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.ScheduleTime.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Schedule time must be in the future"})
		return
	}

	rec, err := store.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Content not found"})
		return
	}

	update := bson.M{
		"scheduled_at":       req.ScheduleTime.UTC(),
		"scheduled_platform": req.Platform,
		"updated_at":         time.Now().UTC(),
	}
	if err := store.UpdateContent(c.Request.Context(), rec.ID, update); err != nil {
		logger.WithError(err).Error("Failed to schedule content")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to schedule content"})
		return
	}

	events.Emit(kafka.TopicContentEvents, kafka.EventContentScheduled, map[string]interface{}{
		"content_id":    rec.ID,
		"platform":      req.Platform,
		"schedule_time": req.ScheduleTime.UTC().Format(time.RFC3339),
	})

	c.JSON(http.StatusOK, middleware.H{
		"content_id":   rec.ID,
		"platform":     req.Platform,
		"scheduled_at": req.ScheduleTime.UTC(),
	})
}

// GetContentInsights fetches engagement metrics for a published record and
// keeps a snapshot of them.
func GetContentInsights(c middleware.Context) {
	rec, err := store.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Content not found"})
		return
	}
	if rec.PlatformPostID == "" {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Content has not been published to a platform"})
		return
	}

	connectorID, ok := connectorFor(c, rec.Platform)
	if !ok {
		return
	}

	metrics, err := gw.GetContentPerformance(c.Request.Context(), rec.Platform, connectorID, rec.PlatformPostID)
	if err != nil {
		logger.WithError(err).WithField("platform", rec.Platform).Error("Failed to fetch content insights")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to fetch insights"})
		return
	}

	snapshot := models.ContentInsights{
		ID:        uuid.New().String(),
		ContentID: rec.ID,
		Platform:  rec.Platform,
		Metrics:   metrics,
		FetchedAt: time.Now().UTC(),
	}
	if err := store.InsertInsights(c.Request.Context(), snapshot); err != nil {
		logger.WithError(err).Warn("Failed to store insights snapshot")
	}

	latest := models.ContentPerformance{
		ID:             uuid.New().String(),
		ContentID:      rec.ID,
		Platform:       rec.Platform,
		PlatformPostID: rec.PlatformPostID,
		Metrics:        metrics,
		FetchedAt:      snapshot.FetchedAt,
	}
	if err := store.UpsertContentPerformance(c.Request.Context(), latest); err != nil {
		logger.WithError(err).Warn("Failed to store latest performance")
	}

	c.JSON(http.StatusOK, middleware.H{
		"content_id": rec.ID,
		"platform":   rec.Platform,
		"metrics":    metrics,
		"fetched_at": snapshot.FetchedAt,
	})
}

// DeleteContentFromPlatform removes the platform post and clears the
// record's publish state. The record itself is kept.
func DeleteContentFromPlatform(c middleware.Context) {
	rec, err := store.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Content not found"})
		return
	}
	if rec.PlatformPostID == "" {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Content has not been published to a platform"})
		return
	}

	connectorID, ok := connectorFor(c, rec.Platform)
	if !ok {
		return
	}

	if err := gw.DeleteContent(c.Request.Context(), rec.Platform, connectorID, rec.PlatformPostID); err != nil {
		logger.WithError(err).WithField("platform", rec.Platform).Error("Platform delete failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to delete from platform"})
		return
	}

	update := bson.M{
		"platform_post_id":  "",
		"platform_post_url": "",
		"published":         false,
		"updated_at":        time.Now().UTC(),
	}
	if err := store.UpdateContent(c.Request.Context(), rec.ID, update); err != nil {
		logger.WithError(err).Error("Failed to clear publish state")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to clear publish state"})
		return
	}

	events.Emit(kafka.TopicContentEvents, kafka.EventContentDeleted, map[string]interface{}{
		"content_id": rec.ID,
		"platform":   rec.Platform,
	})

	c.JSON(http.StatusOK, middleware.H{"content_id": rec.ID, "deleted": true})
}

// connectorFor loads and decrypts the platform credentials and initializes
// a gateway connector. It writes the error response itself when it fails.
func connectorFor(c middleware.Context, platform string) (string, bool) {
	stored, err := store.GetCredentials(c.Request.Context(), platform)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "No credentials configured for platform"})
		return "", false
	}

	credentials := make(map[string]interface{}, len(stored.Credentials))
	for key, value := range stored.Credentials {
		plain, err := encryptor.Decrypt(value)
		if err != nil {
			logger.WithError(err).WithField("platform", platform).Error("Credential decryption failed")
			c.JSON(http.StatusInternalServerError, middleware.H{"error": "Credential decryption failed"})
			return "", false
		}
		credentials[key] = plain
	}

	connectorID, err := gw.InitializeConnector(c.Request.Context(), platform, credentials)
	if err != nil {
		logger.WithError(err).WithField("platform", platform).Error("Connector initialization failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to initialize platform connector"})
		return "", false
	}
	return connectorID, true
}
