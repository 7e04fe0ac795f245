package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/platforms"
)

// SyncRequest is the body of POST /content/:id/sync
type SyncRequest struct {
	Platform string `json:"platform" binding:"required"`
}

// SyncContent pushes the stored record to the platform. A record that is
// already published updates its existing post in place; anything else goes
// out as a new post.
func SyncContent(c middleware.Context) {
	var req SyncRequest
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

	payload := platforms.TransformContent(req.Platform, platforms.ContentFromRecord(rec))
	now := time.Now().UTC()

	if rec.Published && rec.PlatformPostID != "" {
		if _, err := gw.UpdateContent(c.Request.Context(), req.Platform, connectorID, rec.PlatformPostID, payload); err != nil {
			logger.WithError(err).WithField("platform", req.Platform).Error("Platform content update failed")
			c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to update content on platform"})
			return
		}

		update := bson.M{
			"synced_with_platform": true,
			"last_synced_at":       now,
			"updated_at":           now,
		}
		if err := store.UpdateContent(c.Request.Context(), rec.ID, update); err != nil {
			logger.WithError(err).Error("Failed to record sync state")
			c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to record sync state"})
			return
		}

		events.Emit(kafka.TopicContentEvents, kafka.EventContentSynced, map[string]interface{}{
			"content_id":       rec.ID,
			"platform":         req.Platform,
			"platform_post_id": rec.PlatformPostID,
		})

		c.JSON(http.StatusOK, middleware.H{
			"content_id":       rec.ID,
			"platform":         req.Platform,
			"platform_post_id": rec.PlatformPostID,
			"synced":           true,
			"created":          false,
		})
		return
	}

	result, err := gw.PublishContent(c.Request.Context(), req.Platform, connectorID, payload)
	if err != nil {
		logger.WithError(err).WithField("platform", req.Platform).Error("Platform publish failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to publish to platform"})
		return
	}

	update := bson.M{
		"platform":             req.Platform,
		"platform_post_id":     result.PostID,
		"platform_post_url":    result.PostURL,
		"published":            true,
		"published_at":         now,
		"synced_with_platform": true,
		"last_synced_at":       now,
		"updated_at":           now,
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
		"synced":            true,
		"created":           true,
	})
}
