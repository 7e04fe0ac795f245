package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/platforms"
	"github.com/theo45530/commerceai-pro/pkg/validation"
)

var abTestGroups = []string{"A", "B"}

// ABTestRequest is the body of POST /campaigns/ab-test
type ABTestRequest struct {
	Campaign models.Campaign `json:"campaign" binding:"required"`
}

// CreateABTest creates two paused variant campaigns from a base canonical
// campaign, one per test group. Variation notes from the model are advisory
// and their absence never blocks the test.
func CreateABTest(c middleware.Context) {
	var req ABTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := validation.ValidateCampaign(req.Campaign); err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, middleware.H{"error": fieldErr.Error(), "field": fieldErr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	connectorID, ok := connectorFor(c, req.Campaign.Platform)
	if !ok {
		return
	}

	notes, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(abTestSystem),
		llm.UserMessage(abTestPrompt(req.Campaign)),
	})
	if err != nil {
		logger.WithError(err).Warn("Variation notes unavailable, continuing without them")
		notes = ""
	}

	variants := make([]models.AdCampaign, 0, len(abTestGroups))
	for _, group := range abTestGroups {
		variant := req.Campaign
		variant.Name = req.Campaign.Name + " - Variation " + group

		payload, err := platforms.TransformCampaign(variant.Platform, variant)
		if err != nil {
			c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
			return
		}
		result, err := gw.CreateCampaign(c.Request.Context(), variant.Platform, connectorID, payload)
		if err != nil {
			logger.WithError(err).WithField("platform", variant.Platform).Error("Variant creation failed")
			c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to create variant " + group + " on platform"})
			return
		}

		now := time.Now().UTC()
		rec := models.AdCampaign{
			ID:                 uuid.New().String(),
			Campaign:           variant,
			Platform:           variant.Platform,
			PlatformCampaignID: result.CampaignID,
			Status:             platforms.StatusPaused,
			ABTestGroup:        group,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := store.InsertCampaign(c.Request.Context(), rec); err != nil {
			logger.WithError(err).Error("Failed to store variant campaign")
			c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store variant campaign"})
			return
		}

		events.Emit(kafka.TopicCampaignEvents, kafka.EventCampaignCreated, map[string]interface{}{
			"campaign_id":          rec.ID,
			"platform":             rec.Platform,
			"platform_campaign_id": rec.PlatformCampaignID,
			"ab_test_group":        group,
		})
		variants = append(variants, rec)
	}

	c.JSON(http.StatusOK, middleware.H{
		"variants": variants,
		"notes":    notes,
	})
}
