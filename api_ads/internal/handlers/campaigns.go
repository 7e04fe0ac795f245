package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/platforms"
	"github.com/theo45530/commerceai-pro/pkg/validation"
)

var (
	errNoCredentials     = errors.New("no credentials configured for platform")
	errCredentialDecrypt = errors.New("credential decryption failed")
)

// CreateCampaign validates a canonical campaign, transforms it for the
// destination platform and creates it through the gateway. New campaigns
// always start paused.
func CreateCampaign(c middleware.Context) {
	var campaign models.Campaign
	if err := c.ShouldBindJSON(&campaign); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	payload, err := platforms.TransformCampaign(campaign.Platform, campaign)
	if err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, middleware.H{"error": fieldErr.Error(), "field": fieldErr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	connectorID, ok := connectorFor(c, campaign.Platform)
	if !ok {
		return
	}

	result, err := gw.CreateCampaign(c.Request.Context(), campaign.Platform, connectorID, payload)
	if err != nil {
		logger.WithError(err).WithField("platform", campaign.Platform).Error("Platform campaign creation failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to create campaign on platform"})
		return
	}

	now := time.Now().UTC()
	rec := models.AdCampaign{
		ID:                 uuid.New().String(),
		Campaign:           campaign,
		Platform:           campaign.Platform,
		PlatformCampaignID: result.CampaignID,
		Status:             platforms.StatusPaused,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := store.InsertCampaign(c.Request.Context(), rec); err != nil {
		logger.WithError(err).Error("Failed to store campaign")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store campaign"})
		return
	}

	events.Emit(kafka.TopicCampaignEvents, kafka.EventCampaignCreated, map[string]interface{}{
		"campaign_id":          rec.ID,
		"platform":             rec.Platform,
		"platform_campaign_id": rec.PlatformCampaignID,
	})

	c.JSON(http.StatusOK, middleware.H{
		"campaign_id":          rec.ID,
		"platform_campaign_id": rec.PlatformCampaignID,
		"status":               rec.Status,
		"campaign":             rec,
	})
}

// CampaignUpdateRequest is the body of PUT /campaigns/:id. Only the
// provided fields are changed.
type CampaignUpdateRequest struct {
	Name   string   `json:"name"`
	Budget *float64 `json:"budget"`
	Status string   `json:"status"`
}

// UpdateCampaign applies changes to a campaign on the platform and records
// them locally.
func UpdateCampaign(c middleware.Context) {
	var req CampaignUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Name == "" && req.Budget == nil && req.Status == "" {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Update must change at least one field"})
		return
	}
	if req.Budget != nil && *req.Budget < 0 {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Budget must not be negative"})
		return
	}

	rec, err := store.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Campaign not found"})
		return
	}

	connectorID, ok := connectorFor(c, rec.Platform)
	if !ok {
		return
	}

	update := map[string]interface{}{}
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != "" {
		update["name"] = req.Name
		set["campaign.name"] = req.Name
	}
	if req.Budget != nil {
		update["budget"] = *req.Budget
		set["campaign.budget"] = *req.Budget
	}
	if req.Status != "" {
		update["status"] = req.Status
		set["status"] = req.Status
	}

	if _, err := gw.UpdateCampaign(c.Request.Context(), rec.Platform, connectorID, rec.PlatformCampaignID, update); err != nil {
		logger.WithError(err).WithField("platform", rec.Platform).Error("Platform campaign update failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to update campaign on platform"})
		return
	}

	if err := store.UpdateCampaign(c.Request.Context(), rec.ID, set); err != nil {
		logger.WithError(err).Error("Failed to record campaign update")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to record campaign update"})
		return
	}

	events.Emit(kafka.TopicCampaignEvents, kafka.EventCampaignUpdated, map[string]interface{}{
		"campaign_id": rec.ID,
		"platform":    rec.Platform,
	})

	c.JSON(http.StatusOK, middleware.H{"campaign_id": rec.ID, "updated": true})
}

// SyncCampaign pushes the stored campaign to the platform. A campaign that
// already has a platform ID is updated in place; one without is created
// paused and the new platform ID is recorded.
func SyncCampaign(c middleware.Context) {
	rec, err := store.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Campaign not found"})
		return
	}

	payload, err := platforms.TransformCampaign(rec.Platform, rec.Campaign)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	connectorID, ok := connectorFor(c, rec.Platform)
	if !ok {
		return
	}

	now := time.Now().UTC()
	if rec.PlatformCampaignID != "" {
		if _, err := gw.UpdateCampaign(c.Request.Context(), rec.Platform, connectorID, rec.PlatformCampaignID, payload); err != nil {
			logger.WithError(err).WithField("platform", rec.Platform).Error("Platform campaign update failed")
			c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to update campaign on platform"})
			return
		}
		if err := store.UpdateCampaign(c.Request.Context(), rec.ID, bson.M{"updated_at": now}); err != nil {
			logger.WithError(err).Error("Failed to record campaign sync")
			c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to record campaign sync"})
			return
		}

		events.Emit(kafka.TopicCampaignEvents, kafka.EventCampaignUpdated, map[string]interface{}{
			"campaign_id": rec.ID,
			"platform":    rec.Platform,
		})

		c.JSON(http.StatusOK, middleware.H{
			"campaign_id":          rec.ID,
			"platform_campaign_id": rec.PlatformCampaignID,
			"synced":               true,
			"created":              false,
		})
		return
	}

	result, err := gw.CreateCampaign(c.Request.Context(), rec.Platform, connectorID, payload)
	if err != nil {
		logger.WithError(err).WithField("platform", rec.Platform).Error("Platform campaign creation failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to create campaign on platform"})
		return
	}

	set := bson.M{
		"platform_campaign_id": result.CampaignID,
		"status":               platforms.StatusPaused,
		"updated_at":           now,
	}
	if err := store.UpdateCampaign(c.Request.Context(), rec.ID, set); err != nil {
		logger.WithError(err).Error("Failed to record campaign sync")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to record campaign sync"})
		return
	}

	events.Emit(kafka.TopicCampaignEvents, kafka.EventCampaignCreated, map[string]interface{}{
		"campaign_id":          rec.ID,
		"platform":             rec.Platform,
		"platform_campaign_id": result.CampaignID,
	})

	c.JSON(http.StatusOK, middleware.H{
		"campaign_id":          rec.ID,
		"platform_campaign_id": result.CampaignID,
		"status":               platforms.StatusPaused,
		"synced":               true,
		"created":              true,
	})
}

// ListCampaigns returns recent campaigns, optionally filtered by platform
func ListCampaigns(c middleware.Context) {
	campaigns, err := store.ListCampaigns(c.Request.Context(), c.Query("platform"), defaultListLimit)
	if err != nil {
		logger.WithError(err).Error("Failed to list campaigns")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to list campaigns"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"campaigns": campaigns, "count": len(campaigns)})
}

// GetCampaign returns a campaign record by ID
func GetCampaign(c middleware.Context) {
	rec, err := store.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Campaign not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// resolveConnector loads and decrypts the stored platform credentials and
// exchanges them for a gateway connector ID.
func resolveConnector(ctx context.Context, platform string) (string, error) {
	stored, err := store.GetCredentials(ctx, platform)
	if err != nil {
		return "", errNoCredentials
	}

	credentials := make(map[string]interface{}, len(stored.Credentials))
	for key, value := range stored.Credentials {
		plain, err := encryptor.Decrypt(value)
		if err != nil {
			return "", errCredentialDecrypt
		}
		credentials[key] = plain
	}

	return gw.InitializeConnector(ctx, platform, credentials)
}

// connectorFor is resolveConnector with the error already written to the
// response. The bool reports whether the caller may proceed.
func connectorFor(c middleware.Context, platform string) (string, bool) {
	connectorID, err := resolveConnector(c.Request.Context(), platform)
	switch {
	case err == nil:
		return connectorID, true
	case errors.Is(err, errNoCredentials):
		c.JSON(http.StatusBadRequest, middleware.H{"error": "No credentials configured for platform"})
	case errors.Is(err, errCredentialDecrypt):
		logger.WithField("platform", platform).Error("Credential decryption failed")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Credential decryption failed"})
	default:
		logger.WithError(err).WithField("platform", platform).Error("Connector initialization failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to initialize platform connector"})
	}
	return "", false
}
