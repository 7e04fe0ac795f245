package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
)

// conversionValue is the assumed revenue per conversion used for ROAS when
// the platform reports no conversion value of its own.
const conversionValue = 50.0

// GetCampaignPerformance fetches platform insights for a campaign, computes
// the derived rates and persists a snapshot. Summaries are served through
// the in-process cache, so repeated reads within the TTL do not hit the
// gateway again.
func GetCampaignPerformance(c middleware.Context) {
	rec, err := store.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Campaign not found"})
		return
	}
	if rec.PlatformCampaignID == "" {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Campaign has not been created on the platform"})
		return
	}

	var perf models.AdPerformance
	if perfCache != nil {
		value, ok, err := perfCache.Get(c.Request.Context(), "perf:"+rec.ID, func(ctx context.Context, _ string) (interface{}, bool, error) {
			snapshot, err := fetchPerformance(ctx, rec)
			if err != nil {
				return nil, false, err
			}
			return snapshot, true, nil
		})
		if err != nil || !ok {
			writePerformanceError(c, rec.Platform, err)
			return
		}
		perf = value.(models.AdPerformance)
	} else {
		perf, err = fetchPerformance(c.Request.Context(), rec)
		if err != nil {
			writePerformanceError(c, rec.Platform, err)
			return
		}
	}

	c.JSON(http.StatusOK, middleware.H{
		"campaign_id": rec.ID,
		"platform":    rec.Platform,
		"performance": perf,
	})
}

// fetchPerformance pulls raw insights from the gateway, derives the rate
// metrics and stores the snapshot. A failed store is logged but does not
// fail the read.
func fetchPerformance(ctx context.Context, rec models.AdCampaign) (models.AdPerformance, error) {
	connectorID, err := resolveConnector(ctx, rec.Platform)
	if err != nil {
		return models.AdPerformance{}, err
	}

	insights, err := gw.GetCampaignInsights(ctx, rec.Platform, connectorID, rec.PlatformCampaignID)
	if err != nil {
		return models.AdPerformance{}, err
	}

	perf := summarizeInsights(rec.ID, insights)
	if err := store.InsertPerformance(ctx, perf); err != nil {
		logger.WithError(err).WithField("campaign_id", rec.ID).Warn("Failed to store performance snapshot")
	}

	events.Emit(kafka.TopicCampaignEvents, kafka.EventPerformanceRecorded, map[string]interface{}{
		"campaign_id": rec.ID,
		"spend":       perf.Spend,
		"roas":        perf.ROAS,
	})
	return perf, nil
}

// summarizeInsights computes CTR, conversion rate, CPA and ROAS from raw
// platform numbers. Every rate guards its denominator, a campaign with no
// traffic reports zeros rather than NaN.
func summarizeInsights(campaignID string, insights map[string]interface{}) models.AdPerformance {
	impressions := asInt64(insights["impressions"])
	clicks := asInt64(insights["clicks"])
	conversions := asInt64(insights["conversions"])
	spend := asFloat(insights["spend"])

	perf := models.AdPerformance{
		ID:          uuid.New().String(),
		CampaignID:  campaignID,
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
		Spend:       spend,
		FetchedAt:   time.Now().UTC(),
	}
	applyRates(&perf)
	return perf
}

func applyRates(perf *models.AdPerformance) {
	if perf.Impressions > 0 {
		perf.CTR = float64(perf.Clicks) / float64(perf.Impressions)
	}
	if perf.Clicks > 0 {
		perf.ConversionRate = float64(perf.Conversions) / float64(perf.Clicks)
	}
	if perf.Conversions > 0 {
		perf.CPA = perf.Spend / float64(perf.Conversions)
	}
	if perf.Spend > 0 {
		perf.ROAS = float64(perf.Conversions) * conversionValue / perf.Spend
	}
}

func writePerformanceError(c middleware.Context, platform string, err error) {
	switch {
	case errors.Is(err, errNoCredentials):
		c.JSON(http.StatusBadRequest, middleware.H{"error": "No credentials configured for platform"})
	case errors.Is(err, errCredentialDecrypt):
		logger.WithField("platform", platform).Error("Credential decryption failed")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Credential decryption failed"})
	default:
		logger.WithError(err).WithField("platform", platform).Error("Failed to fetch campaign performance")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Failed to fetch campaign performance"})
	}
}

// Gateway insight payloads arrive as decoded JSON, so the numbers may be
// float64, int or missing entirely.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}
