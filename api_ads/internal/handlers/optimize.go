package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/textparse"
)

// OptimizationRequest is the body of POST /campaigns/:id/optimize. A nil
// budget_adjustment leaves the budget alone; the bool flags select which
// recommendation areas the model is asked for.
type OptimizationRequest struct {
	BudgetAdjustment    *float64 `json:"budget_adjustment"`
	CreativeSuggestions bool     `json:"creative_suggestions"`
	AudienceExpansion   bool     `json:"audience_expansion"`
}

// OptimizeCampaign runs a recommendation pass over the campaign's stored
// performance history and optionally applies a budget adjustment.
func OptimizeCampaign(c middleware.Context) {
	var req OptimizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rec, err := store.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Campaign not found"})
		return
	}

	budget := rec.Campaign.Budget
	if req.BudgetAdjustment != nil && budget+*req.BudgetAdjustment < 0 {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Budget adjustment would make the budget negative"})
		return
	}

	history, err := store.ListPerformance(c.Request.Context(), rec.ID, defaultListLimit)
	if err != nil {
		logger.WithError(err).Error("Failed to load performance history")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to load performance history"})
		return
	}
	totals := aggregatePerformance(rec.ID, history)

	areas := optimizationAreas(req)
	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(adOptimizerSystem),
		llm.UserMessage(optimizePrompt(rec, totals, areas)),
	})
	if err != nil {
		logger.WithError(err).Error("Optimization pass failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Optimization failed"})
		return
	}
	sections := textparse.ExtractSections(reply)

	if req.BudgetAdjustment != nil {
		budget += *req.BudgetAdjustment
		set := bson.M{"campaign.budget": budget, "updated_at": time.Now().UTC()}
		if err := store.UpdateCampaign(c.Request.Context(), rec.ID, set); err != nil {
			logger.WithError(err).Error("Failed to apply budget adjustment")
			c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to apply budget adjustment"})
			return
		}
		events.Emit(kafka.TopicCampaignEvents, kafka.EventCampaignUpdated, map[string]interface{}{
			"campaign_id": rec.ID,
			"budget":      budget,
		})
	}

	c.JSON(http.StatusOK, middleware.H{
		"campaign_id":        rec.ID,
		"optimization_areas": areas,
		"performance":        totals,
		"strengths":          sections.Strengths,
		"weaknesses":         sections.Weaknesses,
		"recommendations":    sections.Recommendations,
		"budget":             budget,
	})
}

func optimizationAreas(req OptimizationRequest) []string {
	areas := []string{}
	if req.BudgetAdjustment != nil {
		areas = append(areas, "budget adjustment")
	}
	if req.CreativeSuggestions {
		areas = append(areas, "creative improvements")
	}
	if req.AudienceExpansion {
		areas = append(areas, "audience targeting expansion")
	}
	if len(areas) == 0 {
		areas = append(areas, "overall performance")
	}
	return areas
}

// aggregatePerformance sums the stored snapshots and recomputes the rates
// over the totals.
func aggregatePerformance(campaignID string, history []models.AdPerformance) models.AdPerformance {
	totals := models.AdPerformance{CampaignID: campaignID, FetchedAt: time.Now().UTC()}
	for _, snapshot := range history {
		totals.Impressions += snapshot.Impressions
		totals.Clicks += snapshot.Clicks
		totals.Conversions += snapshot.Conversions
		totals.Spend += snapshot.Spend
	}
	applyRates(&totals)
	return totals
}
