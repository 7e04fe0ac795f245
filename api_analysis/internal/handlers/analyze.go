package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/textparse"
)

const analysisCacheTTL = time.Hour

const maxAspectRecommendations = 5

// ProductInfo describes the product listing under analysis
type ProductInfo struct {
	ProductID   string   `json:"product_id"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
}

// ProductAnalysisRequest is the body of POST /analyze/product
type ProductAnalysisRequest struct {
	Product ProductInfo `json:"product" binding:"required"`
}

// CheckoutAnalysisRequest is the body of POST /analyze/checkout
type CheckoutAnalysisRequest struct {
	CheckoutURL        string   `json:"checkout_url" binding:"required"`
	PaymentMethods     []string `json:"payment_methods"`
	ShippingOptions    []string `json:"shipping_options"`
	HasGuestCheckout   bool     `json:"has_guest_checkout"`
	HasAccountCreation bool     `json:"has_account_creation"`
	HasSocialLogin     bool     `json:"has_social_login"`
	StepsCount         int      `json:"steps_count"`
}

// WebsiteAnalysisRequest is the body of POST /analyze/website
type WebsiteAnalysisRequest struct {
	WebsiteURL string `json:"website_url" binding:"required"`
}

// AnalyzeProduct runs a product listing analysis through the LLM, persists
// the decomposed result and caches it for repeat requests.
func AnalyzeProduct(c middleware.Context) {
	var req ProductAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	cacheKey := ""
	if req.Product.ProductID != "" {
		cacheKey = "analysis:product:" + req.Product.ProductID
		if cached, ok := cacheLookup(c.Request.Context(), cacheKey); ok {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(productAnalystSystem),
		llm.UserMessage(productPrompt(req)),
	})
	if err != nil {
		logger.WithError(err).Error("Product analysis completion failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Analysis generation failed"})
		return
	}

	sections := textparse.ExtractSections(reply)
	result := models.AnalysisResult{
		Score:           textparse.ExtractScore(reply, textparse.DefaultProductScore),
		Strengths:       sections.Strengths,
		Weaknesses:      sections.Weaknesses,
		Recommendations: sections.Recommendations,
	}

	analysis := models.ProductAnalysis{
		ID:          uuid.New().String(),
		ProductName: req.Product.Name,
		ProductURL:  req.Product.URL,
		Analysis:    result,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.InsertProductAnalysis(c.Request.Context(), analysis); err != nil {
		logger.WithError(err).Error("Failed to store product analysis")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store analysis"})
		return
	}

	events.Emit(kafka.TopicAnalysisEvents, kafka.EventAnalysisCompleted, map[string]interface{}{
		"analysis_type": "product",
		"analysis_id":   analysis.ID,
		"score":         result.Score,
	})

	response := middleware.H{"id": analysis.ID, "analysis": result}
	cacheStore(c.Request.Context(), cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// AnalyzeCheckout runs a checkout flow analysis through the LLM
func AnalyzeCheckout(c middleware.Context) {
	var req CheckoutAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	cacheKey := "analysis:checkout:" + req.CheckoutURL
	if cached, ok := cacheLookup(c.Request.Context(), cacheKey); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(checkoutAnalystSystem),
		llm.UserMessage(checkoutPrompt(req)),
	})
	if err != nil {
		logger.WithError(err).Error("Checkout analysis completion failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Analysis generation failed"})
		return
	}

	sections := textparse.ExtractSections(reply)
	result := models.AnalysisResult{
		Score:           textparse.ExtractScore(reply, textparse.DefaultCheckoutScore),
		Strengths:       sections.Strengths,
		Weaknesses:      sections.Weaknesses,
		Recommendations: sections.Recommendations,
		Details: map[string]interface{}{
			"payment_methods_count":  len(req.PaymentMethods),
			"shipping_options_count": len(req.ShippingOptions),
			"checkout_steps":         req.StepsCount,
		},
	}

	analysis := models.CheckoutAnalysis{
		ID:          uuid.New().String(),
		CheckoutURL: req.CheckoutURL,
		StepsCount:  req.StepsCount,
		Analysis:    result,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.InsertCheckoutAnalysis(c.Request.Context(), analysis); err != nil {
		logger.WithError(err).Error("Failed to store checkout analysis")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store analysis"})
		return
	}

	events.Emit(kafka.TopicAnalysisEvents, kafka.EventAnalysisCompleted, map[string]interface{}{
		"analysis_type": "checkout",
		"analysis_id":   analysis.ID,
		"score":         result.Score,
	})

	response := middleware.H{"id": analysis.ID, "analysis": result}
	cacheStore(c.Request.Context(), cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// AnalyzeWebsite scores the site aspect by aspect on a 0-10 scale and
// reports the average converted to the 0-100 scale.
func AnalyzeWebsite(c middleware.Context) {
	var req WebsiteAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	cacheKey := "analysis:website:" + req.WebsiteURL
	if cached, ok := cacheLookup(c.Request.Context(), cacheKey); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	aspects := make([]models.WebsiteAspectScore, 0, len(websiteAspects))
	total := 0.0
	for _, aspect := range websiteAspects {
		reply, err := provider.Complete(c.Request.Context(), []llm.Message{
			llm.SystemMessage(websiteAnalystSystem),
			llm.UserMessage(websiteAspectPrompt(req.WebsiteURL, aspect)),
		})
		if err != nil {
			logger.WithError(err).WithField("aspect", aspect).Error("Website aspect analysis failed")
			c.JSON(http.StatusBadGateway, middleware.H{"error": "Analysis generation failed"})
			return
		}

		score := math.Min(textparse.ExtractScore(reply, 7.0), 10)
		total += score
		aspects = append(aspects, models.WebsiteAspectScore{
			Aspect:          aspect,
			Score:           score,
			Recommendations: aspectRecommendations(reply),
		})
	}

	analysis := models.WebsiteAnalysis{
		ID:           uuid.New().String(),
		WebsiteURL:   req.WebsiteURL,
		OverallScore: textparse.ClampScore(total / float64(len(websiteAspects)) * 10),
		Aspects:      aspects,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.InsertWebsiteAnalysis(c.Request.Context(), analysis); err != nil {
		logger.WithError(err).Error("Failed to store website analysis")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store analysis"})
		return
	}

	events.Emit(kafka.TopicAnalysisEvents, kafka.EventAnalysisCompleted, map[string]interface{}{
		"analysis_type": "website",
		"analysis_id":   analysis.ID,
		"score":         analysis.OverallScore,
	})

	response := middleware.H{
		"id":            analysis.ID,
		"overall_score": analysis.OverallScore,
		"aspects":       analysis.Aspects,
	}
	cacheStore(c.Request.Context(), cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// ListAnalyses returns the most recent analyses of the given type
func ListAnalyses(c middleware.Context) {
	collection, ok := analysisCollections[c.Param("type")]
	if !ok {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Unknown analysis type"})
		return
	}

	results, err := store.ListAnalyses(c.Request.Context(), collection, defaultListLimit)
	if err != nil {
		logger.WithError(err).Error("Failed to list analyses")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to list analyses"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"analyses": results, "count": len(results)})
}

// GetAnalysis returns a single analysis document by ID
func GetAnalysis(c middleware.Context) {
	collection, ok := analysisCollections[c.Param("type")]
	if !ok {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Unknown analysis type"})
		return
	}

	result, err := store.GetAnalysis(c.Request.Context(), collection, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Analysis not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// aspectRecommendations keeps the non-empty lines of an aspect reply that
// are not the score line, capped to the top few.
func aspectRecommendations(reply string) []string {
	recommendations := []string{}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(strings.ToLower(line), "score") {
			continue
		}
		recommendations = append(recommendations, line)
		if len(recommendations) == maxAspectRecommendations {
			break
		}
	}
	return recommendations
}

// cacheLookup returns a previously cached response body for the key
func cacheLookup(ctx context.Context, key string) ([]byte, bool) {
	if rdb == nil || key == "" {
		return nil, false
	}
	cached, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return cached, true
}

// cacheStore caches a response body under the key with the standard TTL
func cacheStore(ctx context.Context, key string, response middleware.H) {
	if rdb == nil || key == "" {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, payload, analysisCacheTTL).Err(); err != nil {
		logger.WithError(err).WithField("key", key).Warn("Failed to cache analysis")
	}
}
