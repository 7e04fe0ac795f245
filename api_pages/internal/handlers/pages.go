package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/theo45530/commerceai-pro/pkg/kafka"
	"github.com/theo45530/commerceai-pro/pkg/llm"
	"github.com/theo45530/commerceai-pro/pkg/middleware"
	"github.com/theo45530/commerceai-pro/pkg/models"
	"github.com/theo45530/commerceai-pro/pkg/textparse"
	"github.com/theo45530/commerceai-pro/pkg/validation"
)

// PageGenerationRequest is the body of POST /generate/page. The product
// fields only matter when page_type is "product".
type PageGenerationRequest struct {
	BusinessName        string   `json:"business_name" binding:"required"`
	BusinessDescription string   `json:"business_description"`
	PageType            string   `json:"page_type" binding:"required"`
	TemplateID          string   `json:"template_id"`
	ColorScheme         string   `json:"color_scheme"`
	StylePreferences    string   `json:"style_preferences"`
	KeyFeatures         []string `json:"key_features"`
	TargetAudience      string   `json:"target_audience"`
	CallToAction        string   `json:"call_to_action"`
	Headline            string   `json:"headline"`
	Subheadline         string   `json:"subheadline"`
	ProductName         string   `json:"product_name" validate:"required_if=PageType product"`
	ProductDescription  string   `json:"product_description"`
	Price               float64  `json:"price"`
	Features            []string `json:"features"`
}

// GeneratePage produces a full page from the LLM and decomposes the reply
// into html, css and js segments.
func GeneratePage(c middleware.Context) {
	var req PageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
		return
	}

	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(webDeveloperSystem),
		llm.UserMessage(pagePrompt(req)),
	})
	if err != nil {
		logger.WithError(err).Error("Page generation failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Page generation failed"})
		return
	}

	page := models.GeneratedPage{
		ID:           uuid.New().String(),
		BusinessName: req.BusinessName,
		PageType:     req.PageType,
		TemplateID:   req.TemplateID,
		Content:      textparse.ExtractPageContent(reply, req.BusinessName, req.PageType),
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.InsertPage(c.Request.Context(), page); err != nil {
		logger.WithError(err).Error("Failed to store generated page")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store page"})
		return
	}

	events.Emit(kafka.TopicPageEvents, kafka.EventPageGenerated, map[string]interface{}{
		"page_id":   page.ID,
		"page_type": page.PageType,
	})

	c.JSON(http.StatusOK, middleware.H{
		"page_id":     page.ID,
		"preview_url": "/api/pages/" + page.ID + "/preview",
		"page":        page,
	})
}

// ListPages returns recent generated pages, optionally filtered by type
func ListPages(c middleware.Context) {
	pages, err := store.ListPages(c.Request.Context(), c.Query("type"), defaultListLimit)
	if err != nil {
		logger.WithError(err).Error("Failed to list pages")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to list pages"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"pages": pages, "count": len(pages)})
}

// GetPage returns a generated page record by ID
func GetPage(c middleware.Context) {
	page, err := store.GetPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Page not found"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// PreviewPage serves the rendered HTML of a generated page
func PreviewPage(c middleware.Context) {
	page, err := store.GetPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Page not found"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page.Content.HTML))
}

// DeletePage removes a generated page
func DeletePage(c middleware.Context) {
	id := c.Param("id")
	if err := store.DeletePage(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Page not found"})
		return
	}

	events.Emit(kafka.TopicPageEvents, kafka.EventPageDeleted, map[string]interface{}{
		"page_id": id,
	})

	c.JSON(http.StatusOK, middleware.H{"page_id": id, "deleted": true})
}

// ListTemplates returns the built-in page templates
func ListTemplates(c middleware.Context) {
	c.JSON(http.StatusOK, middleware.H{"templates": builtinTemplates})
}

// GetTemplate returns one built-in template by ID
func GetTemplate(c middleware.Context) {
	tpl, ok := TemplateByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}
