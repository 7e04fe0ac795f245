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
)

// ContentRequest carries the fields shared by every generation request
type ContentRequest struct {
	BusinessName           string   `json:"business_name" binding:"required"`
	BusinessDescription    string   `json:"business_description"`
	Topic                  string   `json:"topic" binding:"required"`
	TargetAudience         string   `json:"target_audience"`
	Tone                   string   `json:"tone"`
	Keywords               []string `json:"keywords"`
	Length                 string   `json:"length"`
	AdditionalInstructions string   `json:"additional_instructions"`
}

// BlogRequest is the body of POST /generate/blog
type BlogRequest struct {
	ContentRequest
	Title                  string   `json:"title"`
	Sections               []string `json:"sections"`
	IncludeMetaDescription *bool    `json:"include_meta_description"`
}

// ProductDescriptionRequest is the body of POST /generate/product-description
type ProductDescriptionRequest struct {
	ContentRequest
	ProductName     string   `json:"product_name" binding:"required"`
	ProductFeatures []string `json:"product_features"`
	Price           float64  `json:"price"`
	Benefits        []string `json:"benefits"`
}

// SocialRequest is the body of POST /generate/social
type SocialRequest struct {
	ContentRequest
	Platform            string `json:"platform" binding:"required"`
	PostType            string `json:"post_type"`
	IncludeHashtags     *bool  `json:"include_hashtags"`
	IncludeEmoji        *bool  `json:"include_emoji"`
	IncludeCallToAction *bool  `json:"include_call_to_action"`
}

// EmailRequest is the body of POST /generate/email
type EmailRequest struct {
	ContentRequest
	EmailType       string `json:"email_type" binding:"required"`
	SubjectLine     string `json:"subject_line"`
	IncludeButton   *bool  `json:"include_button"`
	ButtonText      string `json:"button_text"`
	Personalization *bool  `json:"personalization"`
}

// GenerateBlog produces a blog post and decomposes the completion into
// title, meta description, keywords and body.
func GenerateBlog(c middleware.Context) {
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(blogWriterSystem),
		llm.UserMessage(blogPrompt(req)),
	})
	if err != nil {
		logger.WithError(err).Error("Blog generation failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Content generation failed"})
		return
	}

	body := reply
	title := req.Title
	if title == "" {
		var found bool
		title, body, found = textparse.ExtractLabeledLine(body, "title")
		if !found || title == "" {
			title = textparse.FallbackTitle(body)
		}
		if title == "" {
			title = "Blog Post About " + req.Topic
		}
	}

	metaDescription := ""
	if boolDefault(req.IncludeMetaDescription, true) {
		metaDescription, body, _ = textparse.ExtractLabeledSpan(body, "meta description")
	}

	keywords := req.Keywords
	if len(keywords) == 0 {
		var value string
		value, body, _ = textparse.ExtractLabeledSpan(body, "keywords")
		keywords = textparse.SplitKeywords(value)
	}

	body = textparse.CleanLabelLines(body, "title", "meta description", "keywords")

	rec := models.ContentRecord{
		ID:              uuid.New().String(),
		ContentType:     models.ContentTypeBlogPost,
		Title:           title,
		Content:         body,
		MetaDescription: metaDescription,
		Keywords:        keywords,
		Topic:           req.Topic,
		BusinessName:    req.BusinessName,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	saveAndRespond(c, rec)
}

// GenerateProductDescription produces a product description. The product
// name is always the title, so no title scan happens here.
func GenerateProductDescription(c middleware.Context) {
	var req ProductDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(copywriterSystem),
		llm.UserMessage(productDescriptionPrompt(req)),
	})
	if err != nil {
		logger.WithError(err).Error("Product description generation failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Content generation failed"})
		return
	}

	body := reply
	keywords := req.Keywords
	if len(keywords) == 0 {
		var value string
		value, body, _ = textparse.ExtractLabeledSpan(body, "keywords")
		keywords = textparse.SplitKeywords(value)
	}
	body = textparse.CleanLabelLines(body, "product name", "keywords")

	rec := models.ContentRecord{
		ID:           uuid.New().String(),
		ContentType:  models.ContentTypeProductDescription,
		Title:        req.ProductName,
		Content:      body,
		Keywords:     keywords,
		Topic:        req.Topic,
		BusinessName: req.BusinessName,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	saveAndRespond(c, rec)
}

// GenerateSocial produces a social media post with platform-specific
// guidelines fed into the prompt.
func GenerateSocial(c middleware.Context) {
	var req SocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(socialManagerSystem),
		llm.UserMessage(socialPrompt(req)),
	})
	if err != nil {
		logger.WithError(err).Error("Social post generation failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Content generation failed"})
		return
	}

	hashtags := []string{}
	if boolDefault(req.IncludeHashtags, true) {
		hashtags = textparse.ExtractHashtags(reply)
	}

	rec := models.ContentRecord{
		ID:           uuid.New().String(),
		ContentType:  models.ContentTypeSocialPrefix + req.Platform,
		Title:        socialTitle(req.Platform, req.Topic),
		Content:      reply,
		Hashtags:     hashtags,
		Topic:        req.Topic,
		BusinessName: req.BusinessName,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	saveAndRespond(c, rec)
}

// GenerateEmail produces an email and extracts the subject line with a
// paragraph-bounded scan when the caller did not supply one.
func GenerateEmail(c middleware.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.H{"error": "Invalid request: " + err.Error()})
		return
	}

	reply, err := provider.Complete(c.Request.Context(), []llm.Message{
		llm.SystemMessage(emailMarketerSystem),
		llm.UserMessage(emailPrompt(req)),
	})
	if err != nil {
		logger.WithError(err).Error("Email generation failed")
		c.JSON(http.StatusBadGateway, middleware.H{"error": "Content generation failed"})
		return
	}

	body := reply
	subject := req.SubjectLine
	if subject == "" {
		subject, body, _ = textparse.ExtractLabeledSpan(body, "subject")
	}
	if subject == "" {
		subject = emailTitle(req.EmailType, req.Topic)
	}
	body = textparse.CleanLabelLines(body, "subject")

	rec := models.ContentRecord{
		ID:           uuid.New().String(),
		ContentType:  models.ContentTypeEmailPrefix + req.EmailType,
		Title:        subject,
		Subject:      subject,
		Content:      body,
		Topic:        req.Topic,
		BusinessName: req.BusinessName,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	saveAndRespond(c, rec)
}

// ListContent returns recent content, optionally filtered by content type
func ListContent(c middleware.Context) {
	records, err := store.ListContent(c.Request.Context(), c.Query("type"), defaultListLimit)
	if err != nil {
		logger.WithError(err).Error("Failed to list content")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to list content"})
		return
	}
	c.JSON(http.StatusOK, middleware.H{"content": records, "count": len(records)})
}

// GetContent returns a single content record by ID
func GetContent(c middleware.Context) {
	rec, err := store.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.H{"error": "Content not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// saveAndRespond persists a freshly generated record, emits the generation
// event and writes the standard creation response.
func saveAndRespond(c middleware.Context, rec models.ContentRecord) {
	if err := store.InsertContent(c.Request.Context(), rec); err != nil {
		logger.WithError(err).Error("Failed to store generated content")
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Failed to store content"})
		return
	}

	events.Emit(kafka.TopicContentEvents, kafka.EventContentGenerated, map[string]interface{}{
		"content_id":   rec.ID,
		"content_type": rec.ContentType,
	})

	c.JSON(http.StatusOK, middleware.H{"content_id": rec.ID, "content": rec})
}
