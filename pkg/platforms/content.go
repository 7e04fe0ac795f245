package platforms

import (
	"strings"
	"unicode/utf8"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

// TwitterCharLimit is the hard character budget for a tweet
const TwitterCharLimit = 280

// Content is the canonical content input to a transform. It mirrors a
// stored content record plus the publish-time extras a caller supplies
// (link, media, video reference).
type Content struct {
	ContentType     string   `json:"content_type,omitempty"`
	Title           string   `json:"title,omitempty"`
	Body            string   `json:"content"`
	MetaDescription string   `json:"meta_description,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty"`
	Link            string   `json:"link,omitempty"`
	MediaURLs       []string `json:"media_urls,omitempty"`
	VideoURL        string   `json:"video_url,omitempty"`
	BusinessName    string   `json:"business_name,omitempty"`
	Topic           string   `json:"topic,omitempty"`
}

// ContentFromRecord builds a transform input from a stored record
func ContentFromRecord(rec models.ContentRecord) Content {
	return Content{
		ContentType:     rec.ContentType,
		Title:           rec.Title,
		Body:            rec.Content,
		MetaDescription: rec.MetaDescription,
		Keywords:        rec.Keywords,
		Hashtags:        rec.Hashtags,
		BusinessName:    rec.BusinessName,
		Topic:           rec.Topic,
	}
}

// MetaPost is the Meta (Facebook/Instagram) post payload
type MetaPost struct {
	Message  string   `json:"message"`
	Platform string   `json:"platform"`
	Link     string   `json:"link,omitempty"`
	Media    []string `json:"media,omitempty"`
}

// TwitterPost is the Twitter/X post payload
type TwitterPost struct {
	Text  string   `json:"text"`
	Media []string `json:"media,omitempty"`
}

// ArticleLink is the structured link attachment on a LinkedIn post
type ArticleLink struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LinkedInPost is the LinkedIn post payload
type LinkedInPost struct {
	Text        string       `json:"text"`
	Visibility  string       `json:"visibility"`
	ArticleLink *ArticleLink `json:"article_link,omitempty"`
	Media       []string     `json:"media,omitempty"`
}

// TikTokPost is the TikTok post payload. A video reference is required by
// the platform; the transform passes through whatever the caller supplied.
type TikTokPost struct {
	Caption  string `json:"caption"`
	VideoURL string `json:"video_url,omitempty"`
}

// ShopifyProduct is the product resource inside a Shopify payload
type ShopifyProduct struct {
	Title       string   `json:"title"`
	BodyHTML    string   `json:"body_html"`
	Vendor      string   `json:"vendor"`
	ProductType string   `json:"product_type"`
	Tags        []string `json:"tags"`
}

// ShopifyProductPayload wraps a product for the Shopify API
type ShopifyProductPayload struct {
	Product ShopifyProduct `json:"product"`
}

// ShopifyArticle is the blog article resource inside a Shopify payload
type ShopifyArticle struct {
	Title       string   `json:"title"`
	BodyHTML    string   `json:"body_html"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	SummaryHTML string   `json:"summary_html"`
}

// ShopifyArticlePayload wraps an article for the Shopify API
type ShopifyArticlePayload struct {
	Article ShopifyArticle `json:"article"`
}

// DefaultContentPayload is the minimal passthrough payload for platforms
// without an explicit transform
type DefaultContentPayload struct {
	Text         string  `json:"text"`
	Title        string  `json:"title"`
	OriginalData Content `json:"original_data"`
}

// TransformContent maps canonical content to the destination platform's
// payload shape. Unknown platforms get the default passthrough payload;
// this never fails.
func TransformContent(platform string, content Content) interface{} {
	canonical, specific := Normalize(platform)
	switch canonical {
	case Meta:
		return metaPost(specific, content)
	case Twitter:
		return twitterPost(content)
	case LinkedIn:
		return linkedInPost(content)
	case TikTok:
		return tikTokPost(content)
	case Shopify:
		return shopifyPayload(content)
	default:
		return DefaultContentPayload{
			Text:         content.Body,
			Title:        content.Title,
			OriginalData: content,
		}
	}
}

func metaPost(specific string, content Content) MetaPost {
	post := MetaPost{
		Message:  content.Body,
		Platform: specific,
	}
	if len(content.Hashtags) > 0 {
		post.Message += "\n\n" + joinHashtags(content.Hashtags)
	}
	post.Link = content.Link
	post.Media = content.MediaURLs
	return post
}

func twitterPost(content Content) TwitterPost {
	hashtags := joinHashtags(content.Hashtags)
	body := content.Body

	// Truncate so the final text plus the hashtag line stays within the
	// platform budget. The cut must land on a rune boundary.
	if len(body)+len(hashtags)+2 > TwitterCharLimit {
		maxLen := TwitterCharLimit - len(hashtags) - 5
		if maxLen < 0 {
			maxLen = 0
		}
		for maxLen > 0 && !utf8.RuneStart(body[maxLen]) {
			maxLen--
		}
		body = body[:maxLen] + "..."
	}

	text := body
	if hashtags != "" {
		text += "\n" + hashtags
	}

	return TwitterPost{
		Text:  text,
		Media: content.MediaURLs,
	}
}

func linkedInPost(content Content) LinkedInPost {
	post := LinkedInPost{
		Text:       content.Body,
		Visibility: "PUBLIC",
	}
	if len(content.Hashtags) > 0 {
		post.Text += "\n\n" + joinHashtags(content.Hashtags)
	}
	if content.Link != "" {
		post.ArticleLink = &ArticleLink{
			URL:         content.Link,
			Title:       content.Title,
			Description: content.MetaDescription,
		}
	}
	post.Media = content.MediaURLs
	return post
}

func tikTokPost(content Content) TikTokPost {
	post := TikTokPost{
		Caption: content.Body,
	}
	if len(content.Hashtags) > 0 {
		post.Caption += "\n" + joinHashtags(content.Hashtags)
	}
	post.VideoURL = content.VideoURL
	return post
}

func shopifyPayload(content Content) interface{} {
	switch content.ContentType {
	case models.ContentTypeProductDescription:
		return ShopifyProductPayload{
			Product: ShopifyProduct{
				Title:       content.Title,
				BodyHTML:    content.Body,
				Vendor:      content.BusinessName,
				ProductType: content.Topic,
				Tags:        content.Keywords,
			},
		}
	case models.ContentTypeBlogPost:
		return ShopifyArticlePayload{
			Article: ShopifyArticle{
				Title:       content.Title,
				BodyHTML:    content.Body,
				Author:      content.BusinessName,
				Tags:        content.Keywords,
				SummaryHTML: content.MetaDescription,
			},
		}
	default:
		return DefaultContentPayload{
			Text:         content.Body,
			Title:        content.Title,
			OriginalData: content,
		}
	}
}

func joinHashtags(hashtags []string) string {
	return strings.Join(hashtags, " ")
}
