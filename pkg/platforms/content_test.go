package platforms

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in            string
		wantCanonical string
		wantSpecific  string
	}{
		{"Facebook", Meta, "facebook"},
		{"INSTAGRAM", Meta, "instagram"},
		{"meta", Meta, "meta"},
		{"Twitter", Twitter, "twitter"},
		{"X", Twitter, "x"},
		{"LinkedIn", LinkedIn, "linkedin"},
		{"shopify", Shopify, "shopify"},
		{"pinterest", "pinterest", "pinterest"},
	}
	for _, tt := range tests {
		canonical, specific := Normalize(tt.in)
		if canonical != tt.wantCanonical || specific != tt.wantSpecific {
			t.Errorf("Normalize(%q) = (%q, %q), want (%q, %q)",
				tt.in, canonical, specific, tt.wantCanonical, tt.wantSpecific)
		}
	}
}

func TestTransformContent_Meta(t *testing.T) {
	payload := TransformContent("Facebook", Content{
		Body:      "New boots are here",
		Hashtags:  []string{"#boots", "#winter"},
		Link:      "https://shop.example/boots",
		MediaURLs: []string{"https://cdn.example/1.jpg"},
	})

	post, ok := payload.(MetaPost)
	if !ok {
		t.Fatalf("expected MetaPost, got %T", payload)
	}
	if post.Platform != "facebook" {
		t.Errorf("platform = %q", post.Platform)
	}
	if post.Message != "New boots are here\n\n#boots #winter" {
		t.Errorf("message = %q", post.Message)
	}
	if post.Link == "" || len(post.Media) != 1 {
		t.Errorf("link/media not carried: %+v", post)
	}
}

func TestTransformContent_TwitterBudget(t *testing.T) {
	content := strings.Repeat("a", 300)
	hashtags := []string{"#winterboots2025", "#sal"} // joined length 21

	payload := TransformContent("twitter", Content{
		Body:     content,
		Hashtags: hashtags,
	})
	post, ok := payload.(TwitterPost)
	if !ok {
		t.Fatalf("expected TwitterPost, got %T", payload)
	}
	if len(post.Text) > TwitterCharLimit {
		t.Fatalf("text length %d exceeds %d", len(post.Text), TwitterCharLimit)
	}
	if !strings.Contains(post.Text, "...") {
		t.Error("expected ellipsis after truncation")
	}
	if !strings.HasSuffix(post.Text, "#winterboots2025 #sal") {
		t.Errorf("expected hashtag line at end, got %q", post.Text)
	}
}

func TestTransformContent_TwitterMultibyteTruncation(t *testing.T) {
	payload := TransformContent("twitter", Content{
		Body: strings.Repeat("é", 200), // 400 bytes
	})
	post, ok := payload.(TwitterPost)
	if !ok {
		t.Fatalf("expected TwitterPost, got %T", payload)
	}
	if !utf8.ValidString(post.Text) {
		t.Fatalf("truncated text is not valid UTF-8: %q", post.Text)
	}
	if len(post.Text) > TwitterCharLimit {
		t.Fatalf("text length %d exceeds %d", len(post.Text), TwitterCharLimit)
	}
	if !strings.HasSuffix(post.Text, "...") {
		t.Error("expected ellipsis after truncation")
	}
}

func TestTransformContent_TwitterShortUntouched(t *testing.T) {
	payload := TransformContent("x", Content{Body: "short tweet"})
	post := payload.(TwitterPost)
	if post.Text != "short tweet" {
		t.Fatalf("text = %q", post.Text)
	}
}

func TestTransformContent_LinkedIn(t *testing.T) {
	payload := TransformContent("linkedin", Content{
		Body:            "Industry insights",
		Title:           "Boots Market 2026",
		MetaDescription: "Where the boot market is heading",
		Link:            "https://blog.example/boots",
		Hashtags:        []string{"#retail"},
	})
	post, ok := payload.(LinkedInPost)
	if !ok {
		t.Fatalf("expected LinkedInPost, got %T", payload)
	}
	if post.Visibility != "PUBLIC" {
		t.Errorf("visibility = %q", post.Visibility)
	}
	if post.ArticleLink == nil || post.ArticleLink.URL != "https://blog.example/boots" {
		t.Errorf("article link = %+v", post.ArticleLink)
	}
	if !strings.HasSuffix(post.Text, "\n\n#retail") {
		t.Errorf("text = %q", post.Text)
	}
}

func TestTransformContent_TikTok(t *testing.T) {
	payload := TransformContent("tiktok", Content{
		Body:     "Watch this",
		Hashtags: []string{"#fyp"},
		VideoURL: "https://cdn.example/v.mp4",
	})
	post, ok := payload.(TikTokPost)
	if !ok {
		t.Fatalf("expected TikTokPost, got %T", payload)
	}
	if post.Caption != "Watch this\n#fyp" {
		t.Errorf("caption = %q", post.Caption)
	}
	if post.VideoURL == "" {
		t.Error("expected video url carried through")
	}
}

func TestTransformContent_Shopify(t *testing.T) {
	product := TransformContent("shopify", Content{
		ContentType:  "product_description",
		Title:        "Winter Boots",
		Body:         "<p>Warm and dry</p>",
		BusinessName: "Acme",
		Topic:        "footwear",
		Keywords:     []string{"boots"},
	})
	if p, ok := product.(ShopifyProductPayload); !ok {
		t.Fatalf("expected product payload, got %T", product)
	} else if p.Product.Vendor != "Acme" || p.Product.ProductType != "footwear" {
		t.Errorf("product = %+v", p.Product)
	}

	article := TransformContent("shopify", Content{
		ContentType:     "blog_post",
		Title:           "Boot Care",
		Body:            "<p>How to care for boots</p>",
		BusinessName:    "Acme",
		MetaDescription: "Boot care basics",
	})
	if a, ok := article.(ShopifyArticlePayload); !ok {
		t.Fatalf("expected article payload, got %T", article)
	} else if a.Article.Author != "Acme" || a.Article.SummaryHTML != "Boot care basics" {
		t.Errorf("article = %+v", a.Article)
	}

	// Unknown content type falls back to the passthrough shape
	other := TransformContent("shopify", Content{ContentType: "social_media_facebook", Body: "x"})
	if _, ok := other.(DefaultContentPayload); !ok {
		t.Fatalf("expected default payload, got %T", other)
	}
}

func TestTransformContent_UnknownPlatform(t *testing.T) {
	in := Content{Body: "hello", Title: "Hi"}
	payload := TransformContent("pinterest", in)
	def, ok := payload.(DefaultContentPayload)
	if !ok {
		t.Fatalf("expected DefaultContentPayload, got %T", payload)
	}
	if def.Text != "hello" || def.Title != "Hi" {
		t.Errorf("payload = %+v", def)
	}
	if def.OriginalData.Body != "hello" {
		t.Error("expected original data embedded")
	}
}

func TestGuidelines(t *testing.T) {
	if !strings.Contains(PlatformGuidelines("Twitter"), "280") {
		t.Error("expected twitter guidelines")
	}
	if PlatformGuidelines("unknown") != "Follow general best practices for this platform." {
		t.Error("expected generic platform default")
	}
	if !strings.Contains(EmailTypeGuidelines("WELCOME"), "Warm, friendly tone") {
		t.Error("expected welcome guidelines")
	}
	if EmailTypeGuidelines("digest") != "Follow general best practices for this type of email." {
		t.Error("expected generic email default")
	}
}
