package handlers

import (
	"fmt"
	"strings"

	"github.com/theo45530/commerceai-pro/pkg/platforms"
)

const (
	blogWriterSystem    = "You are an expert content writer specializing in creating high-quality, engaging blog posts. You write in a clear, concise style that resonates with the target audience while incorporating SEO best practices."
	copywriterSystem    = "You are an expert copywriter specializing in creating compelling product descriptions that convert browsers into buyers. You highlight benefits, create desire, and use persuasive language that resonates with the target audience."
	socialManagerSystem = "You are an expert social media manager who creates engaging, platform-optimized content that drives engagement and conversions. You understand the nuances of different social platforms and create content that performs well on each."
	emailMarketerSystem = "You are an expert email marketer who creates high-converting email content that engages readers and drives action. You understand email marketing best practices and create content that avoids spam triggers while maximizing open and click-through rates."
)

func blogPrompt(req BlogRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a high-quality blog post for %s.\n\n", req.BusinessName)
	fmt.Fprintf(&b, "Business Description: %s\n\n", req.BusinessDescription)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	if req.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", req.Title)
	} else {
		b.WriteString("Please generate an engaging title.\n")
	}
	fmt.Fprintf(&b, "\nTarget Audience: %s\n", orDefault(req.TargetAudience, "General audience interested in this topic"))
	fmt.Fprintf(&b, "Tone: %s\n", orDefault(req.Tone, "Professional and informative"))
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "\nKeywords to include: %s\n", strings.Join(req.Keywords, ", "))
	}
	fmt.Fprintf(&b, "\nLength: %s\n", orDefault(req.Length, "Around 800-1200 words"))
	if len(req.Sections) > 0 {
		fmt.Fprintf(&b, "\nSuggested sections: %s\n", strings.Join(req.Sections, ", "))
	} else {
		b.WriteString("\nStructure the post with appropriate headings and subheadings.\n")
	}
	fmt.Fprintf(&b, "\nAdditional Instructions: %s\n", orDefault(req.AdditionalInstructions, "Make the content engaging, informative, and valuable to readers."))
	if boolDefault(req.IncludeMetaDescription, true) {
		b.WriteString("\nPlease include a meta description of about 150-160 characters.\n")
	}
	return b.String()
}

func productDescriptionPrompt(req ProductDescriptionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a compelling product description for %s by %s.\n\n", req.ProductName, req.BusinessName)
	fmt.Fprintf(&b, "Business Description: %s\n\n", req.BusinessDescription)
	fmt.Fprintf(&b, "Product Features:\n%s\n", strings.Join(req.ProductFeatures, ", "))
	if req.Price > 0 {
		fmt.Fprintf(&b, "\nPrice: $%.2f\n", req.Price)
	}
	if len(req.Benefits) > 0 {
		b.WriteString("\nKey Benefits:\n")
		for _, benefit := range req.Benefits {
			fmt.Fprintf(&b, "- %s\n", benefit)
		}
	}
	fmt.Fprintf(&b, "\nTarget Audience: %s\n", orDefault(req.TargetAudience, "Potential customers interested in this product"))
	fmt.Fprintf(&b, "Tone: %s\n", orDefault(req.Tone, "Persuasive and informative"))
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "\nKeywords to include: %s\n", strings.Join(req.Keywords, ", "))
	}
	fmt.Fprintf(&b, "\nLength: %s\n", orDefault(req.Length, "Around 300-500 words"))
	fmt.Fprintf(&b, "\nAdditional Instructions: %s\n", orDefault(req.AdditionalInstructions, "Focus on benefits, not just features. Use persuasive language that encourages purchase."))
	return b.String()
}

func socialPrompt(req SocialRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s post for %s about %s.\n\n", req.Platform, req.BusinessName, req.Topic)
	fmt.Fprintf(&b, "Business Description: %s\n\n", req.BusinessDescription)
	fmt.Fprintf(&b, "Post Type: %s\n\n", orDefault(req.PostType, "Standard post"))
	fmt.Fprintf(&b, "Target Audience: %s\n", orDefault(req.TargetAudience, "Followers and potential customers"))
	fmt.Fprintf(&b, "Tone: %s\n\n", orDefault(req.Tone, "Conversational and engaging"))
	if boolDefault(req.IncludeHashtags, true) {
		b.WriteString("Include relevant hashtags.\n")
	} else {
		b.WriteString("Do not include hashtags.\n")
	}
	if boolDefault(req.IncludeEmoji, true) {
		b.WriteString("Use appropriate emojis to enhance engagement.\n")
	} else {
		b.WriteString("Do not use emojis.\n")
	}
	if boolDefault(req.IncludeCallToAction, true) {
		b.WriteString("Include a clear call-to-action.\n")
	} else {
		b.WriteString("No call-to-action needed.\n")
	}
	fmt.Fprintf(&b, "\nPlatform-specific guidelines:\n%s\n", platforms.PlatformGuidelines(req.Platform))
	fmt.Fprintf(&b, "\nAdditional Instructions: %s\n", orDefault(req.AdditionalInstructions, "Make the post engaging and shareable."))
	return b.String()
}

func emailPrompt(req EmailRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s email for %s about %s.\n\n", req.EmailType, req.BusinessName, req.Topic)
	fmt.Fprintf(&b, "Business Description: %s\n\n", req.BusinessDescription)
	if req.SubjectLine != "" {
		fmt.Fprintf(&b, "Subject Line: %s\n\n", req.SubjectLine)
	} else {
		b.WriteString("Please generate an attention-grabbing subject line.\n\n")
	}
	fmt.Fprintf(&b, "Target Audience: %s\n", orDefault(req.TargetAudience, "Email subscribers and customers"))
	fmt.Fprintf(&b, "Tone: %s\n\n", orDefault(req.Tone, "Professional and friendly"))
	switch {
	case boolDefault(req.IncludeButton, true) && req.ButtonText != "":
		fmt.Fprintf(&b, "Include a clear call-to-action button with text: %s\n", req.ButtonText)
	case boolDefault(req.IncludeButton, true):
		b.WriteString("Include a clear call-to-action button with appropriate text.\n")
	default:
		b.WriteString("No call-to-action button needed.\n")
	}
	if boolDefault(req.Personalization, true) {
		b.WriteString("Include personalization elements like [First Name].\n")
	}
	fmt.Fprintf(&b, "\nEmail Type Guidelines:\n%s\n", platforms.EmailTypeGuidelines(req.EmailType))
	fmt.Fprintf(&b, "\nLength: %s\n", orDefault(req.Length, "Appropriate length for this type of email"))
	fmt.Fprintf(&b, "\nAdditional Instructions: %s\n", orDefault(req.AdditionalInstructions, "Make the email engaging and compelling."))
	return b.String()
}

func socialTitle(platform, topic string) string {
	return capitalize(platform) + " Post: " + topic
}

func emailTitle(emailType, topic string) string {
	return capitalize(emailType) + " Email: " + topic
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// boolDefault resolves an optional request flag against its default
func boolDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
