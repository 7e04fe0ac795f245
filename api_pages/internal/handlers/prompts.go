package handlers

import (
	"fmt"
	"strings"
)

const webDeveloperSystem = "You are an expert web developer and designer specializing in creating beautiful, responsive web pages. You write clean, semantic HTML5, modern CSS3 (including flexbox and grid), and efficient JavaScript. Your code should be responsive, accessible, and follow best practices."

func pagePrompt(req PageGenerationRequest) string {
	var b strings.Builder
	switch req.PageType {
	case "landing":
		writeLandingPrompt(&b, req)
	case "product":
		writeProductPrompt(&b, req)
	default:
		writeGenericPrompt(&b, req)
	}

	if tpl, ok := TemplateByID(req.TemplateID); ok {
		fmt.Fprintf(&b, "\nUse this HTML structure as a starting point:\n```html\n%s\n```\n", tpl.HTMLTemplate)
		if tpl.CSSTemplate != "" {
			fmt.Fprintf(&b, "\nBase styles to build on:\n```css\n%s\n```\n", tpl.CSSTemplate)
		}
	}

	b.WriteString("\nReturn the page as fenced html, css and javascript code blocks.\n")
	return b.String()
}

func writeLandingPrompt(b *strings.Builder, req PageGenerationRequest) {
	fmt.Fprintf(b, "Create a modern, responsive landing page for %s.\n\n", req.BusinessName)
	fmt.Fprintf(b, "Business Description: %s\n\n", req.BusinessDescription)
	fmt.Fprintf(b, "Main Headline: %s\n", orDefault(req.Headline, "Welcome to "+req.BusinessName))
	fmt.Fprintf(b, "Subheadline: %s\n\n", orDefault(req.Subheadline, req.BusinessDescription))
	writeCommonPromptFields(b, req)
	if len(req.KeyFeatures) > 0 {
		fmt.Fprintf(b, "\nKey Features/Benefits to highlight:\n%s\n", strings.Join(req.KeyFeatures, ", "))
	}
}

func writeProductPrompt(b *strings.Builder, req PageGenerationRequest) {
	fmt.Fprintf(b, "Create a modern, responsive product page for %s by %s.\n\n", req.ProductName, req.BusinessName)
	fmt.Fprintf(b, "Business Description: %s\n\n", req.BusinessDescription)
	fmt.Fprintf(b, "Product: %s\n", req.ProductName)
	fmt.Fprintf(b, "Product Description: %s\n", req.ProductDescription)
	if req.Price > 0 {
		fmt.Fprintf(b, "Price: $%.2f\n", req.Price)
	}
	if len(req.Features) > 0 {
		fmt.Fprintf(b, "Features: %s\n", strings.Join(req.Features, ", "))
	}
	b.WriteString("\n")
	writeCommonPromptFields(b, req)
}

func writeGenericPrompt(b *strings.Builder, req PageGenerationRequest) {
	fmt.Fprintf(b, "Create a modern, responsive %s page for %s.\n\n", req.PageType, req.BusinessName)
	fmt.Fprintf(b, "Business Description: %s\n\n", req.BusinessDescription)
	writeCommonPromptFields(b, req)
	if len(req.KeyFeatures) > 0 {
		fmt.Fprintf(b, "\nKey content to include:\n%s\n", strings.Join(req.KeyFeatures, ", "))
	}
}

func writeCommonPromptFields(b *strings.Builder, req PageGenerationRequest) {
	fmt.Fprintf(b, "Color Scheme: %s\n", orDefault(req.ColorScheme, "Use a professional, modern color scheme that fits the brand"))
	fmt.Fprintf(b, "Style Preferences: %s\n", orDefault(req.StylePreferences, "Clean, modern design with good whitespace"))
	fmt.Fprintf(b, "Target Audience: %s\n", orDefault(req.TargetAudience, "General audience"))
	fmt.Fprintf(b, "Call to Action: %s\n", orDefault(req.CallToAction, "Get Started"))
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
