package handlers

import (
	"fmt"
	"strings"
)

const (
	productAnalystSystem  = "You are an expert e-commerce conversion rate optimization specialist with deep knowledge of product listing best practices."
	checkoutAnalystSystem = "You are an expert e-commerce checkout optimization specialist with deep knowledge of reducing cart abandonment."
	websiteAnalystSystem  = "You are an expert e-commerce website analyst specializing in conversion rate optimization."
)

// websiteAspects are the dimensions a website analysis is scored on,
// each on a 0-10 scale.
var websiteAspects = []string{"design", "user experience", "seo", "performance"}

func productPrompt(req ProductAnalysisRequest) string {
	p := req.Product
	return fmt.Sprintf(`Analyze this e-commerce product listing and provide detailed feedback on how to improve it for better conversions:

Product Name: %s
Description: %s
Price: $%.2f
Category: %s
Tags: %s
Number of Images: %d

Please analyze the product title, description, pricing strategy, images, and SEO elements.

Provide a conversion score from 0-100, then list key strengths, weaknesses, and specific recommendations for improvement as separate sections.`,
		p.Name, p.Description, p.Price, p.Category, strings.Join(p.Tags, ", "), len(p.Images))
}

func checkoutPrompt(req CheckoutAnalysisRequest) string {
	return fmt.Sprintf(`Analyze this e-commerce checkout process and provide detailed feedback on how to improve it for better conversions:

Checkout URL: %s
Payment Methods Available: %s
Shipping Options: %s
Guest Checkout Available: %s
Account Creation Available: %s
Social Login Available: %s
Number of Checkout Steps: %d

Please analyze the checkout flow, payment options, account creation balance, mobile friendliness, and trust signals.

Provide a conversion score from 0-100, then list key strengths, weaknesses, and specific recommendations for improvement as separate sections.`,
		req.CheckoutURL,
		strings.Join(req.PaymentMethods, ", "),
		strings.Join(req.ShippingOptions, ", "),
		yesNo(req.HasGuestCheckout),
		yesNo(req.HasAccountCreation),
		yesNo(req.HasSocialLogin),
		req.StepsCount)
}

func websiteAspectPrompt(websiteURL, aspect string) string {
	return fmt.Sprintf(`Analyze the %s of this e-commerce website: %s

Provide a score from 0-10 for this aspect, then list specific recommendations for improvement, one per line.`,
		aspect, websiteURL)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
