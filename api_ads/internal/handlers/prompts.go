package handlers

import (
	"fmt"
	"strings"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

const (
	adOptimizerSystem = "You are an expert digital advertising optimization AI that provides specific, actionable recommendations."
	abTestSystem      = "You are an expert in creating effective A/B tests for digital advertising campaigns."
)

func optimizePrompt(rec models.AdCampaign, perf models.AdPerformance, areas []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s advertising campaign and its performance:\n\n", rec.Platform)
	fmt.Fprintf(&b, "Campaign: %s\n", rec.Campaign.Name)
	fmt.Fprintf(&b, "Objective: %s\n", rec.Campaign.Objective)
	fmt.Fprintf(&b, "Daily Budget: $%.2f\n\n", rec.Campaign.Budget)
	fmt.Fprintf(&b, "Total Impressions: %d\n", perf.Impressions)
	fmt.Fprintf(&b, "Total Clicks: %d\n", perf.Clicks)
	fmt.Fprintf(&b, "CTR: %.2f%%\n", perf.CTR*100)
	fmt.Fprintf(&b, "Conversions: %d\n", perf.Conversions)
	fmt.Fprintf(&b, "Conversion Rate: %.2f%%\n", perf.ConversionRate*100)
	fmt.Fprintf(&b, "CPA: $%.2f\n", perf.CPA)
	fmt.Fprintf(&b, "ROAS: %.2fx\n", perf.ROAS)
	fmt.Fprintf(&b, "Total Spend: $%.2f\n\n", perf.Spend)
	fmt.Fprintf(&b, "Generate specific optimization recommendations for: %s.\n\n", strings.Join(areas, ", "))
	b.WriteString("Structure your reply as a short introduction, then the campaign's strengths, then its weaknesses, then your recommendations, as separate paragraphs.\n")
	return b.String()
}

func abTestPrompt(campaign models.Campaign) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create A/B test variations for this %s ad campaign:\n\n", campaign.Platform)
	fmt.Fprintf(&b, "Campaign: %s\n", campaign.Name)
	fmt.Fprintf(&b, "Objective: %s\n", campaign.Objective)
	fmt.Fprintf(&b, "Daily Budget: $%.2f\n\n", campaign.Budget)
	b.WriteString("Generate 2 variations with different:\n")
	b.WriteString("1. Ad copy approaches\n")
	b.WriteString("2. Call-to-action phrases\n")
	b.WriteString("3. Visual creative concepts\n\n")
	b.WriteString("Provide complete specifications for each variation.\n")
	return b.String()
}
