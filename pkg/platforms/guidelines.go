package platforms

import "strings"

// Immutable per-platform style notes fed into social prompts
var platformGuidelines = map[string]string{
	"facebook":  "- Ideal length: 1-2 short paragraphs\n- Can include links, images, and videos\n- Hashtags are useful but use sparingly (1-2)\n- Questions and calls-to-action perform well",
	"instagram": "- Visual-first platform, so content should complement an image\n- Can be longer than other platforms\n- Hashtags are important (use 5-15 relevant ones)\n- Emojis perform well\n- Include a call-to-action",
	"twitter":   "- Keep under 280 characters\n- Hashtags are important (use 1-2 relevant ones)\n- Questions, polls, and timely content perform well\n- Include links or media when relevant",
	"linkedin":  "- Professional tone\n- Can be longer form (several paragraphs)\n- Industry insights and thought leadership perform well\n- Limited use of hashtags (3-5)\n- Include a question or call-to-action",
}

// Immutable per-email-type guidelines fed into email prompts
var emailTypeGuidelines = map[string]string{
	"newsletter":     "- Clear, scannable format with sections\n- Mix of valuable content (80%) and promotional content (20%)\n- Consistent branding and voice\n- Regular sending schedule",
	"promotional":    "- Clear value proposition\n- Strong, benefit-focused headline\n- Sense of urgency or scarcity\n- Clear call-to-action\n- Focus on benefits, not features",
	"welcome":        "- Warm, friendly tone\n- Thank the subscriber for joining\n- Set expectations for future emails\n- Introduce your brand briefly\n- Optional: special offer for new subscribers",
	"abandoned_cart": "- Reminder of items left in cart\n- Create urgency (limited time, limited stock)\n- Address common objections\n- Make it easy to return to cart\n- Consider offering an incentive",
}

// PlatformGuidelines returns style notes for a social platform, with a
// generic default for platforms not explicitly covered.
func PlatformGuidelines(platform string) string {
	if g, ok := platformGuidelines[strings.ToLower(platform)]; ok {
		return g
	}
	return "Follow general best practices for this platform."
}

// EmailTypeGuidelines returns guidelines for an email type, with a generic
// default for unknown types.
func EmailTypeGuidelines(emailType string) string {
	if g, ok := emailTypeGuidelines[strings.ToLower(emailType)]; ok {
		return g
	}
	return "Follow general best practices for this type of email."
}
