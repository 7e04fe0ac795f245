// Package platforms maps canonical content and campaign records into
// destination-specific payloads. All transforms are pure: the canonical
// object is never mutated, and unknown platforms fall back to a passthrough
// payload instead of failing.
package platforms

import "strings"

// Canonical platform identifiers after alias resolution
const (
	Meta     = "meta"
	Twitter  = "twitter"
	LinkedIn = "linkedin"
	TikTok   = "tiktok"
	Shopify  = "shopify"
	Google   = "google"
)

// Normalize resolves a platform name to its canonical identifier plus the
// lowercased specific name. Aliases facebook/instagram/meta all route to
// Meta, twitter/x to Twitter; anything else maps to itself.
func Normalize(platform string) (canonical, specific string) {
	specific = strings.ToLower(strings.TrimSpace(platform))
	switch specific {
	case "facebook", "instagram", "meta":
		return Meta, specific
	case "twitter", "x":
		return Twitter, specific
	default:
		return specific, specific
	}
}
