package textparse

import "strings"

// ExtractHashtags collects every whitespace-delimited token beginning with
// '#', preserving order of first appearance.
func ExtractHashtags(text string) []string {
	hashtags := []string{}
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		if !strings.HasPrefix(token, "#") {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		hashtags = append(hashtags, token)
	}
	return hashtags
}
