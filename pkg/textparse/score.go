// Package textparse extracts structured records out of free-form language
// model completions. The upstream text has no guaranteed structure, so every
// extractor recovers with a documented fallback instead of failing.
package textparse

import (
	"math"
	"strconv"
	"strings"
)

// Flow-specific score defaults used when no parseable score is present.
const (
	DefaultProductScore  = 70
	DefaultCheckoutScore = 65
)

const scoreWindow = 30

// ExtractScore locates the first case-insensitive "score" mention, scans the
// following window for the first all-numeric token and returns it clamped to
// [0, 100]. Absence of a parseable score yields the fallback, also clamped.
func ExtractScore(text string, fallback float64) float64 {
	idx := strings.Index(strings.ToLower(text), "score")
	if idx >= 0 {
		window := text[idx:]
		if len(window) > scoreWindow {
			window = window[:scoreWindow]
		}
		for _, token := range strings.Fields(window) {
			if !numericToken(token) {
				continue
			}
			value, err := strconv.ParseFloat(token, 64)
			if err != nil {
				continue
			}
			return ClampScore(value)
		}
	}
	return ClampScore(fallback)
}

// ClampScore bounds a score to the [0, 100] scale
func ClampScore(score float64) float64 {
	return math.Min(math.Max(score, 0), 100)
}

// numericToken reports whether a token is entirely digits once dots are
// removed, e.g. "85", "8.5" or "92.".
func numericToken(token string) bool {
	stripped := strings.ReplaceAll(token, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
