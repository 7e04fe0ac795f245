package textparse

import "strings"

// List-length caps for analysis sections
const (
	maxStrengths       = 3
	maxWeaknesses      = 3
	maxRecommendations = 5
)

// Sections holds the bulleted lists extracted from an analysis reply
type Sections struct {
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
}

// ExtractSections splits an analysis reply on blank-line boundaries and
// reads the strengths, weaknesses and recommendations sections by position.
// The first section is assumed to be an introductory paragraph. Replies with
// fewer sections than expected produce empty lists, never an error.
func ExtractSections(text string) Sections {
	parts := strings.Split(text, "\n\n")
	return Sections{
		Strengths:       sectionItems(parts, 1, "strength", maxStrengths),
		Weaknesses:      sectionItems(parts, 2, "weakness", maxWeaknesses),
		Recommendations: sectionItems(parts, 3, "recommendation", maxRecommendations),
	}
}

// sectionItems cleans the lines of parts[idx]: trims whitespace, drops empty
// lines and drops a restated header like "Strengths:".
func sectionItems(parts []string, idx int, label string, limit int) []string {
	items := []string{}
	if idx >= len(parts) {
		return items
	}
	for _, line := range strings.Split(parts[idx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(strings.ToLower(line), label) {
			continue
		}
		items = append(items, line)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
