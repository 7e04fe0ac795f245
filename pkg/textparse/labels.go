package textparse

import "strings"

// ExtractLabeledLine scans line-by-line for a line whose lowercase form
// starts with label + ":". The value is the substring after the first colon,
// trimmed, and the matched line is removed from the returned body.
func ExtractLabeledLine(text, label string) (value, body string, found bool) {
	prefix := strings.ToLower(label) + ":"
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !found && strings.HasPrefix(strings.ToLower(trimmed), prefix) {
			_, after, _ := strings.Cut(trimmed, ":")
			value = strings.TrimSpace(after)
			found = true
			continue
		}
		kept = append(kept, line)
	}
	return value, strings.Join(kept, "\n"), found
}

// ExtractLabeledSpan performs a paragraph-bounded scan: it locates the first
// case-insensitive occurrence of label, takes everything up to the next blank
// line (or end of text) as the span, and returns the part after the span's
// first colon as the value. The whole span is removed from the body.
func ExtractLabeledSpan(text, label string) (value, body string, found bool) {
	start := strings.Index(strings.ToLower(text), strings.ToLower(label))
	if start == -1 {
		return "", text, false
	}
	end := strings.Index(text[start:], "\n\n")
	if end == -1 {
		end = len(text)
	} else {
		end += start
	}
	span := text[start:end]
	if _, after, ok := strings.Cut(span, ":"); ok {
		value = strings.TrimSpace(after)
	} else {
		value = strings.TrimSpace(span)
	}
	return value, text[:start] + text[end:], true
}

// CleanLabelLines drops any remaining lines that restate one of the given
// labels, e.g. a stray "Title:" line, and trims the result.
func CleanLabelLines(text string, labels ...string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		lower := strings.ToLower(line)
		skip := false
		for _, label := range labels {
			if strings.HasPrefix(lower, strings.ToLower(label)+":") {
				skip = true
				break
			}
		}
		if !skip {
			cleaned = append(cleaned, line)
		}
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// FallbackTitle picks a title from a body with no explicit title line: the
// first non-empty line that is not a markdown heading, else the first "# "
// heading with the marker stripped. Returns "" when neither exists, in which
// case the caller synthesizes a default from the topic.
func FallbackTitle(body string) string {
	lines := strings.Split(body, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return trimmed
		}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return ""
}

// SplitKeywords splits a comma-separated keyword value into trimmed entries
func SplitKeywords(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
