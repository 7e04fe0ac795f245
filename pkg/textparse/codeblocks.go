package textparse

import (
	"fmt"
	"strings"

	"github.com/theo45530/commerceai-pro/pkg/models"
)

const pageSkeleton = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body>
%s
</body>
</html>`

// ExtractPageContent pulls the fenced html/css/js blocks out of a page
// generation reply. When no html fence is found the entire reply becomes the
// HTML segment, so HTML is always non-empty. A standalone css or js segment
// is embedded into the HTML when it has no style or script block of its own,
// and the result is wrapped in a minimal HTML5 skeleton if it lacks a
// doctype.
func ExtractPageContent(blob, businessName, pageType string) models.PageContent {
	html := fencedBlock(blob, "html")
	css := fencedBlock(blob, "css")
	js := fencedBlock(blob, "javascript")
	if js == "" {
		js = fencedBlock(blob, "js")
	}

	if html == "" {
		html = blob
	}

	if css != "" && !strings.Contains(html, "<style>") {
		html = "<style>\n" + css + "\n</style>\n" + html
	}
	if js != "" && !strings.Contains(html, "<script>") {
		html = html + "\n<script>\n" + js + "\n</script>"
	}

	if !strings.Contains(html, "<!DOCTYPE html>") {
		html = fmt.Sprintf(pageSkeleton, PageTitle(businessName, pageType), html)
	}

	return models.PageContent{
		HTML: html,
		CSS:  css,
		JS:   js,
	}
}

// PageTitle synthesizes the document title for a generated page
func PageTitle(businessName, pageType string) string {
	return businessName + " - " + capitalize(pageType) + " Page"
}

// fencedBlock returns the trimmed content between a ```lang fence and the
// next ``` fence, or "" when either fence is missing. The language tag must
// end at the marker, so "js" does not match a json fence.
func fencedBlock(blob, lang string) string {
	marker := "```" + lang
	rest := blob
	for {
		start := strings.Index(rest, marker)
		if start == -1 {
			return ""
		}
		rest = rest[start+len(marker):]
		if rest == "" || !isWordByte(rest[0]) {
			break
		}
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
