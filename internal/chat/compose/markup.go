package compose

import (
	"html"
	"regexp"
	"strings"
)

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// RenderHTML converts reply markup (**bold** and newlines) to safe HTML.
func RenderHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
}
