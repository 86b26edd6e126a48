package pdf

import (
	"regexp"
	"strings"
)

var (
	boldMarks    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	numberedItem = regexp.MustCompile(`^\d+\.`)
)

// flattenMarkdown reduces the risk-analysis markdown to printable text lines:
// bullets become "• ", numbered items keep their number, bold markers are
// stripped. The full HTML rendering only exists on screen.
func flattenMarkdown(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			// marker plus space, so a leading bold span is not a bullet
			content := strings.TrimSpace(trimmed[2:])
			out = append(out, "• "+boldMarks.ReplaceAllString(content, "$1"))
		case numberedItem.MatchString(trimmed):
			out = append(out, boldMarks.ReplaceAllString(trimmed, "$1"))
		default:
			out = append(out, boldMarks.ReplaceAllString(trimmed, "$1"))
		}
	}
	return out
}
