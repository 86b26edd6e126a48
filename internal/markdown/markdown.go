// Package markdown rend le champ "analyse de risques" en HTML sûr.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// GFM + hard line breaks, matching how technicians actually type the field.
// Raw HTML in the input is dropped by default, never emitted as markup.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Render converts markdown text to HTML. Embedded HTML tags are stripped
// from the output.
func Render(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
