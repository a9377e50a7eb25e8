package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer turns movie descriptions into safe HTML and strips markup from
// short user-supplied text such as comments and names.
type Renderer interface {
	ToHTML(markdown string) (string, error)
	StripTags(text string) string
}

type renderer struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewRenderer() Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			goldhtml.WithHardWraps(),
		),
	)

	ugc := bluemonday.UGCPolicy()
	ugc.RequireNoFollowOnLinks(true)
	ugc.AddTargetBlankToFullyQualifiedLinks(true)

	return &renderer{
		md:     md,
		ugc:    ugc,
		strict: bluemonday.StrictPolicy(),
	}
}

// ToHTML renders markdown and sanitizes the output with a UGC policy.
func (r *renderer) ToHTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return r.ugc.Sanitize(buf.String()), nil
}

// StripTags removes every tag and returns plain text with entities decoded.
func (r *renderer) StripTags(text string) string {
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(text)))
}
