package web

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Assistant replies are model output, so raw HTML in them is never rendered
// and links open outside the chat page.
var (
	replyRenderer  = goldmark.New(goldmark.WithExtensions(extension.GFM), goldmark.WithRendererOptions(html.WithHardWraps()))
	replySanitizer = newReplyPolicy()
)

func newReplyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}

// RenderMarkdown converts an assistant reply to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := replyRenderer.Convert([]byte(src), &buf); err != nil {
		return replySanitizer.Sanitize(src)
	}
	return replySanitizer.Sanitize(buf.String())
}
