// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize cleans HTML that comes from outside the app (news
// articles from the backend, admin-written reply bodies) before it is
// rendered or mailed.
package htmlsanitize

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var tableElements = []string{"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption", "colgroup", "col"}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark", "hr", "br")
	p.AllowAttrs("class").OnElements(tableElements...)
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowStyles("width", "text-align", "vertical-align", "border", "border-collapse", "padding", "background-color", "color").
		OnElements(tableElements...)
	p.AllowAttrs("style").OnElements(tableElements...)
	return p
}

// Sanitize strips scripts, event handlers, forms, frames and unsafe URLs
// from s.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// SanitizeToHTML is Sanitize for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// IsPlainText reports whether s has no markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// PlainTextToHTML escapes s and wraps it in a paragraph, keeping line
// breaks.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(html.EscapeString(s), "\n", "<br>") + "</p>"
}

// PrepareForDisplay renders plain text as paragraphs and sanitizes
// anything that looks like HTML.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}

// Raw HTML in markdown input is escaped since WithUnsafe is not set.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
	),
)

// Markdown renders markdown with single newlines kept as <br> and
// sanitizes the result.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(PlainTextToHTML(src))
	}
	return SanitizeToHTML(buf.String())
}
