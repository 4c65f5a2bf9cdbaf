// Package sanitize cleans user-supplied text before it is stored.
//
// Rich text written by the admin (project descriptions, bio) keeps a small
// set of formatting tags. Text written by guests (contact form) is stripped
// of all markup.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "b", "i", "h3", "h4",
	)
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("https", "http", "mailto")
	p.RequireParseableURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// Rich sanitizes admin-authored HTML.
func Rich(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// maxPlainPasses bounds the strip/unescape loop for nested entity encoding.
const maxPlainPasses = 4

// Plain removes all markup and returns plain text: entities are decoded, so
// "Tom &amp; Jerry" and "Tom & Jerry" both come back as "Tom & Jerry".
// Markup smuggled in as entities ("&lt;b&gt;") is decoded and stripped too.
// Callers that embed the result in HTML must escape it.
func Plain(s string) string {
	out := s
	for i := 0; i < maxPlainPasses; i++ {
		next := html.UnescapeString(plainPolicy.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
