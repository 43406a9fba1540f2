// Package sanitize normalizes untrusted free-text coming in from sync
// payloads. Field classes: plain text (all markup stripped), rich text
// (restricted HTML subset), keys (lowercase [a-z0-9_-]) and URLs
// (well-formed absolute http/https or empty).
package sanitize

import (
	"html"
	"net/url"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	richPolicy   = newRichPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "b", "i", "u", "ul", "ol", "li", "blockquote", "h2", "h3", "h4")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return p
}

// PlainText strips all markup and collapses runs of whitespace, including
// line breaks, into single spaces.
func PlainText(s string) string {
	stripped := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// MultilineText strips all markup but preserves line breaks; horizontal
// whitespace runs inside each line collapse into single spaces.
func MultilineText(s string) string {
	stripped := html.UnescapeString(strictPolicy.Sanitize(s))
	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.Join(strings.Fields(line), " "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// RichText keeps a restricted safe HTML subset for body copy.
func RichText(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// Key lowercases and drops every character outside [a-z0-9_-].
func Key(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug turns a name into a URL slug.
func Slug(s string) string {
	return slug.Make(s)
}

// URL validates an absolute http(s) URL; anything unparseable or
// non-absolute becomes empty.
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
