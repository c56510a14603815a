// Package htmlsanitize cleans user-supplied text before it is stored.
//
// Cooperative descriptions may carry limited rich text (Sanitize); every
// other user-supplied string (names, notification titles, messages) is
// reduced to plain text (StripTags).
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// richPolicy allows the user-generated-content subset plus tables with
// class attributes. Policies are safe for concurrent use.
var richPolicy = buildRichPolicy()

// strictPolicy removes every element and attribute, leaving text only.
var strictPolicy = bluemonday.StrictPolicy()

func buildRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("mark")
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	return p
}

// Sanitize returns s with unsafe HTML removed. Safe formatting (paragraphs,
// headings, lists, tables, code blocks, links, images with http(s) sources)
// is kept; scripts, iframes, style blocks, and event-handler attributes are
// dropped.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy.Sanitize(s)
}

// StripTags reduces s to plain text: all elements are removed and entity
// escapes introduced by the sanitizer are undone, so the result is suitable
// for storage in plain-string fields.
func StripTags(s string) string {
	if IsPlainText(s) {
		return s
	}
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// IsPlainText reports whether s contains no HTML tags. A bare < or > (as in
// "5 < 10") does not count as a tag.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	if lt == -1 {
		return true
	}
	return strings.IndexByte(s[lt:], '>') == -1
}
