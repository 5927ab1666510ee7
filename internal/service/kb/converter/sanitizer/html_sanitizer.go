package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes before content
// coming from the content API is embedded in a page.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer for document bodies.
// Uses the UGC policy: common formatting, headings, lists, tables, links and
// images survive; scripts, event handlers and javascript: URLs do not.
// Standard attributes such as id are kept so existing in-page anchors still work.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	return &HTMLSanitizer{policy: policy}
}

// NewInlineSanitizer creates a sanitizer for titles and category names.
// Only inline formatting survives; block elements are flattened to their text.
func NewInlineSanitizer() *HTMLSanitizer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("b", "strong", "i", "em", "u", "mark", "small", "sub", "sup", "code", "span", "br")
	return &HTMLSanitizer{policy: policy}
}

// NewStrictHTMLSanitizer creates a sanitizer that strips all HTML.
func NewStrictHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize removes dangerous HTML while preserving safe content.
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
