package kb

import (
	"html"
	"strings"
	"unicode"

	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/service/kb/converter/sanitizer"
)

type contentAnalyzerService struct {
	strict *sanitizer.HTMLSanitizer
}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() kbSvc.ContentAnalyzer {
	return &contentAnalyzerService{strict: sanitizer.NewStrictHTMLSanitizer()}
}

// CountWords counts the number of words in the visible text of an HTML body
func (s *contentAnalyzerService) CountWords(body string) int {
	words := strings.FieldsFunc(s.PlainText(body), func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return len(words)
}

// PlainText removes all markup and decodes entities
func (s *contentAnalyzerService) PlainText(body string) string {
	// Keep words in adjacent block elements apart once the tags are gone
	spaced := strings.NewReplacer(">", "> ", "<br", " <br").Replace(body)
	text := html.UnescapeString(s.strict.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}
