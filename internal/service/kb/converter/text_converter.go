package converter

import (
	"context"
	"html"
	"strings"

	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/service/kb/converter/sanitizer"
)

// textConverter strips all markup and returns plain text.
type textConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
}

// NewTextConverter creates a new plain text converter.
func NewTextConverter() kbSvc.ContentConverter {
	return &textConverter{sanitizer: sanitizer.NewStrictHTMLSanitizer()}
}

func (c *textConverter) Convert(ctx context.Context, body string) (string, error) {
	text := html.UnescapeString(c.sanitizer.Sanitize(body))
	return strings.Join(strings.Fields(text), " "), nil
}

func (c *textConverter) Formats() []string { return []string{"text", "txt"} }

func (c *textConverter) Name() string { return "plaintext" }
