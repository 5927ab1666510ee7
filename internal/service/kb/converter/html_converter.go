package converter

import (
	"context"

	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/service/kb/converter/sanitizer"
)

// htmlConverter returns the document body as sanitized HTML.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
}

// NewHTMLConverter creates the converter used for the article view.
func NewHTMLConverter() kbSvc.ContentConverter {
	return &htmlConverter{sanitizer: sanitizer.NewHTMLSanitizer()}
}

func (c *htmlConverter) Convert(ctx context.Context, body string) (string, error) {
	return c.sanitizer.Sanitize(body), nil
}

func (c *htmlConverter) Formats() []string { return []string{"html"} }

func (c *htmlConverter) Name() string { return "html" }
