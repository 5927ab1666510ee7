package converter

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"

	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/service/kb/converter/sanitizer"
)

// markdownConverter exports a document body as markdown.
// Implements a two-stage process:
// 1. Sanitize HTML to remove dangerous elements
// 2. Convert sanitized HTML to markdown
type markdownConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewMarkdownConverter creates a new HTML to markdown converter.
func NewMarkdownConverter() kbSvc.ContentConverter {
	return &markdownConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

func (c *markdownConverter) Convert(ctx context.Context, body string) (string, error) {
	markdown, err := c.converter.ConvertString(c.sanitizer.Sanitize(body))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return markdown, nil
}

func (c *markdownConverter) Formats() []string { return []string{"markdown", "md"} }

func (c *markdownConverter) Name() string { return "markdown" }
