package kb

import "context"

// ContentConverter renders a document body into one output format
// (sanitized HTML, markdown, plain text).
//
// Implementations should be stateless and thread-safe.
type ContentConverter interface {
	// Convert transforms a raw document body into the converter's format.
	Convert(ctx context.Context, body string) (string, error)

	// Formats returns the format names this converter answers to (e.g., ["markdown", "md"]).
	Formats() []string

	// Name returns a human-readable converter name for logging.
	Name() string
}
