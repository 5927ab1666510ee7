package converter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"portal/internal/domain"
	kbSvc "portal/internal/domain/services/kb"
)

// DefaultFormat is used when a request names no format.
const DefaultFormat = "html"

// ConverterRegistry manages content converters and routes bodies by format name.
//
// Thread-safe for concurrent access.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[string]kbSvc.ContentConverter // key: format name (e.g., "markdown")
}

// NewConverterRegistry creates a registry with standard converters pre-registered.
func NewConverterRegistry() *ConverterRegistry {
	registry := &ConverterRegistry{
		converters: make(map[string]kbSvc.ContentConverter),
	}

	registry.Register(NewHTMLConverter())
	registry.Register(NewMarkdownConverter())
	registry.Register(NewTextConverter())

	return registry
}

// Register adds a converter under each of its format names (lowercased).
func (r *ConverterRegistry) Register(converter kbSvc.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, format := range converter.Formats() {
		r.converters[strings.ToLower(format)] = converter
	}
}

// GetConverter retrieves a converter for the given format.
// Returns nil if no converter is registered for it.
func (r *ConverterRegistry) GetConverter(format string) kbSvc.ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[strings.ToLower(format)]
}

// Convert selects the converter for format and converts body.
// An empty format means DefaultFormat.
func (r *ConverterRegistry) Convert(ctx context.Context, format, body string) (string, error) {
	if format == "" {
		format = DefaultFormat
	}
	converter := r.GetConverter(format)
	if converter == nil {
		return "", &domain.ValidationError{Message: fmt.Sprintf("unsupported format: %s", format)}
	}
	return converter.Convert(ctx, body)
}

// SupportedFormats returns all registered format names, sorted.
func (r *ConverterRegistry) SupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.converters))
	for format := range r.converters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
