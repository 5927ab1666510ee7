package repositories

import (
	"context"

	"portal/internal/domain/models/kb"
)

// ContentSource provides read-only access to the remote content API.
type ContentSource interface {
	// FetchAll retrieves categories and at most limit documents. Both requests
	// run concurrently and are joined before returning; if either fails the
	// whole call fails with a *domain.FetchError and no partial result.
	FetchAll(ctx context.Context, limit int) ([]kb.Category, []kb.Document, error)
}
