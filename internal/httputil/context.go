package httputil

import (
	"context"
	"net/http"

	"portal/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
	identityKey  contextKey = "identity"
)

// WithSession adds the session ID and its verified identity to the request context
func WithSession(r *http.Request, sessionID string, identity *models.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	ctx = context.WithValue(ctx, identityKey, identity)
	return r.WithContext(ctx)
}

// GetSessionID retrieves the session ID from context, returns empty string if not found
func GetSessionID(r *http.Request) string {
	sessionID, _ := r.Context().Value(sessionIDKey).(string)
	return sessionID
}

// GetIdentity retrieves the verified identity from context, returns nil if not found
func GetIdentity(r *http.Request) *models.Identity {
	identity, _ := r.Context().Value(identityKey).(*models.Identity)
	return identity
}
