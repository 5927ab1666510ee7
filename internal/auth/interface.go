package auth

import (
	"context"

	"portal/internal/domain/models"
)

// IdentityProvider exchanges credentials for a bearer token.
type IdentityProvider interface {
	// Login returns the identity for valid credentials.
	// Any rejection is reported as domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*models.Identity, error)
}

// TokenVerifier defines the interface for session token verification.
// This abstraction keeps the route guard agnostic to whether tokens are
// checked remotely or against a local key set.
type TokenVerifier interface {
	// VerifyToken returns nil for a live token. Rejected, expired or malformed
	// tokens yield a *domain.AuthError; transport failures are wrapped errors.
	VerifyToken(ctx context.Context, token string) error

	// Close releases any resources held by the verifier.
	Close() error
}
