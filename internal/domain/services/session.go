package services

import (
	"context"

	"portal/internal/domain/models"
	"portal/internal/domain/models/kb"
)

// SessionService owns the browser session: login, the route guard's token
// check, logout, and the documentation screen's persisted selection.
type SessionService interface {
	// Login exchanges credentials for a new session.
	// Rejected credentials yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, req *LoginRequest) (*Session, error)

	// Current returns the stored identity without contacting the identity
	// endpoint. ok is false when the session holds no token.
	Current(ctx context.Context, sessionID string) (identity *models.Identity, ok bool, err error)

	// Authenticate verifies the stored token. On any failure the whole
	// session is cleared and a *domain.AuthError is returned.
	Authenticate(ctx context.Context, sessionID string) (*models.Identity, error)

	// Logout clears every key of the session.
	Logout(ctx context.Context, sessionID string) error

	// LoadNavigation returns the saved documentation selection, or a fresh
	// state when none is saved.
	LoadNavigation(ctx context.Context, sessionID string) (kb.NavState, error)

	// SaveNavigation persists the selection fields of state.
	SaveNavigation(ctx context.Context, sessionID string, state kb.NavState) error
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is a freshly started session.
type Session struct {
	ID       string
	Identity *models.Identity
}
