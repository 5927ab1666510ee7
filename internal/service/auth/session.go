package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/models/kb"
	"portal/internal/domain/repositories"
	"portal/internal/domain/services"
)

// sessionService implements SessionService on top of a SessionStore.
// The identity endpoint is only contacted by Login and Authenticate.
type sessionService struct {
	store    repositories.SessionStore
	provider auth.IdentityProvider
	verifier auth.TokenVerifier
	logger   *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	store repositories.SessionStore,
	provider auth.IdentityProvider,
	verifier auth.TokenVerifier,
	logger *slog.Logger,
) services.SessionService {
	return &sessionService{
		store:    store,
		provider: provider,
		verifier: verifier,
		logger:   logger,
	}
}

// Login validates the form, exchanges the credentials and stores the identity under a new session ID
func (s *sessionService) Login(ctx context.Context, req *services.LoginRequest) (*services.Session, error) {
	if err := s.validateLoginRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	identity, err := s.provider.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	roles, err := json.Marshal(identity.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to encode roles: %w", err)
	}

	sessionID := uuid.NewString()
	values := []struct{ key, value string }{
		{repositories.SessionKeyToken, identity.Token},
		{repositories.SessionKeyUserName, identity.DisplayName},
		{repositories.SessionKeyUserRole, string(roles)},
	}
	for _, kv := range values {
		if err := s.store.Set(ctx, sessionID, kv.key, kv.value); err != nil {
			_ = s.store.Clear(ctx, sessionID)
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	s.logger.Info("session started",
		"session_id", sessionID,
		"user", identity.DisplayName,
		"admin", identity.IsAdmin(),
	)
	return &services.Session{ID: sessionID, Identity: identity}, nil
}

// Current reads the stored identity
func (s *sessionService) Current(ctx context.Context, sessionID string) (*models.Identity, bool, error) {
	if sessionID == "" {
		return nil, false, nil
	}

	token, ok, err := s.store.Get(ctx, sessionID, repositories.SessionKeyToken)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || token == "" {
		return nil, false, nil
	}

	identity := &models.Identity{Token: token}
	if name, ok, err := s.store.Get(ctx, sessionID, repositories.SessionKeyUserName); err != nil {
		return nil, false, fmt.Errorf("failed to read session: %w", err)
	} else if ok {
		identity.DisplayName = name
	}

	rolesJSON, ok, err := s.store.Get(ctx, sessionID, repositories.SessionKeyUserRole)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read session: %w", err)
	}
	if ok && rolesJSON != "" {
		if err := json.Unmarshal([]byte(rolesJSON), &identity.Roles); err != nil {
			// A bare role string is still a role
			identity.Roles = []string{rolesJSON}
		}
	}
	return identity, true, nil
}

// Authenticate verifies the stored token, clearing the session when it is not accepted
func (s *sessionService) Authenticate(ctx context.Context, sessionID string) (*models.Identity, error) {
	identity, ok, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.AuthError{Reason: "no session"}
	}

	if err := s.verifier.VerifyToken(ctx, identity.Token); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if clearErr := s.store.Clear(ctx, sessionID); clearErr != nil {
			s.logger.Error("failed to clear session", "session_id", sessionID, "error", clearErr)
		}

		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			s.logger.Info("session rejected", "session_id", sessionID, "reason", authErr.Reason)
			return nil, authErr
		}
		// Validation endpoint unreachable: treated as a rejection
		s.logger.Warn("token validation failed", "session_id", sessionID, "error", err)
		return nil, &domain.AuthError{Reason: "validation unavailable", Err: err}
	}
	return identity, nil
}

// Logout clears the session
func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("session ended", "session_id", sessionID)
	return nil
}

// LoadNavigation restores the documentation selection
func (s *sessionService) LoadNavigation(ctx context.Context, sessionID string) (kb.NavState, error) {
	raw, ok, err := s.store.Get(ctx, sessionID, repositories.SessionKeyNavigation)
	if err != nil {
		return kb.NavState{}, fmt.Errorf("failed to read navigation state: %w", err)
	}
	if !ok {
		return kb.NewNavState(), nil
	}

	state := kb.NewNavState()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("discarding unreadable navigation state", "session_id", sessionID, "error", err)
		return kb.NewNavState(), nil
	}
	if state.Expanded == nil {
		state.Expanded = map[int64]bool{}
	}
	if state.Seen == nil {
		state.Seen = map[int64]bool{}
	}
	return state, nil
}

// SaveNavigation persists the selection fields
func (s *sessionService) SaveNavigation(ctx context.Context, sessionID string, state kb.NavState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode navigation state: %w", err)
	}
	if err := s.store.Set(ctx, sessionID, repositories.SessionKeyNavigation, string(raw)); err != nil {
		return fmt.Errorf("failed to save navigation state: %w", err)
	}
	return nil
}

// Validation methods

func (s *sessionService) validateLoginRequest(req *services.LoginRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username,
			validation.Required,
			validation.Length(1, config.MaxUsernameLength),
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(1, config.MaxPasswordLength),
		),
	)
}
