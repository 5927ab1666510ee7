package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"portal/internal/domain"
	"portal/internal/domain/services"
	"portal/internal/httputil"
)

// LoginPath is where unauthenticated screen requests are sent.
const LoginPath = "/login"

// SessionGuard protects routes that need a verified session.
type SessionGuard struct {
	sessions services.SessionService
	cookie   *SessionCookie
	logger   *slog.Logger
}

// NewSessionGuard creates a guard reading the session ID from cookie.
func NewSessionGuard(sessions services.SessionService, cookie *SessionCookie, logger *slog.Logger) *SessionGuard {
	return &SessionGuard{
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

// Page guards a screen. A rejected session is cleared and redirected to the login screen.
func (g *SessionGuard) Page(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, err := g.authenticate(r)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				g.logger.Error("session check failed", "path", r.URL.Path, "error", err)
			}
			g.cookie.Expire(w)
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// API guards a JSON endpoint. A rejected session gets a 401 problem document.
func (g *SessionGuard) API(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, err := g.authenticate(r)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				g.logger.Error("session check failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, r, http.StatusInternalServerError, "internal server error")
				return
			}
			g.cookie.Expire(w)
			problem := httputil.NewProblem(r, http.StatusUnauthorized, "session expired, please sign in again")
			problem.Login = LoginPath
			httputil.RespondProblem(w, problem)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GuestOnly sends visitors that already hold a session away from the login
// screen: administrators to adminURL, everyone else to the terms landing.
// The stored token is not re-validated here.
func (g *SessionGuard) GuestOnly(adminURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok, err := g.sessions.Current(r.Context(), g.cookie.Read(r))
			if err != nil {
				g.logger.Error("session lookup failed", "path", r.URL.Path, "error", err)
			}
			if ok {
				if identity.IsAdmin() {
					http.Redirect(w, r, adminURL, http.StatusFound)
				} else {
					http.Redirect(w, r, "/terms", http.StatusFound)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *SessionGuard) authenticate(r *http.Request) (*http.Request, error) {
	sessionID := g.cookie.Read(r)
	if sessionID == "" {
		return r, &domain.AuthError{Reason: "no session cookie"}
	}
	identity, err := g.sessions.Authenticate(r.Context(), sessionID)
	if err != nil {
		return r, err
	}
	return httputil.WithSession(r, sessionID, identity), nil
}
