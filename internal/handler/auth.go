package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"portal/internal/domain"
	"portal/internal/domain/services"
	"portal/internal/httputil"
	"portal/internal/middleware"
)

// loginForm is the data of the login screen.
type loginForm struct {
	Username string
	Error    string
}

// AuthHandler handles login and logout
type AuthHandler struct {
	sessions services.SessionService
	cookie   *middleware.SessionCookie
	views    *Views
	adminURL string
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	sessions services.SessionService,
	cookie *middleware.SessionCookie,
	views *Views,
	adminURL string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		cookie:   cookie,
		views:    views,
		adminURL: adminURL,
		logger:   logger,
	}
}

// LoginPage renders the login form
// GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, viewLogin, &Page{Title: "Login", Data: loginForm{}})
}

// Login exchanges credentials for a session
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(w, r); err != nil {
		h.renderLoginError(w, http.StatusBadRequest, "", "Invalid request.")
		return
	}

	req := &services.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	session, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrValidation):
			h.renderLoginError(w, http.StatusUnauthorized, req.Username, domain.ErrInvalidCredentials.Error())
		default:
			h.logger.Error("login failed", "error", err)
			h.renderLoginError(w, http.StatusBadGateway, req.Username, "We couldn't reach the login service. Please try again.")
		}
		return
	}

	h.cookie.Write(w, session.ID)
	if session.Identity.IsAdmin() {
		http.Redirect(w, r, h.adminURL, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the session
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), h.cookie.Read(r)); err != nil {
		h.logger.Error("logout failed", "error", err)
	}
	h.cookie.Expire(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, status int, username, message string) {
	h.views.Render(w, status, viewLogin, &Page{
		Title: "Login",
		Data:  loginForm{Username: username, Error: message},
	})
}
