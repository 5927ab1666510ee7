package middleware

import (
	"net/http"
	"time"
)

// SessionCookie reads and writes the session ID cookie.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Read returns the session ID, or "" when the cookie is absent.
func (c *SessionCookie) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Write sets the session ID cookie.
func (c *SessionCookie) Write(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Expire deletes the session ID cookie.
func (c *SessionCookie) Expire(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
