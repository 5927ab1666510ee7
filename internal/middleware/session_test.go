package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/models/kb"
	"portal/internal/domain/services"
	"portal/internal/httputil"
)

// fakeSessions knows one session ID and answers Authenticate with err.
type fakeSessions struct {
	sessionID string
	identity  *models.Identity
	err       error
}

func (f *fakeSessions) Login(ctx context.Context, req *services.LoginRequest) (*services.Session, error) {
	return nil, errors.New("not used")
}

func (f *fakeSessions) Current(ctx context.Context, sessionID string) (*models.Identity, bool, error) {
	if sessionID == "" || sessionID != f.sessionID {
		return nil, false, nil
	}
	return f.identity, true, nil
}

func (f *fakeSessions) Authenticate(ctx context.Context, sessionID string) (*models.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if sessionID != f.sessionID {
		return nil, &domain.AuthError{Reason: "no session"}
	}
	return f.identity, nil
}

func (f *fakeSessions) Logout(ctx context.Context, sessionID string) error { return nil }

func (f *fakeSessions) LoadNavigation(ctx context.Context, sessionID string) (kb.NavState, error) {
	return kb.NewNavState(), nil
}

func (f *fakeSessions) SaveNavigation(ctx context.Context, sessionID string, state kb.NavState) error {
	return nil
}

var testCookie = &SessionCookie{Name: "portal_session", MaxAge: time.Hour}

func newTestGuard(sessions services.SessionService) *SessionGuard {
	return NewSessionGuard(sessions, testCookie, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func requestWithSession(method, target, sessionID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: sessionID})
	}
	return req
}

// echoIdentity writes the display name the guard put into the context.
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	_, _ = io.WriteString(w, httputil.GetSessionID(r)+":"+identity.DisplayName)
})

func expiredCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	return nil
}

func TestGuardPage(t *testing.T) {
	sessions := &fakeSessions{sessionID: "s1", identity: &models.Identity{DisplayName: "Jo"}}
	handler := newTestGuard(sessions).Page(echoIdentity)

	t.Run("valid session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithSession(http.MethodGet, "/docs", "s1"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "s1:Jo", rec.Body.String())
	})

	for _, sid := range []string{"", "stale"} {
		t.Run("rejected "+sid, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithSession(http.MethodGet, "/docs", sid))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, LoginPath, rec.Header().Get("Location"))
			cookie := expiredCookie(t, rec)
			require.NotNil(t, cookie)
			assert.Negative(t, cookie.MaxAge)
		})
	}

	t.Run("store failure still redirects", func(t *testing.T) {
		broken := newTestGuard(&fakeSessions{sessionID: "s1", err: errors.New("db down")}).Page(echoIdentity)
		rec := httptest.NewRecorder()
		broken.ServeHTTP(rec, requestWithSession(http.MethodGet, "/docs", "s1"))
		assert.Equal(t, http.StatusFound, rec.Code)
	})
}

func TestGuardAPI(t *testing.T) {
	sessions := &fakeSessions{sessionID: "s1", identity: &models.Identity{DisplayName: "Jo"}}

	t.Run("valid session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestGuard(sessions).API(echoIdentity).ServeHTTP(rec, requestWithSession(http.MethodGet, "/api/catalog", "s1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestGuard(sessions).API(echoIdentity).ServeHTTP(rec, requestWithSession(http.MethodGet, "/api/catalog", "stale"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `"status":401`)
		assert.Contains(t, rec.Body.String(), `"instance":"/api/catalog"`)
		assert.Contains(t, rec.Body.String(), `"login":"/login"`)
	})

	t.Run("store failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard := newTestGuard(&fakeSessions{sessionID: "s1", err: errors.New("db down")})
		guard.API(echoIdentity).ServeHTTP(rec, requestWithSession(http.MethodGet, "/api/catalog", "s1"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Nil(t, expiredCookie(t, rec), "a store failure does not end the session")
	})
}

func TestGuestOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "login form")
	})

	tests := []struct {
		name         string
		identity     *models.Identity
		sessionID    string
		wantStatus   int
		wantLocation string
	}{
		{name: "guest", wantStatus: http.StatusOK},
		{
			name:         "administrator",
			identity:     &models.Identity{Token: "t", Roles: []string{models.AdminRole}},
			sessionID:    "s1",
			wantStatus:   http.StatusFound,
			wantLocation: "https://wp.example.com/wp-admin/",
		},
		{
			name:         "employee",
			identity:     &models.Identity{Token: "t", Roles: []string{"subscriber"}},
			sessionID:    "s1",
			wantStatus:   http.StatusFound,
			wantLocation: "/terms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := newTestGuard(&fakeSessions{sessionID: "s1", identity: tt.identity})
			rec := httptest.NewRecorder()
			guard.GuestOnly("https://wp.example.com/wp-admin/")(next).ServeHTTP(rec, requestWithSession(http.MethodGet, "/login", tt.sessionID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestSessionCookie(t *testing.T) {
	cookie := &SessionCookie{Name: "sid", Secure: true, MaxAge: 2 * time.Hour}

	rec := httptest.NewRecorder()
	cookie.Write(rec, "abc")
	written := rec.Result().Cookies()
	require.Len(t, written, 1)
	assert.Equal(t, "abc", written[0].Value)
	assert.Equal(t, 7200, written[0].MaxAge)
	assert.True(t, written[0].HttpOnly)
	assert.True(t, written[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, written[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, cookie.Read(req))
	req.AddCookie(written[0])
	assert.Equal(t, "abc", cookie.Read(req))
}
