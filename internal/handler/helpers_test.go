package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portal/internal/domain/models"
	"portal/internal/domain/models/kb"
	"portal/internal/domain/services"
	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/httputil"
	"portal/internal/middleware"
	"portal/internal/repository/memory"
	serviceAuth "portal/internal/service/auth"
	serviceKB "portal/internal/service/kb"
	"portal/internal/service/kb/converter"
)

// stubSource serves a fixed catalog or a fixed error.
type stubSource struct {
	categories []kb.Category
	documents  []kb.Document
	err        error
}

func (s *stubSource) FetchAll(ctx context.Context, limit int) ([]kb.Category, []kb.Document, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.categories, s.documents, nil
}

func sampleSource() *stubSource {
	return &stubSource{
		categories: []kb.Category{
			{ID: 1, Name: "HR", Order: 2},
			{ID: 2, Name: "IT", Order: 1},
		},
		documents: []kb.Document{
			{
				ID:           10,
				Title:        "Leave Policy",
				Body:         "<h2>Annual</h2><p>Annual leave is 20 days.</p><h2>Sick</h2><p>Sick leave.</p>",
				CategoryIDs:  []int64{1},
				LastModified: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			},
			{ID: 11, Title: "VPN Setup", Body: "<p>Install the client.</p>", CategoryIDs: []int64{2}},
		},
	}
}

type stubProvider struct {
	identity *models.Identity
	err      error
}

func (p *stubProvider) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	return p.identity, p.err
}

type acceptAll struct{}

func (acceptAll) VerifyToken(ctx context.Context, token string) error { return nil }
func (acceptAll) Close() error                                        { return nil }

var testCookie = &middleware.SessionCookie{Name: "portal_session", MaxAge: time.Hour}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestViews(t *testing.T) *Views {
	t.Helper()
	views, err := NewViews("help@example.com", testLogger())
	require.NoError(t, err)
	return views
}

func newTestSessions(provider *stubProvider) services.SessionService {
	return serviceAuth.NewSessionService(memory.NewSessionStore(time.Hour), provider, acceptAll{}, testLogger())
}

func newTestPortal(source *stubSource) kbSvc.PortalService {
	return serviceKB.NewPortalService(source, converter.NewConverterRegistry(), serviceKB.NewContentAnalyzer(), nil, testLogger())
}

// signedIn attaches a verified session to r the way the route guard does.
func signedIn(r *http.Request, sessionID string) *http.Request {
	return httputil.WithSession(r, sessionID, &models.Identity{Token: "tok", DisplayName: "Jo"})
}
