package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/config"
	"portal/internal/domain"
	"portal/internal/domain/models/kb"
)

func TestDocsURL(t *testing.T) {
	tests := []struct {
		intent kb.NavigationIntent
		want   string
	}{
		{intent: kb.NavigationIntent{}, want: "/docs"},
		{intent: kb.NavigationIntent{CategoryID: 1, DocumentID: 10}, want: "/docs?category=1&document=10"},
		{intent: kb.NavigationIntent{DocumentID: 12, Anchor: "section-12-1"}, want: "/docs?document=12&section=section-12-1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DocsURL(tt.intent))
	}
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		query   string
		want    *kb.NavigationIntent
		wantErr bool
	}{
		{query: "", want: nil},
		{query: "category=1", want: nil},
		{query: "category=1&document=10", want: &kb.NavigationIntent{CategoryID: 1, DocumentID: 10}},
		{query: "document=12&section=section-12-1", want: &kb.NavigationIntent{DocumentID: 12, Anchor: "section-12-1"}},
		{query: "document=0", wantErr: true},
		{query: "document=x", wantErr: true},
		{query: "document=10&category=-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			intent, err := parseIntent(httptest.NewRequest(http.MethodGet, "/docs?"+tt.query, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, intent)
		})
	}
}

func TestDocsURL_RoundTrip(t *testing.T) {
	intent := kb.NavigationIntent{CategoryID: 3, DocumentID: 30, Anchor: "section-30-2"}
	parsed, err := parseIntent(httptest.NewRequest(http.MethodGet, DocsURL(intent), nil))
	require.NoError(t, err)
	assert.Equal(t, &intent, parsed)
}

func TestRender_UnknownView(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestViews(t).Render(rec, http.StatusOK, "missing.html", &Page{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDashboard(t *testing.T) {
	dash, err := config.LoadDashboard("https://wp.example.com")
	require.NoError(t, err)
	h := NewDashboardHandler(dash, newTestViews(t))

	rec := httptest.NewRecorder()
	h.Dashboard(rec, signedIn(httptest.NewRequest(http.MethodGet, "/", nil), "s1"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "https://wp.example.com/wp-admin/admin.php?page=pgb-leave-request")
	assert.Contains(t, body, `href="/terms"`)
	assert.Contains(t, body, `action="/logout"`)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestTerms(t *testing.T) {
	h := NewTermsHandler(newTestPortal(sampleSource()), newTestViews(t), testLogger())

	serve := func(target string) string {
		rec := httptest.NewRecorder()
		h.Terms(rec, signedIn(httptest.NewRequest(http.MethodGet, target, nil), "s1"))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	t.Run("grid", func(t *testing.T) {
		body := serve("/terms")
		assert.Contains(t, body, `data-state="populated"`)
		assert.Contains(t, body, `data-category="1"`)
		assert.Contains(t, body, `data-category="2"`)
		assert.NotContains(t, body, "Top Results")
	})

	t.Run("dropdown deep-links into the section", func(t *testing.T) {
		body := serve("/terms?q=sick")
		assert.Contains(t, body, "Top Results")
		assert.Contains(t, body, "/docs?category=1&amp;document=10&amp;section=section-10-1")
		assert.Contains(t, body, "HR &rsaquo; Sick")
	})

	t.Run("no matches", func(t *testing.T) {
		body := serve("/terms?q=payroll")
		assert.Contains(t, body, `data-state="no_matches"`)
		assert.Contains(t, body, "No direct matches found")
	})

	t.Run("whitespace query is matched as typed", func(t *testing.T) {
		body := serve("/terms?q=%20")
		assert.Contains(t, body, "Top Results")
		assert.Equal(t, 2, strings.Count(body, `text-sm truncate">`))
		assert.NotContains(t, body, "No direct matches found")
	})

	t.Run("trailing space is part of the query", func(t *testing.T) {
		// "client." never has a space after it
		body := serve("/terms?q=client%20")
		assert.Contains(t, body, "No direct matches found")
		assert.Contains(t, body, `value="client "`)
		assert.Contains(t, body, `data-state="no_matches"`)
	})

	t.Run("fetch failure", func(t *testing.T) {
		failing := NewTermsHandler(newTestPortal(&stubSource{err: &domain.FetchError{Resource: "documents", Status: 500}}), newTestViews(t), testLogger())
		rec := httptest.NewRecorder()
		failing.Terms(rec, signedIn(httptest.NewRequest(http.MethodGet, "/terms", nil), "s1"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-state="error"`)
	})
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/anything/else", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
