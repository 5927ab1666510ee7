package wordpress

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/domain"
	"portal/internal/metrics"
)

const categoriesJSON = `[
	{"id": 1, "name": "HR", "slug": "hr", "count": 1, "doc_category_order": 2},
	{"id": 2, "name": "IT", "slug": "it", "count": 1, "doc_category_order": "1"},
	{"id": 3, "name": "Misc", "doc_category_order": null, "menu_order": 7},
	{"id": 4, "name": "Odd", "order": "first"}
]`

const documentsJSON = `[
	{
		"id": 10,
		"slug": "leave-policy",
		"link": "https://wp.example.com/docs/leave-policy",
		"modified": "2024-03-01T10:00:00",
		"modified_gmt": "2024-03-01T09:00:00",
		"title": {"rendered": "Leave <em>Policy</em>"},
		"content": {"rendered": "<p>Annual leave.</p>"},
		"doc_category": [1]
	},
	{
		"id": 11,
		"title": {"rendered": "Orphan"},
		"content": {"rendered": ""}
	}
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(srv.URL, time.Second, metrics.NewMetrics(prometheus.NewRegistry()), logger)
}

func contentAPI(t *testing.T, categories, documents string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+categoriesPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, categories)
	})
	mux.HandleFunc("GET "+documentsPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, documents)
	})
	return mux
}

func TestFetchAll(t *testing.T) {
	client := newTestClient(t, contentAPI(t, categoriesJSON, documentsJSON))

	cats, docs, err := client.FetchAll(context.Background(), 100)
	require.NoError(t, err)

	require.Len(t, cats, 4)
	assert.Equal(t, 2, cats[0].Order, "numeric order")
	assert.Equal(t, 1, cats[1].Order, "numeric string order")
	assert.Equal(t, 7, cats[2].Order, "null falls back to menu_order")
	assert.Equal(t, 0, cats[3].Order, "non-numeric order")
	assert.Equal(t, "hr", cats[0].Slug)

	require.Len(t, docs, 2)
	assert.Equal(t, "Leave <em>Policy</em>", docs[0].Title)
	assert.Equal(t, "<p>Annual leave.</p>", docs[0].Body)
	assert.Equal(t, []int64{1}, docs[0].CategoryIDs)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), docs[0].LastModified)
	assert.Empty(t, docs[0].SearchableText, "indexing is not the client's job")

	assert.NotNil(t, docs[1].CategoryIDs)
	assert.Empty(t, docs[1].CategoryIDs)
	assert.True(t, docs[1].LastModified.IsZero())
}

func TestFetchDocuments_TruncatesToLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+documentsPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		_, _ = io.WriteString(w, documentsJSON)
	})
	client := newTestClient(t, mux)

	docs, err := client.FetchDocuments(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(10), docs[0].ID)
}

func TestFetchAll_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "database down", http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"not": "a list"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET "+categoriesPath, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, categoriesJSON)
			})
			mux.HandleFunc("GET "+documentsPath, tt.handler)
			client := newTestClient(t, mux)

			cats, docs, err := client.FetchAll(context.Background(), 100)
			require.Error(t, err)
			assert.Nil(t, cats)
			assert.Nil(t, docs)
			assert.ErrorIs(t, err, domain.ErrFetch)

			var fetchErr *domain.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, "documents", fetchErr.Resource)
			assert.Equal(t, tt.wantStatus, fetchErr.Status)
			assert.NotContains(t, err.Error(), "database down")
		})
	}
}

func TestFetchAll_FailureCancelsSibling(t *testing.T) {
	var cancelled atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+categoriesPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("GET "+documentsPath, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			cancelled.Store(true)
		case <-time.After(2 * time.Second):
		}
	})
	client := newTestClient(t, mux)

	start := time.Now()
	_, _, err := client.FetchAll(context.Background(), 100)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "categories", fetchErr.Resource)
	assert.Eventually(t, cancelled.Load, time.Second, 10*time.Millisecond)
}

func TestFetchAll_CallerCancellation(t *testing.T) {
	client := newTestClient(t, contentAPI(t, categoriesJSON, documentsJSON))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.FetchAll(ctx, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
