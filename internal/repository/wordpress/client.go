package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"portal/internal/domain"
	"portal/internal/domain/models/kb"
	"portal/internal/domain/repositories"
	"portal/internal/metrics"
)

const (
	// DefaultTimeout is the default HTTP timeout for content API requests
	DefaultTimeout = 15 * time.Second

	categoriesPath = "/wp-json/wp/v2/doc_category"
	documentsPath  = "/wp-json/wp/v2/docs"

	// maxResponseBytes bounds a single listing response
	maxResponseBytes = 32 << 20
)

// Client reads categories and documents from the WordPress REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewClient creates a content API client for the WordPress site at baseURL.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
		logger:     logger,
	}
}

var _ repositories.ContentSource = (*Client)(nil)

// FetchAll issues both listing requests concurrently and waits for both.
// The first failure cancels the other request.
func (c *Client) FetchAll(ctx context.Context, limit int) ([]kb.Category, []kb.Document, error) {
	var (
		categories []kb.Category
		documents  []kb.Document
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = c.FetchCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = c.FetchDocuments(gctx, limit)
		return err
	})

	if err := g.Wait(); err != nil {
		c.logger.Warn("content fetch failed", "error", err)
		return nil, nil, err
	}

	c.logger.Debug("content fetched",
		"category_count", len(categories),
		"document_count", len(documents),
	)
	return categories, documents, nil
}

// FetchCategories lists every documentation category.
func (c *Client) FetchCategories(ctx context.Context) ([]kb.Category, error) {
	query := url.Values{"per_page": {"100"}}

	var records []categoryResponse
	if err := c.getJSON(ctx, "categories", categoriesPath, query, &records); err != nil {
		return nil, err
	}

	categories := make([]kb.Category, len(records))
	for i, r := range records {
		categories[i] = r.toModel()
	}
	return categories, nil
}

// FetchDocuments lists at most limit documents in API order.
func (c *Client) FetchDocuments(ctx context.Context, limit int) ([]kb.Document, error) {
	query := url.Values{"per_page": {strconv.Itoa(limit)}}

	var records []documentResponse
	if err := c.getJSON(ctx, "documents", documentsPath, query, &records); err != nil {
		return nil, err
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	documents := make([]kb.Document, len(records))
	for i, r := range records {
		documents[i] = r.toModel()
	}
	return documents, nil
}

// getJSON performs a GET and decodes the JSON body into dest.
// Every failure is reported as a *domain.FetchError for resource.
func (c *Client) getJSON(ctx context.Context, resource, path string, query url.Values, dest any) (err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveFetch(resource, time.Since(start), err) }()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &domain.FetchError{Resource: resource, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.FetchError{Resource: resource, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Upstream bodies are never shown to users
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return &domain.FetchError{Resource: resource, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dest); err != nil {
		return &domain.FetchError{Resource: resource, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
