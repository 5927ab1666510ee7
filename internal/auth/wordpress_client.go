package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/metrics"
)

const (
	tokenPath    = "/wp-json/jwt-auth/v1/token"
	validatePath = "/wp-json/jwt-auth/v1/token/validate"
)

// WordPressClient talks to the jwt-auth plugin of the WordPress site.
// It issues tokens on login and validates them for the route guard.
type WordPressClient struct {
	baseURL    string
	httpClient *http.Client
	clock      func() time.Time
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewWordPressClient creates an identity client for the site at baseURL.
func NewWordPressClient(baseURL string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *WordPressClient {
	return &WordPressClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		clock:      time.Now,
		metrics:    m,
		logger:     logger,
	}
}

var (
	_ IdentityProvider = (*WordPressClient)(nil)
	_ TokenVerifier    = (*WordPressClient)(nil)
)

// loginRequest is the payload for POST /jwt-auth/v1/token
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the success body of POST /jwt-auth/v1/token
type loginResponse struct {
	Token           string    `json:"token"`
	UserEmail       string    `json:"user_email"`
	UserNicename    string    `json:"user_nicename"`
	UserDisplayName string    `json:"user_display_name"`
	UserRole        roleField `json:"user_role"`
}

// Login exchanges credentials for a token.
func (c *WordPressClient) Login(ctx context.Context, username, password string) (identity *models.Identity, err error) {
	defer func() { c.metrics.ObserveLogin(err) }()

	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The plugin's message contains HTML; it is logged, never displayed
		c.logger.Info("login rejected", "status", resp.StatusCode, "username", username)
		return nil, domain.ErrInvalidCredentials
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if lr.Token == "" {
		c.logger.Warn("login response carried no token", "username", username)
		return nil, domain.ErrInvalidCredentials
	}

	displayName := lr.UserDisplayName
	if displayName == "" {
		displayName = lr.UserNicename
	}

	return &models.Identity{
		Token:       lr.Token,
		DisplayName: displayName,
		Email:       lr.UserEmail,
		Roles:       []string(lr.UserRole),
	}, nil
}

// VerifyToken checks expiry locally, then asks the validation endpoint.
func (c *WordPressClient) VerifyToken(ctx context.Context, token string) (err error) {
	defer func() { c.metrics.ObserveValidation(err) }()

	if token == "" {
		return &domain.AuthError{Reason: "token absent"}
	}
	if err := checkExpiry(token, c.clock()); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+validatePath, nil)
	if err != nil {
		return fmt.Errorf("failed to create validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("validate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return &domain.AuthError{Reason: fmt.Sprintf("rejected with status %d", resp.StatusCode)}
	}
	return nil
}

// Close is a no-op; the HTTP client holds no resources worth releasing.
func (c *WordPressClient) Close() error {
	return nil
}

// roleField accepts user_role as either a list or a single string.
type roleField []string

func (r *roleField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*r = []string{single}
		}
		return nil
	}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	return errors.New("user_role must be a string or a list of strings")
}
