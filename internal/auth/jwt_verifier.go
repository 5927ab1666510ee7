package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/metrics"
)

// JWKSVerifier implements TokenVerifier using a JWKS endpoint.
// Used when the WordPress site signs tokens asymmetrically and publishes its keys,
// which spares the route guard a round trip per request.
type JWKSVerifier struct {
	jwks    keyfunc.Keyfunc
	cancel  context.CancelFunc
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// Keys are cached and refreshed in the background until Close is called.
func NewJWKSVerifier(jwksURL string, m *metrics.Metrics, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWKS verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:    jwks,
		cancel:  cancel,
		metrics: m,
		logger:  logger,
	}, nil
}

var _ TokenVerifier = (*JWKSVerifier)(nil)

// VerifyToken validates signature, expiry and subject of a token.
func (v *JWKSVerifier) VerifyToken(ctx context.Context, tokenString string) (err error) {
	defer func() { v.metrics.ObserveValidation(err) }()

	if tokenString == "" {
		return &domain.AuthError{Reason: "token absent"}
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "ES256"}), jwt.WithExpirationRequired())

	token, err := parser.ParseWithClaims(tokenString, &models.WordPressClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return &domain.AuthError{Reason: "token rejected", Err: err}
	}
	if !token.Valid {
		return &domain.AuthError{Reason: "token invalid"}
	}

	claims, ok := token.Claims.(*models.WordPressClaims)
	if !ok || claims.GetUserID() == "" {
		v.logger.Debug("token missing user claim")
		return &domain.AuthError{Reason: "token missing user"}
	}
	return nil
}

// Close stops the background key refresh.
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWKS verifier closed")
	return nil
}
