package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portal/internal/domain"
	"portal/internal/domain/models"
)

// checkExpiry rejects tokens whose exp claim has passed, without checking the
// signature. Tokens that are not parseable JWTs are left to the remote check.
func checkExpiry(token string, now time.Time) error {
	claims := &models.WordPressClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return &domain.AuthError{Reason: "token expired"}
	}
	return nil
}
