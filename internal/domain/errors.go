package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrFetch        = errors.New("content fetch failed")

	// ErrInvalidCredentials is returned by the identity endpoint for any rejected login.
	// Its message is shown to the user verbatim, so it never carries upstream text.
	ErrInvalidCredentials = errors.New("Username and password do not match.")
)

// AuthError indicates the session token is absent, expired, or rejected.
// The guard clears the session and forces a new login.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error   { return e.Err }
func (e *AuthError) StatusCode() int { return http.StatusUnauthorized }

// Is allows errors.Is() to match against ErrUnauthorized
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// FetchError represents a failed retrieval from the content API.
// StatusCode is zero for transport errors.
type FetchError struct {
	Resource string // "categories" or "documents"
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Resource, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
	default:
		return fmt.Sprintf("fetch %s failed", e.Resource)
	}
}

func (e *FetchError) Unwrap() error   { return e.Err }
func (e *FetchError) StatusCode() int { return http.StatusBadGateway }

// Is allows errors.Is() to match against ErrFetch
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// ValidationError indicates invalid input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError indicates a resource was not found
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string   { return e.Message }
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
