package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"portal/internal/domain"
	"portal/internal/httputil"
)

// handleError converts domain errors to problem documents for r
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var fetchErr *domain.FetchError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, r, http.StatusUnauthorized, "unauthorized")
	case errors.As(err, &fetchErr):
		logger.Warn("content API unavailable", "resource", fetchErr.Resource, "error", err)
		problem := httputil.NewProblem(r, http.StatusBadGateway, "content is temporarily unavailable")
		problem.Resource = fetchErr.Resource
		httputil.RespondProblem(w, problem)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is listening
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// screenMessage is the human-readable text a screen shows for err.
// Upstream detail is never shown.
func screenMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrFetch):
		return "We couldn't load the knowledge base right now. Please try again in a moment."
	case errors.Is(err, domain.ErrValidation):
		return "That search is too long. Please shorten it and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
