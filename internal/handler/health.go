package handler

import (
	"net/http"

	"portal/internal/httputil"
	"portal/internal/middleware"
)

// HealthCheck reports that the process is serving
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound sends every unrecognized path to the login screen
// /
func NotFound(w http.ResponseWriter, r *http.Request) {
	if httputil.IsAPIRequest(r) {
		httputil.RespondError(w, r, http.StatusNotFound, "not found")
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}
