package httputil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// maxFormBytes bounds url-encoded form bodies
const maxFormBytes = 64 << 10

// ParseForm parses a url-encoded form body.
// It limits the request body size to prevent abuse.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}

// PathID parses a positive integer path parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, r.PathValue(name))
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter.
// Returns defaultValue when the parameter is absent.
func QueryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

// IsAPIRequest reports whether the request targets the JSON API.
func IsAPIRequest(r *http.Request) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}
