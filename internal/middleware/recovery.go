package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"portal/internal/httputil"
)

// Recovery middleware recovers from panics and returns a 500 error.
// API requests get a problem document; screens get a plain error page.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"stack", string(debug.Stack()),
					)

					if httputil.IsAPIRequest(r) {
						httputil.RespondError(w, r, http.StatusInternalServerError, "internal server error")
						return
					}
					http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
