package httputil

import (
	"encoding/json"
	"net/http"
)

// Problem types the portal answers with. Relative URIs resolve against the
// portal's own origin; unlisted statuses use about:blank.
const (
	ProblemBadRequest         = "/problems/bad-request"
	ProblemUnauthorized       = "/problems/session-expired"
	ProblemNotFound           = "/problems/not-found"
	ProblemContentUnavailable = "/problems/content-unavailable"
	ProblemInternal           = "/problems/internal"
)

// Problem is an RFC 7807 problem document.
// Resource and Login are extension members of the portal's problem types.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Resource names the content listing that could not be fetched (502 only).
	Resource string `json:"resource,omitempty"`
	// Login is where a client sends the user to sign in again (401 only).
	Login string `json:"login,omitempty"`
}

// NewProblem describes a failure of r with the given status.
// Instance is the request path; r may be nil when no request is at hand.
func NewProblem(r *http.Request, status int, detail string) *Problem {
	p := &Problem{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	if r != nil {
		p.Instance = r.URL.Path
	}
	return p
}

// RespondJSON marshals data before writing anything, so an encoding failure
// still produces a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondProblem(w, NewProblem(nil, http.StatusInternalServerError, "failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondError answers r with a problem document for status.
func RespondError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	RespondProblem(w, NewProblem(r, status, detail))
}

// RespondProblem writes p as application/problem+json.
func RespondProblem(w http.ResponseWriter, p *Problem) {
	payload, err := json.Marshal(p)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	w.Write(payload)
}

func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ProblemBadRequest
	case http.StatusUnauthorized:
		return ProblemUnauthorized
	case http.StatusNotFound:
		return ProblemNotFound
	case http.StatusBadGateway:
		return ProblemContentUnavailable
	case http.StatusInternalServerError:
		return ProblemInternal
	default:
		return "about:blank"
	}
}
