package handler

import (
	"log/slog"
	"net/http"

	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/httputil"
)

// TermsHandler serves the category grid with its live search dropdown
type TermsHandler struct {
	portal kbSvc.PortalService
	views  *Views
	logger *slog.Logger
}

// NewTermsHandler creates a new terms handler
func NewTermsHandler(portal kbSvc.PortalService, views *Views, logger *slog.Logger) *TermsHandler {
	return &TermsHandler{portal: portal, views: views, logger: logger}
}

// Terms renders the landing screen for the q query parameter
// GET /terms
func (h *TermsHandler) Terms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page := &Page{
		Title:    "Terms & Policies",
		Nav:      "/terms",
		Identity: httputil.GetIdentity(r),
	}

	view, err := h.portal.Landing(r.Context(), query)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		h.logger.Warn("terms landing unavailable", "error", err)
		page.Error = screenMessage(err)
		page.Data = &kbSvc.LandingView{Query: query}
		h.views.Render(w, http.StatusOK, viewTerms, page)
		return
	}

	page.Data = view
	h.views.Render(w, http.StatusOK, viewTerms, page)
}
