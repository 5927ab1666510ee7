package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/domain/models/kb"
	"portal/internal/domain/services"
	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/httputil"
)

// DocsHandler serves the documentation screen. Every request reloads the
// content, replays the screen's actions through the navigation reducer and
// saves the resulting selection in the session.
type DocsHandler struct {
	portal   kbSvc.PortalService
	sessions services.SessionService
	views    *Views
	logger   *slog.Logger
}

// NewDocsHandler creates a new docs handler
func NewDocsHandler(portal kbSvc.PortalService, sessions services.SessionService, views *Views, logger *slog.Logger) *DocsHandler {
	return &DocsHandler{
		portal:   portal,
		sessions: sessions,
		views:    views,
		logger:   logger,
	}
}

// Mount opens the screen fresh, applying the intent carried in the query string
// GET /docs
func (h *DocsHandler) Mount(w http.ResponseWriter, r *http.Request) {
	intent, err := parseIntent(r)
	if err != nil {
		// A broken deep link still opens the screen with its default selection
		h.logger.Debug("ignoring navigation intent", "error", err)
		intent = nil
	}

	actions := []kb.Action{kb.Arrived{Intent: intent}}
	if q := r.URL.Query(); q.Has("q") {
		actions = append(actions, kb.SearchChanged{Query: q.Get("q")})
	}
	h.run(w, r, kb.NewNavState(), actions...)
}

// Search narrows the sidebar without touching the selection
// GET /docs/search
func (h *DocsHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.resume(w, r, kb.SearchChanged{Query: r.URL.Query().Get("q")})
}

// CategoryClick toggles a category in the sidebar
// GET /docs/categories/{id}
func (h *DocsHandler) CategoryClick(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/docs", http.StatusFound)
		return
	}
	h.resume(w, r, kb.CategoryClicked{ID: id})
}

// DocumentClick opens a document
// GET /docs/documents/{id}
func (h *DocsHandler) DocumentClick(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/docs", http.StatusFound)
		return
	}
	h.resume(w, r, kb.DocumentClicked{ID: id})
}

// resume applies a user action to the selection saved by the previous request.
func (h *DocsHandler) resume(w http.ResponseWriter, r *http.Request, action kb.Action) {
	prev, err := h.sessions.LoadNavigation(r.Context(), httputil.GetSessionID(r))
	if err != nil {
		h.logger.Error("failed to load navigation state", "error", err)
		prev = kb.NewNavState()
	}
	if prev.ActiveDocumentID == nil && len(prev.Seen) == 0 {
		// Nothing saved yet: behave like a fresh mount first
		h.run(w, r, prev, kb.Arrived{}, action)
		return
	}
	h.run(w, r, prev, action)
}

func (h *DocsHandler) run(w http.ResponseWriter, r *http.Request, prev kb.NavState, actions ...kb.Action) {
	page := &Page{
		Title:    "Documentation",
		Nav:      "/terms",
		Identity: httputil.GetIdentity(r),
	}

	view, err := h.portal.Documentation(r.Context(), prev, actions...)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		h.logger.Error("documentation screen failed", "error", err)
		page.Error = screenMessage(err)
		page.Data = &kbSvc.DocumentationView{State: kb.NewNavState()}
		h.views.Render(w, http.StatusInternalServerError, viewDocs, page)
		return
	}

	if view.LoadError != nil {
		page.Error = screenMessage(view.LoadError)
	} else if err := h.sessions.SaveNavigation(r.Context(), httputil.GetSessionID(r), view.State); err != nil {
		h.logger.Error("failed to save navigation state", "error", err)
	}

	page.Data = view
	h.views.Render(w, http.StatusOK, viewDocs, page)
}
