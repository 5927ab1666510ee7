package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portal/internal/domain/models/kb"
	kbSvc "portal/internal/domain/services/kb"
	"portal/internal/httputil"
)

// CatalogResponse is the catalog as exposed to API clients. Bodies are
// served one document at a time by GET /api/documents/{id}.
type CatalogResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Documents  []DocumentSummary  `json:"documents"`
}

// CategoryResponse is a category with the IDs of its documents in display order.
type CategoryResponse struct {
	kb.Category
	DocumentIDs []int64 `json:"document_ids"`
}

// DocumentSummary is a document without its body.
type DocumentSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	CategoryIDs  []int64   `json:"category_ids"`
	LastModified time.Time `json:"last_modified"`
	Link         string    `json:"link,omitempty"`
}

// APIHandler serves the JSON API
type APIHandler struct {
	portal kbSvc.PortalService
	logger *slog.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(portal kbSvc.PortalService, logger *slog.Logger) *APIHandler {
	return &APIHandler{portal: portal, logger: logger}
}

// GetCatalog returns the sorted categories and the document list
// GET /api/catalog
func (h *APIHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.portal.LoadCatalog(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	resp := CatalogResponse{
		Categories: make([]CategoryResponse, 0, len(catalog.Categories)),
		Documents:  make([]DocumentSummary, 0, len(catalog.Documents)),
	}
	for _, cat := range catalog.Categories {
		ids := make([]int64, 0, len(catalog.Groups[cat.ID]))
		for _, doc := range catalog.Groups[cat.ID] {
			ids = append(ids, doc.ID)
		}
		resp.Categories = append(resp.Categories, CategoryResponse{Category: cat, DocumentIDs: ids})
	}
	for _, doc := range catalog.Documents {
		resp.Documents = append(resp.Documents, DocumentSummary{
			ID:           doc.ID,
			Title:        doc.Title,
			CategoryIDs:  doc.CategoryIDs,
			LastModified: doc.LastModified,
			Link:         doc.Link,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Search answers a preview or full query
// GET /api/search?q=&mode=preview|full&limit=
func (h *APIHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		httputil.RespondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req := &kbSvc.SearchRequest{
		Query: r.URL.Query().Get("q"),
		Mode:  kbSvc.SearchMode(strings.ToLower(r.URL.Query().Get("mode"))),
		Limit: limit,
	}

	results, err := h.portal.Search(r.Context(), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}

// GetDocument returns one document in the requested format
// GET /api/documents/{id}?format=html|markdown|text
func (h *APIHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req := &kbSvc.GetDocumentRequest{
		ID:     id,
		Format: strings.ToLower(r.URL.Query().Get("format")),
	}

	doc, err := h.portal.GetDocument(r.Context(), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}
