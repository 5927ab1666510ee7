package handler

import (
	"net/http"

	"portal/internal/config"
	"portal/internal/httputil"
)

// DashboardHandler serves the landing dashboard
type DashboardHandler struct {
	dashboard *config.Dashboard
	views     *Views
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *config.Dashboard, views *Views) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, views: views}
}

// Dashboard renders the card view
// GET /{$}
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, viewDashboard, &Page{
		Title:    h.dashboard.Title,
		Nav:      "/",
		Identity: httputil.GetIdentity(r),
		Data:     h.dashboard,
	})
}
