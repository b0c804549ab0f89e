package handler

import (
	"net/http"

	"github.com/sakif/lms-admin/internal/service"
)

// DashboardHandler serves the per-institution summary counts.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler returns a handler over the dashboard service.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// HTTP: GET /api/dashboard
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	counts, err := h.dashboard.Summary(r.Context(), claims.InstitutionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, counts)
}
