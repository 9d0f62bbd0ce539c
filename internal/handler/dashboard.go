package handler

import (
	"log/slog"
	"net/http"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/service"
)

// DashboardHandler handles HTTP requests for dashboard aggregates.
type DashboardHandler struct {
	svc    *service.StatsService
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.StatsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		svc:    svc,
		logger: logger,
	}
}

// Summary handles GET /api/v1/dashboard/summary.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Weekly handles GET /api/v1/dashboard/weekly.
func (h *DashboardHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	buckets, err := h.svc.WeeklyReport(r.Context(), userID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": buckets})
}
