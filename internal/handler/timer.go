package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/handler/dto"
	"github.com/focusflow/focusflow/internal/service"
)

// TimerHandler handles HTTP requests for per-task timers.
type TimerHandler struct {
	svc    *service.TimerService
	logger *slog.Logger
}

// NewTimerHandler creates a new TimerHandler.
func NewTimerHandler(svc *service.TimerService, logger *slog.Logger) *TimerHandler {
	return &TimerHandler{
		svc:    svc,
		logger: logger,
	}
}

// Start handles POST /api/v1/tasks/{id}/timer/start.
func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	entry, err := h.svc.Start(r.Context(), userID, taskID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("timer_started",
		"task_id", taskID,
		"user_id", userID,
		"entry_id", entry.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToTimeEntryResponse(entry))
}

// Stop handles POST /api/v1/tasks/{id}/timer/stop.
func (h *TimerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	entry, err := h.svc.Stop(r.Context(), userID, taskID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("timer_stopped",
		"task_id", taskID,
		"user_id", userID,
		"entry_id", entry.ID,
		"duration_seconds", entry.Duration,
	)

	writeJSON(w, http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// Active handles GET /api/v1/tasks/{id}/timer. An idle task yields a
// null active entry, not an error.
func (h *TimerHandler) Active(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	entry, err := h.svc.Active(r.Context(), userID, taskID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response := dto.ActiveTimerResponse{}
	if entry != nil {
		response.Active = dto.ToTimeEntryResponse(entry)
	}

	writeJSON(w, http.StatusOK, response)
}

// Report handles GET /api/v1/tasks/{id}/timer/report.
func (h *TimerHandler) Report(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	report, err := h.svc.Report(r.Context(), userID, taskID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleServiceError maps service errors to HTTP responses.
func (h *TimerHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	case errors.Is(err, service.ErrTaskIDRequired):
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Task ID is required")
	case errors.Is(err, service.ErrTimerRunning):
		writeError(w, http.StatusConflict, "TIMER_ALREADY_RUNNING", "A timer is already running for this task")
	case errors.Is(err, service.ErrTimerNotRunning):
		writeError(w, http.StatusConflict, "TIMER_NOT_RUNNING", "No timer is running for this task")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
