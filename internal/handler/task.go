package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/handler/dto"
	"github.com/focusflow/focusflow/internal/service"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	userID := auth.UserIDFromContext(r.Context())

	task, err := h.svc.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_created",
		"task_id", task.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// List handles GET /api/v1/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	tasks, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(tasks))
}

// Get handles GET /api/v1/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	task, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// Update handles PATCH /api/v1/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	userID := auth.UserIDFromContext(r.Context())

	input := service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	task, err := h.svc.Update(r.Context(), userID, id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_updated",
		"task_id", task.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// ToggleComplete handles POST /api/v1/tasks/{id}/complete.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	task, err := h.svc.ToggleComplete(r.Context(), userID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_completion_toggled",
		"task_id", task.ID,
		"user_id", userID,
		"completed", task.Completed,
	)

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// Delete handles DELETE /api/v1/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_deleted", "task_id", id, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/v1/tasks/export. Streams the user's tasks
// with tracked time as a CSV attachment.
func (h *TaskHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.csv"`)

	if err := h.svc.ExportCSV(r.Context(), userID, w); err != nil {
		// The header may already be out; log and give up on the body.
		h.logger.Error("csv_export_failed", "error", err, "user_id", userID)
	}
}

// handleServiceError maps service errors to HTTP responses.
func (h *TaskHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Task title is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
