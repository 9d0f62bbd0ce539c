package dto

import (
	"time"

	"github.com/focusflow/focusflow/internal/model"
)

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TrackedTaskResponse is a task enriched with timer data.
type TrackedTaskResponse struct {
	TaskResponse
	TotalTimeSpent   int64      `json:"total_time_spent"`
	IsRunning        bool       `json:"is_running"`
	ActiveTimerStart *time.Time `json:"active_timer_start,omitempty"`
}

// TaskListResponse represents the task collection.
type TaskListResponse struct {
	Data []TrackedTaskResponse `json:"data"`
}

// ToTaskResponse converts a Task model to TaskResponse DTO.
func ToTaskResponse(task *model.Task) *TaskResponse {
	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Status:      string(task.Status()),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// ToTrackedTaskResponse converts a TaskWithTracking model to its DTO.
func ToTrackedTaskResponse(task *model.TaskWithTracking) *TrackedTaskResponse {
	return &TrackedTaskResponse{
		TaskResponse:     *ToTaskResponse(&task.Task),
		TotalTimeSpent:   task.TotalTimeSpent,
		IsRunning:        task.IsRunning(),
		ActiveTimerStart: task.ActiveTimerStart,
	}
}

// ToTaskListResponse converts a slice of TaskWithTracking models.
func ToTaskListResponse(tasks []*model.TaskWithTracking) *TaskListResponse {
	responses := make([]TrackedTaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *ToTrackedTaskResponse(task)
	}
	return &TaskListResponse{Data: responses}
}
