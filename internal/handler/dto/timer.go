package dto

import (
	"time"

	"github.com/focusflow/focusflow/internal/model"
)

// TimeEntryResponse represents a time entry in API responses.
type TimeEntryResponse struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"task_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  *int64     `json:"duration_seconds,omitempty"`
	Running   bool       `json:"running"`
}

// ActiveTimerResponse wraps the optional open entry for a task.
type ActiveTimerResponse struct {
	Active *TimeEntryResponse `json:"active"`
}

// ToTimeEntryResponse converts a TimeEntry model to its DTO.
func ToTimeEntryResponse(entry *model.TimeEntry) *TimeEntryResponse {
	return &TimeEntryResponse{
		ID:        entry.ID,
		TaskID:    entry.TaskID,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		Duration:  entry.Duration,
		Running:   entry.IsOpen(),
	}
}
