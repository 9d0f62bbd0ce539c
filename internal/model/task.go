// Package model defines domain entities for the application.
package model

import "time"

// TaskStatus represents the computed status of a task.
type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task represents a tracked unit of work owned by a user.
// CompletedAt is set when Completed transitions false to true and
// cleared when it transitions back.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Status computes the current status of the task.
func (t *Task) Status() TaskStatus {
	if t.Completed {
		return TaskStatusCompleted
	}
	return TaskStatusInProgress
}

// TaskWithTracking is a task joined with its timer data.
// TotalTimeSpent sums the durations of closed time entries;
// ActiveTimerStart is the start of the open entry, if any.
type TaskWithTracking struct {
	Task
	TotalTimeSpent   int64      `json:"total_time_spent"`
	ActiveTimerStart *time.Time `json:"active_timer_start,omitempty"`
}

// IsRunning returns true if the task has an open time entry.
func (t *TaskWithTracking) IsRunning() bool {
	return t.ActiveTimerStart != nil
}
