package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/focusflow/focusflow/internal/model"
)

// ErrTaskNotFound is returned when a task does not exist under the
// caller's scope. A task owned by another user is indistinguishable
// from a missing one.
var ErrTaskNotFound = errors.New("task not found")

// CreateTask inserts a new task into the database.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, description, completed, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTask retrieves a task scoped by (id, user_id) jointly.
func (r *Repository) GetTask(ctx context.Context, userID, taskID string) (*model.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, completed_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := r.scanTask(r.pool.QueryRow(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListTasksWithTracking retrieves all tasks for a user joined with their
// timer data: the summed duration of closed entries and the start time of
// the open entry, if any.
func (r *Repository) ListTasksWithTracking(ctx context.Context, userID string) ([]*model.TaskWithTracking, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.completed, t.created_at, t.completed_at,
		       COALESCE(SUM(e.duration_seconds) FILTER (WHERE e.duration_seconds IS NOT NULL), 0),
		       MAX(e.start_time) FILTER (WHERE e.end_time IS NULL)
		FROM tasks t
		LEFT JOIN time_entries e ON e.task_id = t.id
		WHERE t.user_id = $1
		GROUP BY t.id
		ORDER BY t.created_at DESC, t.id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks with tracking: %w", err)
	}
	defer rows.Close()

	var tasks []*model.TaskWithTracking
	for rows.Next() {
		var t model.TaskWithTracking
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Title,
			&t.Description,
			&t.Completed,
			&t.CreatedAt,
			&t.CompletedAt,
			&t.TotalTimeSpent,
			&t.ActiveTimerStart,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task with tracking: %w", err)
		}
		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks with tracking: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates a task's mutable fields, scoped by (id, user_id).
func (r *Repository) UpdateTask(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, completed_at = $6
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask removes a task scoped by (id, user_id). Time entries are
// removed by the foreign key cascade, including an open one.
func (r *Repository) DeleteTask(ctx context.Context, userID, taskID string) error {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// TaskExists reports whether a task resolves under the user's scope.
func (r *Repository) TaskExists(ctx context.Context, userID, taskID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1 AND user_id = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, taskID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check task existence: %w", err)
	}

	return exists, nil
}

// scanTask scans a single row into a Task model.
func (r *Repository) scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.CompletedAt,
	)
	return &task, err
}

