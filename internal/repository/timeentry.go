package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/focusflow/focusflow/internal/model"
)

// Common errors for time entry repository operations.
var (
	// ErrEntryOpen is returned when starting a timer on a task that
	// already has an open entry.
	ErrEntryOpen = errors.New("task already has an open time entry")
	// ErrNoOpenEntry is returned when stopping a timer on a task with
	// no open entry.
	ErrNoOpenEntry = errors.New("task has no open time entry")
)

// InsertOpenEntry creates an open time entry for a task if and only if no
// open entry exists. The conditional insert and the partial unique index on
// (task_id) WHERE end_time IS NULL together make the check-then-create
// atomic under concurrent requests: one caller wins, the rest observe
// ErrEntryOpen.
func (r *Repository) InsertOpenEntry(ctx context.Context, entry *model.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, task_id, start_time)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (
			SELECT 1 FROM time_entries
			WHERE task_id = $2 AND end_time IS NULL
		)
	`

	result, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.TaskID,
		entry.StartTime,
	)

	if err != nil {
		// Lost the race to the unique index rather than the NOT EXISTS check.
		if isUniqueViolation(err) {
			return ErrEntryOpen
		}
		return fmt.Errorf("failed to insert time entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryOpen
	}

	return nil
}

// CloseOpenEntry closes the open entry for a task, stamping the end time
// and the whole-second duration in a single conditional update. Returns
// the closed entry, or ErrNoOpenEntry if the task is idle.
func (r *Repository) CloseOpenEntry(ctx context.Context, taskID string, endTime time.Time) (*model.TimeEntry, error) {
	query := `
		UPDATE time_entries
		SET end_time = $2,
		    duration_seconds = FLOOR(EXTRACT(EPOCH FROM ($2::timestamptz - start_time)))::bigint
		WHERE task_id = $1 AND end_time IS NULL
		RETURNING id, task_id, start_time, end_time, duration_seconds
	`

	entry, err := r.scanEntry(r.pool.QueryRow(ctx, query, taskID, endTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoOpenEntry
		}
		return nil, fmt.Errorf("failed to close time entry: %w", err)
	}

	return entry, nil
}

// GetOpenEntry retrieves the open entry for a task, if one exists.
// Returns ErrNoOpenEntry when the task is idle.
func (r *Repository) GetOpenEntry(ctx context.Context, taskID string) (*model.TimeEntry, error) {
	query := `
		SELECT id, task_id, start_time, end_time, duration_seconds
		FROM time_entries
		WHERE task_id = $1 AND end_time IS NULL
	`

	entry, err := r.scanEntry(r.pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoOpenEntry
		}
		return nil, fmt.Errorf("failed to get open time entry: %w", err)
	}

	return entry, nil
}

// SumTaskDurations sums the closed-entry durations for a single task.
func (r *Repository) SumTaskDurations(ctx context.Context, taskID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(duration_seconds), 0)
		FROM time_entries
		WHERE task_id = $1 AND duration_seconds IS NOT NULL
	`

	var total int64
	if err := r.pool.QueryRow(ctx, query, taskID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum task durations: %w", err)
	}

	return total, nil
}

// SumUserDurations sums the closed-entry durations across all of a user's
// tasks. Open entries have no duration and are excluded.
func (r *Repository) SumUserDurations(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(e.duration_seconds), 0)
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		WHERE t.user_id = $1 AND e.duration_seconds IS NOT NULL
	`

	var total int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum user durations: %w", err)
	}

	return total, nil
}

// EntrySum is a (start, duration) pair for aggregation bucketing.
type EntrySum struct {
	StartTime time.Time
	Duration  int64
}

// ListClosedEntrySums returns (start, duration) pairs for a user's closed
// entries, optionally restricted to entries starting at or after since.
func (r *Repository) ListClosedEntrySums(ctx context.Context, userID string, since *time.Time) ([]EntrySum, error) {
	query := `
		SELECT e.start_time, e.duration_seconds
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		WHERE t.user_id = $1 AND e.duration_seconds IS NOT NULL
	`
	args := []any{userID}

	if since != nil {
		query += ` AND e.start_time >= $2`
		args = append(args, *since)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry sums: %w", err)
	}
	defer rows.Close()

	var sums []EntrySum
	for rows.Next() {
		var s EntrySum
		if err := rows.Scan(&s.StartTime, &s.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan entry sum: %w", err)
		}
		sums = append(sums, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry sums: %w", err)
	}

	return sums, nil
}

// TaskCounts holds the user-level task counters for the dashboard.
type TaskCounts struct {
	Total             int64
	Completed         int64
	TotalToday        int64
	CompletedToday    int64
	TotalThisWeek     int64
	CompletedThisWeek int64
}

// CountTasks computes the dashboard task counters in one round trip.
// "Today" and "this week" count tasks created or completed within the
// window starting at dayStart / weekStart respectively.
func (r *Repository) CountTasks(ctx context.Context, userID string, dayStart, weekStart time.Time) (*TaskCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE completed),
			COUNT(*) FILTER (WHERE created_at >= $2 OR completed_at >= $2),
			COUNT(*) FILTER (WHERE completed AND completed_at >= $2),
			COUNT(*) FILTER (WHERE created_at >= $3 OR completed_at >= $3),
			COUNT(*) FILTER (WHERE completed AND completed_at >= $3)
		FROM tasks
		WHERE user_id = $1
	`

	var counts TaskCounts
	err := r.pool.QueryRow(ctx, query, userID, dayStart, weekStart).Scan(
		&counts.Total,
		&counts.Completed,
		&counts.TotalToday,
		&counts.CompletedToday,
		&counts.TotalThisWeek,
		&counts.CompletedThisWeek,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &counts, nil
}

// scanEntry scans a single row into a TimeEntry model.
func (r *Repository) scanEntry(row pgx.Row) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := row.Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Duration,
	)
	return &entry, err
}
