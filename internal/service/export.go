package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/focusflow/focusflow/internal/model"
)

// csvHeader is the column layout consumed by spreadsheet tooling.
var csvHeader = []string{
	"Task ID",
	"Title",
	"Description",
	"Status",
	"Total Time Spent",
	"Currently Running",
	"Created At",
	"Completed At",
}

// ExportCSV writes the user's enriched task list as CSV. Durations are
// rendered HH:MM:SS; timestamps RFC 3339.
func (s *TaskService) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	tasks, err := s.repo.ListTasksWithTracking(ctx, userID)
	if err != nil {
		return fmt.Errorf("list tasks for export: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, task := range tasks {
		if err := cw.Write(csvRow(task)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// csvRow renders one task as a CSV record.
func csvRow(task *model.TaskWithTracking) []string {
	status := "In Progress"
	if task.Completed {
		status = "Completed"
	}

	running := "No"
	if task.IsRunning() {
		running = "Yes"
	}

	completedAt := ""
	if task.CompletedAt != nil {
		completedAt = task.CompletedAt.Format(timeFormat)
	}

	return []string{
		task.ID,
		task.Title,
		task.Description,
		status,
		FormatSeconds(task.TotalTimeSpent),
		running,
		task.CreatedAt.Format(timeFormat),
		completedAt,
	}
}

// timeFormat is the timestamp layout used in exports.
const timeFormat = "2006-01-02T15:04:05Z07:00"

// FormatSeconds renders a second count as HH:MM:SS.
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
