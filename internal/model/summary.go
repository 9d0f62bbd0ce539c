// Package model defines domain entities for the application.
package model

// ActivityBucket is one calendar day of tracked time, labeled with a
// short weekday name ("Mon", "Tue", ...).
type ActivityBucket struct {
	Label   string `json:"label"`
	Seconds int64  `json:"seconds"`
}

// HourBucket is one hour-of-day of tracked time across all entries.
type HourBucket struct {
	Hour    int   `json:"hour"`
	Seconds int64 `json:"seconds"`
}

// DayBucket is one weekday of tracked time within the current week.
type DayBucket struct {
	Day     string `json:"day"`
	Seconds int64  `json:"seconds"`
}

// Summary is the dashboard aggregate for a single user.
// Activity always has exactly 7 buckets (trailing calendar days, oldest
// first) and Patterns exactly 24 (hour of day).
type Summary struct {
	TotalTasks        int64            `json:"totalTasks"`
	CompletedTasks    int64            `json:"completedTasks"`
	TotalToday        int64            `json:"totalToday"`
	CompletedToday    int64            `json:"completedToday"`
	TotalThisWeek     int64            `json:"totalThisWeek"`
	CompletedThisWeek int64            `json:"completedThisWeek"`
	TotalTimeSeconds  int64            `json:"totalTimeSeconds"`
	TodayTimeSeconds  int64            `json:"todayTimeSeconds"`
	WeekTimeSeconds   int64            `json:"weekTimeSeconds"`
	Activity          []ActivityBucket `json:"activity"`
	Patterns          []HourBucket     `json:"patterns"`
}

// TaskReport is the per-task time report.
type TaskReport struct {
	TaskID       string  `json:"taskId"`
	TotalSeconds int64   `json:"totalSeconds"`
	TotalMinutes int64   `json:"totalMinutes"`
	TotalHours   float64 `json:"totalHours"`
}
