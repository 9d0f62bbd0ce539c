// Package model defines domain entities for the application.
package model

import "time"

// TimeEntry represents a single time-tracking session for a task.
// An entry with a nil EndTime is open: the task's timer is running.
// Duration is non-nil exactly when EndTime is non-nil and holds
// floor(EndTime - StartTime) in whole seconds.
type TimeEntry struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"task_id"`
	StartTime time.Time  `json:"start"`
	EndTime   *time.Time `json:"end,omitempty"`
	Duration  *int64     `json:"duration,omitempty"`
}

// IsOpen returns true if the entry represents a running timer.
func (e *TimeEntry) IsOpen() bool {
	return e.EndTime == nil
}

// Elapsed returns the entry's duration, falling back to the wall-clock
// delta against now for an open entry.
func (e *TimeEntry) Elapsed(now time.Time) time.Duration {
	if e.Duration != nil {
		return time.Duration(*e.Duration) * time.Second
	}
	return now.Sub(e.StartTime)
}

// DurationBetween computes the stored duration for a closed entry:
// the wall-clock delta in whole seconds, truncated toward zero.
func DurationBetween(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Second)
}
