// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Task management metrics
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskDeleted()

	// Timer metrics
	IncTimerStarted()
	IncTimerStopped()
	IncTimerRejected(reason string) // reason: "already_running" or "not_running"

	// Dashboard metrics
	IncSummaryCacheHit()
	IncSummaryCacheMiss()
	ObserveSummaryDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TasksCreated int64
	TasksUpdated int64
	TasksDeleted int64

	TimersStarted             int64
	TimersStopped             int64
	TimersRejectedRunning     int64
	TimersRejectedNotRunning  int64

	SummaryCacheHits        int64
	SummaryCacheMisses      int64
	SummaryDurationCount    int64
	SummaryDurationTotalNs  int64
}
