package metrics

import (
	"sync/atomic"
	"time"
)

// InMemoryRecorder implements Recorder with atomic in-memory counters.
// Suitable for a single process; exposed via the /metrics endpoint.
type InMemoryRecorder struct {
	tasksCreated int64
	tasksUpdated int64
	tasksDeleted int64

	timersStarted            int64
	timersStopped            int64
	timersRejectedRunning    int64
	timersRejectedNotRunning int64

	summaryCacheHits       int64
	summaryCacheMisses     int64
	summaryDurationCount   int64
	summaryDurationTotalNs int64
}

// NewInMemory returns a Recorder backed by atomic counters.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// IncTaskCreated increments the created-task counter.
func (m *InMemoryRecorder) IncTaskCreated() { atomic.AddInt64(&m.tasksCreated, 1) }

// IncTaskUpdated increments the updated-task counter.
func (m *InMemoryRecorder) IncTaskUpdated() { atomic.AddInt64(&m.tasksUpdated, 1) }

// IncTaskDeleted increments the deleted-task counter.
func (m *InMemoryRecorder) IncTaskDeleted() { atomic.AddInt64(&m.tasksDeleted, 1) }

// IncTimerStarted increments the started-timer counter.
func (m *InMemoryRecorder) IncTimerStarted() { atomic.AddInt64(&m.timersStarted, 1) }

// IncTimerStopped increments the stopped-timer counter.
func (m *InMemoryRecorder) IncTimerStopped() { atomic.AddInt64(&m.timersStopped, 1) }

// IncTimerRejected increments the rejection counter for the given reason.
func (m *InMemoryRecorder) IncTimerRejected(reason string) {
	switch reason {
	case "already_running":
		atomic.AddInt64(&m.timersRejectedRunning, 1)
	case "not_running":
		atomic.AddInt64(&m.timersRejectedNotRunning, 1)
	}
}

// IncSummaryCacheHit increments the summary cache hit counter.
func (m *InMemoryRecorder) IncSummaryCacheHit() { atomic.AddInt64(&m.summaryCacheHits, 1) }

// IncSummaryCacheMiss increments the summary cache miss counter.
func (m *InMemoryRecorder) IncSummaryCacheMiss() { atomic.AddInt64(&m.summaryCacheMisses, 1) }

// ObserveSummaryDuration records one summary computation duration.
func (m *InMemoryRecorder) ObserveSummaryDuration(duration time.Duration) {
	atomic.AddInt64(&m.summaryDurationCount, 1)
	atomic.AddInt64(&m.summaryDurationTotalNs, duration.Nanoseconds())
}

// Snapshot returns a point-in-time copy of all counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TasksCreated:             atomic.LoadInt64(&m.tasksCreated),
		TasksUpdated:             atomic.LoadInt64(&m.tasksUpdated),
		TasksDeleted:             atomic.LoadInt64(&m.tasksDeleted),
		TimersStarted:            atomic.LoadInt64(&m.timersStarted),
		TimersStopped:            atomic.LoadInt64(&m.timersStopped),
		TimersRejectedRunning:    atomic.LoadInt64(&m.timersRejectedRunning),
		TimersRejectedNotRunning: atomic.LoadInt64(&m.timersRejectedNotRunning),
		SummaryCacheHits:         atomic.LoadInt64(&m.summaryCacheHits),
		SummaryCacheMisses:       atomic.LoadInt64(&m.summaryCacheMisses),
		SummaryDurationCount:     atomic.LoadInt64(&m.summaryDurationCount),
		SummaryDurationTotalNs:   atomic.LoadInt64(&m.summaryDurationTotalNs),
	}
}
