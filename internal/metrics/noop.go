package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTaskCreated is a no-op.
func (n *NoopRecorder) IncTaskCreated() {}

// IncTaskUpdated is a no-op.
func (n *NoopRecorder) IncTaskUpdated() {}

// IncTaskDeleted is a no-op.
func (n *NoopRecorder) IncTaskDeleted() {}

// IncTimerStarted is a no-op.
func (n *NoopRecorder) IncTimerStarted() {}

// IncTimerStopped is a no-op.
func (n *NoopRecorder) IncTimerStopped() {}

// IncTimerRejected is a no-op.
func (n *NoopRecorder) IncTimerRejected(reason string) {}

// IncSummaryCacheHit is a no-op.
func (n *NoopRecorder) IncSummaryCacheHit() {}

// IncSummaryCacheMiss is a no-op.
func (n *NoopRecorder) IncSummaryCacheMiss() {}

// ObserveSummaryDuration is a no-op.
func (n *NoopRecorder) ObserveSummaryDuration(duration time.Duration) {}
