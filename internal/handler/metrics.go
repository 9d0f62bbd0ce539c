package handler

import (
	"fmt"
	"net/http"

	"github.com/focusflow/focusflow/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "focusflow_tasks_created_total %d\n", snap.TasksCreated)
	writeMetric(w, "focusflow_tasks_updated_total %d\n", snap.TasksUpdated)
	writeMetric(w, "focusflow_tasks_deleted_total %d\n", snap.TasksDeleted)

	writeMetric(w, "focusflow_timers_started_total %d\n", snap.TimersStarted)
	writeMetric(w, "focusflow_timers_stopped_total %d\n", snap.TimersStopped)
	writeMetric(w, "focusflow_timers_rejected_total{reason=\"already_running\"} %d\n", snap.TimersRejectedRunning)
	writeMetric(w, "focusflow_timers_rejected_total{reason=\"not_running\"} %d\n", snap.TimersRejectedNotRunning)

	writeMetric(w, "focusflow_summary_cache_hits_total %d\n", snap.SummaryCacheHits)
	writeMetric(w, "focusflow_summary_cache_misses_total %d\n", snap.SummaryCacheMisses)
	writeMetric(w, "focusflow_summary_duration_seconds_count %d\n", snap.SummaryDurationCount)
	writeMetric(w, "focusflow_summary_duration_seconds_sum %.6f\n", float64(snap.SummaryDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
