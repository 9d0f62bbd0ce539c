package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/focusflow/focusflow/internal/cache"
	"github.com/focusflow/focusflow/internal/metrics"
	"github.com/focusflow/focusflow/internal/model"
	"github.com/focusflow/focusflow/internal/repository"
)

// weekdayLabels are the short weekday names used for bucket labels,
// indexed by time.Weekday (Sunday first).
var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// StatsRepository is the persistence surface the stats service needs.
type StatsRepository interface {
	CountTasks(ctx context.Context, userID string, dayStart, weekStart time.Time) (*repository.TaskCounts, error)
	SumUserDurations(ctx context.Context, userID string) (int64, error)
	ListClosedEntrySums(ctx context.Context, userID string, since *time.Time) ([]repository.EntrySum, error)
}

// SummaryCache is the read/write cache surface for dashboard summaries.
type SummaryCache interface {
	GetSummary(ctx context.Context, userID string) (*model.Summary, error)
	SetSummary(ctx context.Context, userID string, summary *model.Summary, ttl time.Duration) error
}

// StatsService derives dashboard aggregates from task and time-entry
// records. Read-only: it never mutates either store. All bucketing uses
// server-local calendar time; entries land in the bucket of their start
// time even when a session spans a boundary.
type StatsService struct {
	repo     StatsRepository
	cache    SummaryCache
	cacheTTL time.Duration
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewStatsService creates a new StatsService. A nil cache disables
// summary caching.
func NewStatsService(repo StatsRepository, summaryCache SummaryCache, cacheTTL time.Duration, recorder metrics.Recorder) *StatsService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &StatsService{
		repo:     repo,
		cache:    summaryCache,
		cacheTTL: cacheTTL,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Summary computes the full dashboard aggregate for a user.
func (s *StatsService) Summary(ctx context.Context, userID string) (*model.Summary, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveSummaryDuration(time.Since(start))
	}()

	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, userID)
		if err == nil {
			s.metrics.IncSummaryCacheHit()
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Redis trouble is not fatal for a read-side aggregate.
			_ = err
		}
		s.metrics.IncSummaryCacheMiss()
	}

	now := s.now()
	dayStart := DayStart(now)
	weekStart := WeekStart(now)

	counts, err := s.repo.CountTasks(ctx, userID, dayStart, weekStart)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	totalSeconds, err := s.repo.SumUserDurations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum durations: %w", err)
	}

	// The trailing-7-day window always contains the current week window
	// (the week began at most 6 days ago), so one fetch serves both.
	windowStart := dayStart.AddDate(0, 0, -6)
	recent, err := s.repo.ListClosedEntrySums(ctx, userID, &windowStart)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}

	all, err := s.repo.ListClosedEntrySums(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}

	activity := buildActivity(recent, now)

	var weekSeconds int64
	for _, e := range recent {
		if !e.StartTime.Before(weekStart) {
			weekSeconds += e.Duration
		}
	}

	summary := &model.Summary{
		TotalTasks:        counts.Total,
		CompletedTasks:    counts.Completed,
		TotalToday:        counts.TotalToday,
		CompletedToday:    counts.CompletedToday,
		TotalThisWeek:     counts.TotalThisWeek,
		CompletedThisWeek: counts.CompletedThisWeek,
		TotalTimeSeconds:  totalSeconds,
		TodayTimeSeconds:  activity[len(activity)-1].Seconds,
		WeekTimeSeconds:   weekSeconds,
		Activity:          activity,
		Patterns:          buildPatterns(all),
	}

	if s.cache != nil {
		_ = s.cache.SetSummary(ctx, userID, summary, s.cacheTTL)
	}

	return summary, nil
}

// WeeklyReport buckets the current week's tracked seconds by weekday,
// Sunday through Saturday.
func (s *StatsService) WeeklyReport(ctx context.Context, userID string) ([]model.DayBucket, error) {
	weekStart := WeekStart(s.now())

	entries, err := s.repo.ListClosedEntrySums(ctx, userID, &weekStart)
	if err != nil {
		return nil, fmt.Errorf("list week entries: %w", err)
	}

	buckets := make([]model.DayBucket, 7)
	for i := range buckets {
		buckets[i].Day = weekdayLabels[i]
	}

	for _, e := range entries {
		buckets[int(e.StartTime.Weekday())].Seconds += e.Duration
	}

	return buckets, nil
}

// DayStart returns local midnight of the day containing t.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// WeekStart returns local midnight of the most recent Sunday at or
// before t.
func WeekStart(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, -int(t.Weekday()))
}

// buildActivity reduces entries into 7 calendar-day buckets, oldest
// first, ending with the day containing now. Entries are keyed by the
// local midnight of their start time.
func buildActivity(entries []repository.EntrySum, now time.Time) []model.ActivityBucket {
	buckets := make([]model.ActivityBucket, 7)
	index := make(map[time.Time]int, 7)

	for i := 0; i < 7; i++ {
		day := DayStart(now).AddDate(0, 0, i-6)
		buckets[i].Label = weekdayLabels[day.Weekday()]
		index[day] = i
	}

	for _, e := range entries {
		if i, ok := index[DayStart(e.StartTime.In(now.Location()))]; ok {
			buckets[i].Seconds += e.Duration
		}
	}

	return buckets
}

// buildPatterns reduces entries into 24 hour-of-day buckets keyed by the
// local hour of each entry's start time.
func buildPatterns(entries []repository.EntrySum) []model.HourBucket {
	buckets := make([]model.HourBucket, 24)
	for i := range buckets {
		buckets[i].Hour = i
	}

	for _, e := range entries {
		buckets[e.StartTime.Local().Hour()].Seconds += e.Duration
	}

	return buckets
}
