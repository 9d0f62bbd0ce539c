package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/focusflow/focusflow/internal/metrics"
	"github.com/focusflow/focusflow/internal/model"
	"github.com/focusflow/focusflow/internal/repository"
)

// TimerRepository is the persistence surface the timer service needs.
// The storage layer guarantees at most one open entry per task; the
// service relies on that rather than checking first and acting second.
type TimerRepository interface {
	TaskExists(ctx context.Context, userID, taskID string) (bool, error)
	InsertOpenEntry(ctx context.Context, entry *model.TimeEntry) error
	CloseOpenEntry(ctx context.Context, taskID string, endTime time.Time) (*model.TimeEntry, error)
	GetOpenEntry(ctx context.Context, taskID string) (*model.TimeEntry, error)
	SumTaskDurations(ctx context.Context, taskID string) (int64, error)
}

// TimerService drives the per-task timer state machine: Idle when no
// open entry exists, Running when exactly one does.
type TimerService struct {
	repo    TimerRepository
	cache   SummaryInvalidator
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTimerService creates a new TimerService.
func NewTimerService(repo TimerRepository, cache SummaryInvalidator, recorder metrics.Recorder) *TimerService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TimerService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
		now:     time.Now,
	}
}

// Start opens a time entry for the task, transitioning it to Running.
// Returns ErrTimerRunning (a no-op) if an entry is already open, and
// ErrTaskNotFound if the task does not resolve under the user's scope.
func (s *TimerService) Start(ctx context.Context, userID, taskID string) (*model.TimeEntry, error) {
	if taskID == "" {
		return nil, ErrTaskIDRequired
	}

	if err := s.resolveTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	entry := &model.TimeEntry{
		ID:        ulid.Make().String(),
		TaskID:    taskID,
		StartTime: s.now().UTC(),
	}

	if err := s.repo.InsertOpenEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrEntryOpen) {
			s.metrics.IncTimerRejected("already_running")
			return nil, ErrTimerRunning
		}
		return nil, fmt.Errorf("start timer: %w", err)
	}

	s.metrics.IncTimerStarted()
	s.invalidateSummary(ctx, userID)

	return entry, nil
}

// Stop closes the open entry, stamping its end time and whole-second
// duration, transitioning the task back to Idle. Returns
// ErrTimerNotRunning (a no-op) if the task is already idle.
func (s *TimerService) Stop(ctx context.Context, userID, taskID string) (*model.TimeEntry, error) {
	if taskID == "" {
		return nil, ErrTaskIDRequired
	}

	if err := s.resolveTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	entry, err := s.repo.CloseOpenEntry(ctx, taskID, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenEntry) {
			s.metrics.IncTimerRejected("not_running")
			return nil, ErrTimerNotRunning
		}
		return nil, fmt.Errorf("stop timer: %w", err)
	}

	s.metrics.IncTimerStopped()
	s.invalidateSummary(ctx, userID)

	return entry, nil
}

// Active returns the open entry for the task, or nil if the task is
// idle. Pure read, no transition.
func (s *TimerService) Active(ctx context.Context, userID, taskID string) (*model.TimeEntry, error) {
	if taskID == "" {
		return nil, ErrTaskIDRequired
	}

	if err := s.resolveTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetOpenEntry(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenEntry) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active timer: %w", err)
	}

	return entry, nil
}

// Report sums the closed entries for one task.
func (s *TimerService) Report(ctx context.Context, userID, taskID string) (*model.TaskReport, error) {
	if taskID == "" {
		return nil, ErrTaskIDRequired
	}

	if err := s.resolveTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	total, err := s.repo.SumTaskDurations(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("sum task durations: %w", err)
	}

	return &model.TaskReport{
		TaskID:       taskID,
		TotalSeconds: total,
		TotalMinutes: total / 60,
		TotalHours:   math.Round(float64(total)/3600*100) / 100,
	}, nil
}

// resolveTask collapses missing and foreign-owned tasks into the same
// ErrTaskNotFound, per the ownership-hiding policy.
func (s *TimerService) resolveTask(ctx context.Context, userID, taskID string) error {
	exists, err := s.repo.TaskExists(ctx, userID, taskID)
	if err != nil {
		return fmt.Errorf("resolve task: %w", err)
	}
	if !exists {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TimerService) invalidateSummary(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateSummary(ctx, userID)
}
