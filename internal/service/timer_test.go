package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTimerTestEnv(t *testing.T) (*fakeStore, *TimerService) {
	t.Helper()
	store := newFakeStore()
	svc := NewTimerService(store, store, nil)
	return store, svc
}

func TestTimerService_StartStop_RoundTrip(t *testing.T) {
	t.Parallel()

	store, svc := newTimerTestEnv(t)
	store.addTask("task-1", "user-1", time.Now())

	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	entry, err := svc.Start(context.Background(), "user-1", "task-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if entry.EndTime != nil || entry.Duration != nil {
		t.Error("new entry should be open with no duration")
	}

	// Simulated 5 seconds of work.
	clock = clock.Add(5 * time.Second)

	closed, err := svc.Stop(context.Background(), "user-1", "task-1")
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if closed.Duration == nil || *closed.Duration != 5 {
		t.Errorf("Duration = %v, want 5", closed.Duration)
	}
	if closed.EndTime == nil || closed.EndTime.Before(closed.StartTime) {
		t.Error("EndTime should be set and not before StartTime")
	}

	total, err := store.SumTaskDurations(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("SumTaskDurations failed: %v", err)
	}
	if total != 5 {
		t.Errorf("task total = %d, want 5", total)
	}
}

func TestTimerService_Start_AlreadyRunning(t *testing.T) {
	t.Parallel()

	store, svc := newTimerTestEnv(t)
	store.addTask("task-1", "user-1", time.Now())

	if _, err := svc.Start(context.Background(), "user-1", "task-1"); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	_, err := svc.Start(context.Background(), "user-1", "task-1")
	if !errors.Is(err, ErrTimerRunning) {
		t.Errorf("second Start error = %v, want ErrTimerRunning", err)
	}

	if count := store.openEntryCount("task-1"); count != 1 {
		t.Errorf("open entries = %d, want exactly 1", count)
	}
}

func TestTimerService_Start_Concurrent(t *testing.T) {
	t.Parallel()

	store, svc := newTimerTestEnv(t)
	store.addTask("task-1", "user-1", time.Now())

	const n = 20
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(context.Background(), "user-1", "task-1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrTimerRunning):
			rejections++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if rejections != n-1 {
		t.Errorf("rejections = %d, want %d", rejections, n-1)
	}
	if count := store.openEntryCount("task-1"); count != 1 {
		t.Errorf("open entries = %d, want exactly 1", count)
	}
}

func TestTimerService_Stop_NotRunning(t *testing.T) {
	t.Parallel()

	store, svc := newTimerTestEnv(t)
	store.addTask("task-1", "user-1", time.Now())

	_, err := svc.Stop(context.Background(), "user-1", "task-1")
	if !errors.Is(err, ErrTimerNotRunning) {
		t.Errorf("Stop error = %v, want ErrTimerNotRunning", err)
	}

	// No-op: nothing was created or mutated.
	if len(store.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(store.entries))
	}
}

func TestTimerService_OwnershipHiding(t *testing.T) {
	t.Parallel()

	store, svc := newTimerTestEnv(t)
	store.addTask("task-1", "user-a", time.Now())

	// Another user's task behaves exactly like a missing one.
	for name, taskID := range map[string]string{"foreign": "task-1", "missing": "task-404"} {
		if _, err := svc.Start(context.Background(), "user-b", taskID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("%s Start error = %v, want ErrTaskNotFound", name, err)
		}
		if _, err := svc.Stop(context.Background(), "user-b", taskID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("%s Stop error = %v, want ErrTaskNotFound", name, err)
		}
		if _, err := svc.Active(context.Background(), "user-b", taskID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("%s Active error = %v, want ErrTaskNotFound", name, err)
		}
	}
}

func TestTimerService_Active(t *testing.T) {
	t.Parallel()

	store, svc := newTimerTestEnv(t)
	store.addTask("task-1", "user-1", time.Now())

	entry, err := svc.Active(context.Background(), "user-1", "task-1")
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if entry != nil {
		t.Error("idle task should have no active entry")
	}

	started, err := svc.Start(context.Background(), "user-1", "task-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	entry, err = svc.Active(context.Background(), "user-1", "task-1")
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if entry == nil || entry.ID != started.ID {
		t.Errorf("Active returned %+v, want entry %s", entry, started.ID)
	}
}

func TestTimerService_MissingTaskID(t *testing.T) {
	t.Parallel()

	_, svc := newTimerTestEnv(t)

	if _, err := svc.Start(context.Background(), "user-1", ""); !errors.Is(err, ErrTaskIDRequired) {
		t.Errorf("Start error = %v, want ErrTaskIDRequired", err)
	}
	if _, err := svc.Stop(context.Background(), "user-1", ""); !errors.Is(err, ErrTaskIDRequired) {
		t.Errorf("Stop error = %v, want ErrTaskIDRequired", err)
	}
}

func TestTimerService_Report(t *testing.T) {
	t.Parallel()

	store, svc := newTimerTestEnv(t)
	store.addTask("task-1", "user-1", time.Now())
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store.addClosedEntry("e1", "task-1", base, 1800)
	store.addClosedEntry("e2", "task-1", base.Add(time.Hour), 1800)

	report, err := svc.Report(context.Background(), "user-1", "task-1")
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if report.TotalSeconds != 3600 {
		t.Errorf("TotalSeconds = %d, want 3600", report.TotalSeconds)
	}
	if report.TotalMinutes != 60 {
		t.Errorf("TotalMinutes = %d, want 60", report.TotalMinutes)
	}
	if report.TotalHours != 1.0 {
		t.Errorf("TotalHours = %v, want 1.0", report.TotalHours)
	}
}
