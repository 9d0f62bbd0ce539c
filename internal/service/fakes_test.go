package service

import (
	"context"
	"sync"
	"time"

	"github.com/focusflow/focusflow/internal/model"
	"github.com/focusflow/focusflow/internal/repository"
)

// fakeStore is an in-memory stand-in for the repository, guarding the
// open-entry invariant with a mutex the way the database enforces it
// with a partial unique index.
type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*model.User // by email
	tasks   map[string]*model.Task
	entries map[string]*model.TimeEntry

	invalidations int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]*model.User),
		tasks:   make(map[string]*model.Task),
		entries: make(map[string]*model.TimeEntry),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.Email]; exists {
		return repository.ErrEmailExists
	}
	clone := *user
	f.users[user.Email] = &clone
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeStore) CreateTask(_ context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *task
	f.tasks[task.ID] = &clone
	return nil
}

func (f *fakeStore) GetTask(_ context.Context, userID, taskID string) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (f *fakeStore) ListTasksWithTracking(_ context.Context, userID string) ([]*model.TaskWithTracking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.TaskWithTracking
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		t := model.TaskWithTracking{Task: *task}
		for _, e := range f.entries {
			if e.TaskID != task.ID {
				continue
			}
			if e.Duration != nil {
				t.TotalTimeSpent += *e.Duration
			}
			if e.EndTime == nil {
				start := e.StartTime
				t.ActiveTimerStart = &start
			}
		}
		out = append(out, &t)
	}
	return out, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return repository.ErrTaskNotFound
	}
	clone := *task
	f.tasks[task.ID] = &clone
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, userID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	for id, e := range f.entries {
		if e.TaskID == taskID {
			delete(f.entries, id)
		}
	}
	return nil
}

func (f *fakeStore) TaskExists(_ context.Context, userID, taskID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[taskID]
	return ok && task.UserID == userID, nil
}

func (f *fakeStore) InsertOpenEntry(_ context.Context, entry *model.TimeEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.TaskID == entry.TaskID && e.EndTime == nil {
			return repository.ErrEntryOpen
		}
	}
	clone := *entry
	f.entries[entry.ID] = &clone
	return nil
}

func (f *fakeStore) CloseOpenEntry(_ context.Context, taskID string, endTime time.Time) (*model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.TaskID == taskID && e.EndTime == nil {
			end := endTime
			duration := model.DurationBetween(e.StartTime, end)
			e.EndTime = &end
			e.Duration = &duration
			clone := *e
			return &clone, nil
		}
	}
	return nil, repository.ErrNoOpenEntry
}

func (f *fakeStore) GetOpenEntry(_ context.Context, taskID string) (*model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.TaskID == taskID && e.EndTime == nil {
			clone := *e
			return &clone, nil
		}
	}
	return nil, repository.ErrNoOpenEntry
}

func (f *fakeStore) SumTaskDurations(_ context.Context, taskID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, e := range f.entries {
		if e.TaskID == taskID && e.Duration != nil {
			total += *e.Duration
		}
	}
	return total, nil
}

func (f *fakeStore) SumUserDurations(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, e := range f.entries {
		task, ok := f.tasks[e.TaskID]
		if !ok || task.UserID != userID || e.Duration == nil {
			continue
		}
		total += *e.Duration
	}
	return total, nil
}

func (f *fakeStore) ListClosedEntrySums(_ context.Context, userID string, since *time.Time) ([]repository.EntrySum, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sums []repository.EntrySum
	for _, e := range f.entries {
		task, ok := f.tasks[e.TaskID]
		if !ok || task.UserID != userID || e.Duration == nil {
			continue
		}
		if since != nil && e.StartTime.Before(*since) {
			continue
		}
		sums = append(sums, repository.EntrySum{StartTime: e.StartTime, Duration: *e.Duration})
	}
	return sums, nil
}

func (f *fakeStore) CountTasks(_ context.Context, userID string, dayStart, weekStart time.Time) (*repository.TaskCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := &repository.TaskCounts{}
	for _, t := range f.tasks {
		if t.UserID != userID {
			continue
		}
		counts.Total++
		if t.Completed {
			counts.Completed++
		}
		inWindow := func(start time.Time) bool {
			if !t.CreatedAt.Before(start) {
				return true
			}
			return t.CompletedAt != nil && !t.CompletedAt.Before(start)
		}
		if inWindow(dayStart) {
			counts.TotalToday++
		}
		if t.Completed && t.CompletedAt != nil && !t.CompletedAt.Before(dayStart) {
			counts.CompletedToday++
		}
		if inWindow(weekStart) {
			counts.TotalThisWeek++
		}
		if t.Completed && t.CompletedAt != nil && !t.CompletedAt.Before(weekStart) {
			counts.CompletedThisWeek++
		}
	}
	return counts, nil
}

func (f *fakeStore) InvalidateSummary(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
	return nil
}

// addTask seeds a task directly into the store.
func (f *fakeStore) addTask(id, userID string, createdAt time.Time) *model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := &model.Task{ID: id, UserID: userID, Title: "task " + id, CreatedAt: createdAt}
	f.tasks[id] = task
	return task
}

// addClosedEntry seeds a closed time entry directly into the store.
func (f *fakeStore) addClosedEntry(id, taskID string, start time.Time, seconds int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	end := start.Add(time.Duration(seconds) * time.Second)
	f.entries[id] = &model.TimeEntry{
		ID:        id,
		TaskID:    taskID,
		StartTime: start,
		EndTime:   &end,
		Duration:  &seconds,
	}
}

// openEntryCount reports how many open entries exist for a task.
func (f *fakeStore) openEntryCount(taskID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.entries {
		if e.TaskID == taskID && e.EndTime == nil {
			count++
		}
	}
	return count
}
