package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/model"
	"github.com/focusflow/focusflow/internal/repository"
	"github.com/focusflow/focusflow/internal/service"
)

// memStore is an in-memory repository for handler tests. A mutex stands
// in for the partial unique index that guards open entries in Postgres.
type memStore struct {
	mu      sync.Mutex
	users   map[string]*model.User // by email
	tasks   map[string]*model.Task
	entries map[string]*model.TimeEntry
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*model.User),
		tasks:   make(map[string]*model.Task),
		entries: make(map[string]*model.TimeEntry),
	}
}

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	clone := *user
	m.users[user.Email] = &clone
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memStore) CreateTask(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *task
	m.tasks[task.ID] = &clone
	return nil
}

func (m *memStore) GetTask(_ context.Context, userID, taskID string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (m *memStore) ListTasksWithTracking(_ context.Context, userID string) ([]*model.TaskWithTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.TaskWithTracking
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		t := model.TaskWithTracking{Task: *task}
		for _, e := range m.entries {
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

func (m *memStore) UpdateTask(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return repository.ErrTaskNotFound
	}
	clone := *task
	m.tasks[task.ID] = &clone
	return nil
}

func (m *memStore) DeleteTask(_ context.Context, userID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return repository.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	for id, e := range m.entries {
		if e.TaskID == taskID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *memStore) TaskExists(_ context.Context, userID, taskID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	return ok && task.UserID == userID, nil
}

func (m *memStore) InsertOpenEntry(_ context.Context, entry *model.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.TaskID == entry.TaskID && e.EndTime == nil {
			return repository.ErrEntryOpen
		}
	}
	clone := *entry
	m.entries[entry.ID] = &clone
	return nil
}

func (m *memStore) CloseOpenEntry(_ context.Context, taskID string, endTime time.Time) (*model.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
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

func (m *memStore) GetOpenEntry(_ context.Context, taskID string) (*model.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.TaskID == taskID && e.EndTime == nil {
			clone := *e
			return &clone, nil
		}
	}
	return nil, repository.ErrNoOpenEntry
}

func (m *memStore) SumTaskDurations(_ context.Context, taskID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, e := range m.entries {
		if e.TaskID == taskID && e.Duration != nil {
			total += *e.Duration
		}
	}
	return total, nil
}

func (m *memStore) InvalidateSummary(_ context.Context, _ string) error { return nil }

// testEnv bundles the wired router and its backing store.
type testEnv struct {
	store  *memStore
	router *chi.Mux
}

// newTestEnv builds the full handler stack over memStore, with a stub
// auth middleware that trusts the X-Test-User header.
func newTestEnv() *testEnv {
	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	authSvc := service.NewAuthService(store, issuer)
	taskSvc := service.NewTaskService(store, store, nil)
	timerSvc := service.NewTimerService(store, store, nil)

	authHandler := NewAuthHandler(authSvc, logger)
	taskHandler := NewTaskHandler(taskSvc, logger)
	timerHandler := NewTimerHandler(timerSvc, logger)

	identify := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-Test-User")
			if userID == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := auth.ContextWithAuth(r.Context(), &model.AuthContext{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(identify)
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/export", taskHandler.Export)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Patch("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
					r.Post("/complete", taskHandler.ToggleComplete)
					r.Get("/timer", timerHandler.Active)
					r.Post("/timer/start", timerHandler.Start)
					r.Post("/timer/stop", timerHandler.Stop)
					r.Get("/timer/report", timerHandler.Report)
				})
			})
		})
	})

	return &testEnv{store: store, router: r}
}
