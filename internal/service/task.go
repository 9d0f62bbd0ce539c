package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/focusflow/focusflow/internal/metrics"
	"github.com/focusflow/focusflow/internal/model"
	"github.com/focusflow/focusflow/internal/repository"
)

// TaskRepository is the persistence surface the task service needs.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, userID, taskID string) (*model.Task, error)
	ListTasksWithTracking(ctx context.Context, userID string) ([]*model.TaskWithTracking, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// SummaryInvalidator drops a user's cached dashboard summary after a mutation.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context, userID string) error
}

// TaskService handles task CRUD and completion transitions.
type TaskService struct {
	repo    TaskRepository
	cache   SummaryInvalidator
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo TaskRepository, cache SummaryInvalidator, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
		now:     time.Now,
	}
}

// Create creates a new task for the user.
func (s *TaskService) Create(ctx context.Context, userID, title, description string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	task := &model.Task{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.IncTaskCreated()
	s.invalidateSummary(ctx, userID)

	return task, nil
}

// Get retrieves a single task under the user's scope.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.repo.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// List retrieves the user's tasks enriched with timer data.
func (s *TaskService) List(ctx context.Context, userID string) ([]*model.TaskWithTracking, error) {
	tasks, err := s.repo.ListTasksWithTracking(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateInput defines the mutable task fields. Nil pointers leave the
// field untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Update applies the input to a task. The completion flag drives the
// completedAt stamp: a false-to-true transition stamps it with the current
// time, true-to-false clears it, and an omitted flag leaves it alone.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, input UpdateInput) (*model.Task, error) {
	task, err := s.repo.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}

	if input.Description != nil {
		task.Description = *input.Description
	}

	if input.Completed != nil && *input.Completed != task.Completed {
		task.Completed = *input.Completed
		if task.Completed {
			completedAt := s.now().UTC()
			task.CompletedAt = &completedAt
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.metrics.IncTaskUpdated()
	s.invalidateSummary(ctx, userID)

	return task, nil
}

// ToggleComplete flips the completion flag through the same transition
// path as Update, so completedAt stays consistent.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.repo.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	toggled := !task.Completed
	return s.Update(ctx, userID, taskID, UpdateInput{Completed: &toggled})
}

// Delete removes a task and, via cascade, its time entries. An open entry
// is discarded with them; in-progress time on a deleted task is not kept.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.repo.DeleteTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.metrics.IncTaskDeleted()
	s.invalidateSummary(ctx, userID)

	return nil
}

// invalidateSummary drops the cached summary; eventual consistency is
// acceptable so failures are swallowed.
func (s *TaskService) invalidateSummary(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateSummary(ctx, userID)
}
