package service

import (
	"context"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/samber/lo"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
	Deadline    string
}

// UpdateTaskInput holds a partial update. Nil fields keep their stored value.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Deadline    *string
}

type TaskService struct {
	tasks    TaskRepository
	notifier Notifier
}

func NewTaskService(tasks TaskRepository, notifier Notifier) *TaskService {
	return &TaskService{tasks: tasks, notifier: notifier}
}

func (s *TaskService) List(ctx context.Context, ownerID int64, f domain.TaskFilter) ([]*domain.Task, error) {
	f.SortBy = domain.ParseSortField(string(f.SortBy))
	f.SortDir = domain.ParseSortDir(string(f.SortDir))
	return s.tasks.List(ctx, ownerID, f)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return s.tasks.Get(ctx, id, ownerID)
}

// Create stores a new task. Unknown priority and status values become Low and Pending.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("Title required")
	}

	deadline, err := optionalDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    domain.PriorityOr(in.Priority, domain.PriorityLow),
		Status:      domain.StatusOr(in.Status, domain.StatusPending),
		Deadline:    deadline,
		OwnerID:     ownerID,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(domain.EventTaskCreated, t)
	return t, nil
}

// Update applies in to the caller's task. Unknown priority and status values
// keep the stored ones, unlike Create which falls back to the defaults.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, in UpdateTaskInput) (*domain.Task, error) {
	t, err := s.tasks.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("Title required")
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		t.Priority = domain.PriorityOr(*in.Priority, t.Priority)
	}
	if in.Status != nil {
		t.Status = domain.StatusOr(*in.Status, t.Status)
	}
	if in.Deadline != nil {
		deadline, err := optionalDeadline(*in.Deadline)
		if err != nil {
			return nil, err
		}
		if deadline != nil {
			t.Deadline = deadline
		}
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(domain.EventTaskUpdated, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.tasks.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.notifier.Broadcast(domain.EventTaskDeleted, domain.TaskDeleted{ID: id})
	return nil
}

func optionalDeadline(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := domain.ParseDeadline(raw)
	if err != nil {
		return nil, err
	}
	return lo.ToPtr(d), nil
}
