package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nft1025/task/internal/domain"
	"github.com/nft1025/task/internal/store"
)

// TaskService is the per-user task repository. Every mutation verifies the
// acting session owns the task before touching it. Mutations are
// read-list, modify, write-list: last writer wins, no version checks.
type TaskService struct {
	store store.Store
	log   zerolog.Logger
}

func NewTaskService(st store.Store, log zerolog.Logger) *TaskService {
	return &TaskService{store: st, log: log}
}

// CreateInput is the caller-supplied part of a new task.
type CreateInput struct {
	UserID      string
	Title       string
	Description string
	Deadline    *time.Time
}

// TaskPatch is one entry of a bulk update. Nil fields are left unchanged.
type TaskPatch struct {
	ID          string
	Title       *string
	Description *string
	Deadline    *time.Time
	Completed   *bool
}

// List returns the user's tasks. It never errors: an empty id or a failing
// store yields an empty slice.
func (s *TaskService) List(ctx context.Context, userID string) []domain.Task {
	if userID == "" {
		return []domain.Task{}
	}
	tasks, err := s.store.UserTasks(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("listing degraded to empty")
		return []domain.Task{}
	}
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}

func (s *TaskService) Create(ctx context.Context, sess domain.Session, in CreateInput) (domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.UserID == "" || in.UserID != sess.UserID {
		return domain.Task{}, ErrNotOwner
	}

	task := domain.Task{
		ID:          uuid.NewString(),
		UserID:      sess.UserID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Deadline:    in.Deadline,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}

	tasks, err := s.store.UserTasks(ctx, sess.UserID)
	if err != nil {
		return domain.Task{}, err
	}
	tasks = append(tasks, task)
	if err := s.store.SetUserTasks(ctx, sess.UserID, tasks); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Update replaces the task's mutable fields (title, description, deadline,
// completed), keeping its id, owner, and creation time.
func (s *TaskService) Update(ctx context.Context, sess domain.Session, task domain.Task) (domain.Task, error) {
	if task.ID == "" || strings.TrimSpace(task.Title) == "" {
		return domain.Task{}, fmt.Errorf("%w: task id and title are required", ErrValidation)
	}
	if task.UserID != sess.UserID {
		return domain.Task{}, ErrNotOwner
	}

	tasks, err := s.store.UserTasks(ctx, sess.UserID)
	if err != nil {
		return domain.Task{}, err
	}
	i := indexOf(tasks, task.ID)
	if i < 0 {
		return domain.Task{}, ErrNotFound
	}

	updated := tasks[i]
	updated.Title = strings.TrimSpace(task.Title)
	updated.Description = strings.TrimSpace(task.Description)
	updated.Deadline = task.Deadline
	updated.Completed = task.Completed
	tasks[i] = updated

	if err := s.store.SetUserTasks(ctx, sess.UserID, tasks); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

// Delete removes the task. Absence is a silent success: deleting twice is
// not an error. Ownership mismatch on an existing task is.
func (s *TaskService) Delete(ctx context.Context, sess domain.Session, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("%w: task id is required", ErrValidation)
	}
	tasks, err := s.store.UserTasks(ctx, sess.UserID)
	if err != nil {
		return err
	}
	i := indexOf(tasks, taskID)
	if i < 0 {
		return nil
	}
	if tasks[i].UserID != sess.UserID {
		return ErrNotOwner
	}
	tasks = append(tasks[:i], tasks[i+1:]...)
	return s.store.SetUserTasks(ctx, sess.UserID, tasks)
}

// SetCompleted flips only the completed flag.
func (s *TaskService) SetCompleted(ctx context.Context, sess domain.Session, taskID string, completed bool) (domain.Task, error) {
	if taskID == "" {
		return domain.Task{}, fmt.Errorf("%w: task id is required", ErrValidation)
	}
	tasks, err := s.store.UserTasks(ctx, sess.UserID)
	if err != nil {
		return domain.Task{}, err
	}
	i := indexOf(tasks, taskID)
	if i < 0 {
		return domain.Task{}, ErrNotFound
	}
	if tasks[i].UserID != sess.UserID {
		return domain.Task{}, ErrNotOwner
	}
	tasks[i].Completed = completed
	if err := s.store.SetUserTasks(ctx, sess.UserID, tasks); err != nil {
		return domain.Task{}, err
	}
	return tasks[i], nil
}

// BulkUpdate applies each patch only where the task exists and is owned by
// the caller; everything else is silently skipped. The list is persisted
// once, and only when at least one patch applied.
func (s *TaskService) BulkUpdate(ctx context.Context, sess domain.Session, patches []TaskPatch) error {
	tasks, err := s.store.UserTasks(ctx, sess.UserID)
	if err != nil {
		return err
	}

	applied := false
	for _, p := range patches {
		i := indexOf(tasks, p.ID)
		if i < 0 || tasks[i].UserID != sess.UserID {
			continue
		}
		if p.Title != nil {
			tasks[i].Title = strings.TrimSpace(*p.Title)
			applied = true
		}
		if p.Description != nil {
			tasks[i].Description = strings.TrimSpace(*p.Description)
			applied = true
		}
		if p.Deadline != nil {
			tasks[i].Deadline = p.Deadline
			applied = true
		}
		if p.Completed != nil {
			tasks[i].Completed = *p.Completed
			applied = true
		}
	}
	if !applied {
		return nil
	}
	return s.store.SetUserTasks(ctx, sess.UserID, tasks)
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
