package service

import (
	"context"
	"errors"
	"strings"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/repository"
)

// TaskSummary is an account's task list with its counters.
// Total == Completed + Remaining.
type TaskSummary struct {
	Tasks     []*domain.Task `json:"tasks"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Remaining int            `json:"remaining"`
}

// TaskService scopes task operations to the session's account. Operations on
// another account's task are silently ignored rather than rejected, so
// callers cannot learn whether the task exists.
type TaskService struct {
	tasks repository.TaskStore
}

func NewTaskService(tasks repository.TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) List(ctx context.Context, sess Session) (*TaskSummary, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}

	tasks, err := s.tasks.ListTasksByOwner(ctx, sess.AccountID)
	if err != nil {
		return nil, err
	}

	sum := &TaskSummary{Tasks: tasks, Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			sum.Completed++
		}
	}
	sum.Remaining = sum.Total - sum.Completed
	return sum, nil
}

// Add creates a task owned by the session's account. Blank content is a
// no-op and returns a nil task.
func (s *TaskService) Add(ctx context.Context, sess Session, content string) (*domain.Task, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	return s.tasks.InsertTask(ctx, sess.AccountID, content)
}

// Delete removes the task if the session owns it.
func (s *TaskService) Delete(ctx context.Context, sess Session, id int64) error {
	task, err := s.ownedTask(ctx, sess, id)
	if err != nil || task == nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// Toggle flips the task's completed flag if the session owns it.
func (s *TaskService) Toggle(ctx context.Context, sess Session, id int64) error {
	task, err := s.ownedTask(ctx, sess, id)
	if err != nil || task == nil {
		return err
	}
	if err := s.tasks.SetTaskCompleted(ctx, id, !task.Completed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// ownedTask returns the task when the session owns it, nil when someone else
// does, and ErrTaskNotFound when it does not exist.
func (s *TaskService) ownedTask(ctx context.Context, sess Session, id int64) (*domain.Task, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}

	task, err := s.tasks.GetTask(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	if task.OwnerID != sess.AccountID {
		logger.WithContext(ctx).Debug("ignoring operation on task owned by another account",
			"task_id", id, "account_id", sess.AccountID)
		return nil, nil
	}
	return task, nil
}
