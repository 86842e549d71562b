package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// BoardService handles the operational task board: task CRUD, the
// three-state status machine and the append-only memo threads. Every
// committed mutation publishes an invalidation so live boards refresh.
type BoardService struct {
	taskRepo ports.BoardTaskRepository
	userRepo ports.UserRepository
	feed     ports.BoardFeed
	notifier ports.BoardNotifier
	logger   *logger.Logger
}

// NewBoardService creates a new board service.
func NewBoardService(taskRepo ports.BoardTaskRepository, userRepo ports.UserRepository, feed ports.BoardFeed, notifier ports.BoardNotifier, logger *logger.Logger) *BoardService {
	return &BoardService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		feed:     feed,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateTask creates a new board task in not_started.
func (s *BoardService) CreateTask(ctx context.Context, req ports.CreateTaskRequest, actor entities.Actor) (*entities.BoardTask, error) {
	if err := s.resolveActor(ctx, &actor); err != nil {
		return nil, err
	}
	if !req.Priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", entities.ErrValidation, req.Priority)
	}

	now := time.Now()
	task := &entities.BoardTask{
		Title:         req.Title,
		Description:   req.Description,
		Status:        entities.TaskStatusNotStarted,
		Priority:      req.Priority,
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
		StoreID:       req.StoreID,
		DueDate:       req.DueDate,
		Tags:          req.Tags,
		IsPublic:      req.IsPublic,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.LogBoardAction(task.ID, "created", actor.ID.String(), map[string]interface{}{"title": task.Title})
	s.notifier.NotifyBoardChanged(ctx, task.StoreID)
	return task, nil
}

// GetTask retrieves a board task by ID.
func (s *BoardService) GetTask(ctx context.Context, id int) (*entities.BoardTask, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// UpdateTask edits a task's descriptive fields. Concurrent edits resolve
// last-write-wins; status and assignment only move through SetTaskStatus.
func (s *BoardService) UpdateTask(ctx context.Context, id int, req ports.UpdateTaskRequest, actor entities.Actor) (*entities.BoardTask, error) {
	if err := s.resolveActor(ctx, &actor); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", entities.ErrValidation, *req.Priority)
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.IsPublic != nil {
		task.IsPublic = *req.IsPublic
	}

	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.LogBoardAction(task.ID, "updated", actor.ID.String(), nil)
	s.notifier.NotifyBoardChanged(ctx, task.StoreID)
	return task, nil
}

// SetTaskStatus moves a task through its lifecycle. The acting user is
// recorded as the assignee on in_progress and as the completer on completed;
// not_started resets both.
func (s *BoardService) SetTaskStatus(ctx context.Context, id int, target entities.TaskStatus, actor entities.Actor) (*entities.BoardTask, error) {
	if err := s.resolveActor(ctx, &actor); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := task.SetStatus(target, actor, time.Now()); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to persist task status: %w", err)
	}

	s.logger.LogBoardAction(task.ID, "status_changed", actor.ID.String(), map[string]interface{}{"status": task.Status})
	s.notifier.NotifyBoardChanged(ctx, task.StoreID)
	return task, nil
}

// DeleteTask removes a task and its memo thread.
func (s *BoardService) DeleteTask(ctx context.Context, id int, actor entities.Actor) error {
	if err := s.resolveActor(ctx, &actor); err != nil {
		return err
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.LogBoardAction(id, "deleted", actor.ID.String(), nil)
	s.notifier.NotifyBoardChanged(ctx, task.StoreID)
	return nil
}

// ListBoard returns the store's tasks in board display order.
func (s *BoardService) ListBoard(ctx context.Context, storeID int) ([]entities.BoardTask, error) {
	tasks, err := s.taskRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list board: %w", err)
	}
	entities.SortBoard(tasks)
	return tasks, nil
}

// AddMemo appends a memo to a task's thread. The parent task's lastActionAt
// is bumped so the task surfaces at the top of the board.
func (s *BoardService) AddMemo(ctx context.Context, taskID int, text string, actor entities.Actor) (*entities.TaskMemo, error) {
	if err := s.resolveActor(ctx, &actor); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	memo := &entities.TaskMemo{
		TaskID:        taskID,
		Text:          text,
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
		CreatedAt:     now,
	}
	if err := s.taskRepo.AddMemo(ctx, memo); err != nil {
		return nil, fmt.Errorf("failed to add memo: %w", err)
	}

	task.TouchAction(now)
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to bump task activity: %w", err)
	}

	s.logger.LogBoardAction(taskID, "memo_added", actor.ID.String(), nil)
	s.notifier.NotifyMemosChanged(ctx, taskID, task.StoreID)
	return memo, nil
}

// ListMemos returns a task's memo thread, oldest first.
func (s *BoardService) ListMemos(ctx context.Context, taskID int) ([]entities.TaskMemo, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListMemos(ctx, taskID)
}

// WatchBoard subscribes to the store's live board. The handler receives the
// current snapshot immediately and a fresh one after every change until the
// returned cancel function is called or the context ends.
func (s *BoardService) WatchBoard(ctx context.Context, storeID int, handler ports.BoardSnapshotHandler) (func(), error) {
	return s.feed.SubscribeBoard(ctx, storeID, handler)
}

// WatchMemos subscribes to one task's live memo thread.
func (s *BoardService) WatchMemos(ctx context.Context, taskID int, handler ports.MemoSnapshotHandler) (func(), error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.feed.SubscribeMemos(ctx, taskID, handler)
}

// resolveActor verifies the actor exists and fills in the display name when
// the caller only knows the ID.
func (s *BoardService) resolveActor(ctx context.Context, actor *entities.Actor) error {
	if actor.ID == uuid.Nil {
		return entities.ErrMissingActor
	}
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("actor: %w", err)
	}
	if actor.Name == "" {
		actor.Name = user.DisplayName
	}
	return nil
}
