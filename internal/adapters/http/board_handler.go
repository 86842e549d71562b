package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shiftops/core/internal/application/services"
	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// BoardHandler handles task board requests, including the live SSE streams.
type BoardHandler struct {
	boardService *services.BoardService
	logger       *logger.Logger
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(boardService *services.BoardService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		logger:       logger,
	}
}

// CreateTask creates a board task.
func (h *BoardHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.boardService.CreateTask(c.Request().Context(), req, getActorFromContext(c))
	if err != nil {
		h.logger.Errorw("Create task failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask returns a board task by ID.
func (h *BoardHandler) GetTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.boardService.GetTask(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask edits a task's descriptive fields.
func (h *BoardHandler) UpdateTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.boardService.UpdateTask(c.Request().Context(), id, req, getActorFromContext(c))
	if err != nil {
		h.logger.Errorw("Update task failed", "error", err, "task_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// SetTaskStatus moves a task through its lifecycle.
func (h *BoardHandler) SetTaskStatus(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.SetTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.boardService.SetTaskStatus(c.Request().Context(), id, req.Status, getActorFromContext(c))
	if err != nil {
		h.logger.Errorw("Set task status failed", "error", err, "task_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task and its memos.
func (h *BoardHandler) DeleteTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.boardService.DeleteTask(c.Request().Context(), id, getActorFromContext(c)); err != nil {
		h.logger.Errorw("Delete task failed", "error", err, "task_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}

// ListBoard returns a store's tasks in board order.
func (h *BoardHandler) ListBoard(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid store ID")
	}

	tasks, err := h.boardService.ListBoard(c.Request().Context(), storeID)
	if err != nil {
		h.logger.Errorw("List board failed", "error", err, "store_id", storeID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// AddMemo appends a memo to a task.
func (h *BoardHandler) AddMemo(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.AddMemoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	memo, err := h.boardService.AddMemo(c.Request().Context(), id, req.Text, getActorFromContext(c))
	if err != nil {
		h.logger.Errorw("Add memo failed", "error", err, "task_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, memo)
}

// ListMemos returns a task's memo thread.
func (h *BoardHandler) ListMemos(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	memos, err := h.boardService.ListMemos(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, memos)
}

// StreamBoard streams board snapshots over SSE. The client gets the current
// board immediately and a full replacement snapshot after every change.
func (h *BoardHandler) StreamBoard(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid store ID")
	}

	ctx := c.Request().Context()
	snapshots := make(chan []entities.BoardTask, 8)
	cancel, err := h.boardService.WatchBoard(ctx, storeID, func(tasks []entities.BoardTask) {
		select {
		case snapshots <- tasks:
		case <-ctx.Done():
		}
	})
	if err != nil {
		h.logger.Errorw("Board stream subscription failed", "error", err, "store_id", storeID)
		return domainError(err)
	}
	defer cancel()

	return streamSSE(c, func() (interface{}, bool) {
		select {
		case tasks := <-snapshots:
			return tasks, true
		case <-ctx.Done():
			return nil, false
		}
	})
}

// StreamMemos streams one task's memo thread over SSE.
func (h *BoardHandler) StreamMemos(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	ctx := c.Request().Context()
	snapshots := make(chan []entities.TaskMemo, 8)
	cancel, err := h.boardService.WatchMemos(ctx, id, func(memos []entities.TaskMemo) {
		select {
		case snapshots <- memos:
		case <-ctx.Done():
		}
	})
	if err != nil {
		h.logger.Errorw("Memo stream subscription failed", "error", err, "task_id", id)
		return domainError(err)
	}
	defer cancel()

	return streamSSE(c, func() (interface{}, bool) {
		select {
		case memos := <-snapshots:
			return memos, true
		case <-ctx.Done():
			return nil, false
		}
	})
}

// streamSSE writes server-sent events until next reports no more snapshots.
func streamSSE(c echo.Context, next func() (interface{}, bool)) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		payload, ok := next()
		if !ok {
			return nil
		}
		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", data); err != nil {
			return nil
		}
		resp.Flush()
	}
}
