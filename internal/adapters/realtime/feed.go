package realtime

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// Feed implements ports.BoardFeed on redis pub/sub plus repository reloads.
type Feed struct {
	rdb    *redis.Client
	tasks  ports.BoardTaskRepository
	logger *logger.Logger
}

// NewFeed creates a new board feed.
func NewFeed(rdb *redis.Client, tasks ports.BoardTaskRepository, logger *logger.Logger) ports.BoardFeed {
	return &Feed{rdb: rdb, tasks: tasks, logger: logger}
}

// SubscribeBoard delivers the current board snapshot immediately, then one
// fresh snapshot per observed change. Each snapshot is the full task set for
// the store, sorted for display; consumers replace their view wholesale.
// Snapshots for one subscription are delivered from a single goroutine, in
// order.
func (f *Feed) SubscribeBoard(ctx context.Context, storeID int, handler ports.BoardSnapshotHandler) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	pubsub := f.rdb.Subscribe(subCtx, boardChannel(storeID))
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, err
	}

	emit := func() {
		tasks, err := f.tasks.ListByStore(subCtx, storeID)
		if err != nil {
			if subCtx.Err() == nil {
				f.logger.Errorw("Board snapshot reload failed", "store_id", storeID, "error", err)
			}
			return
		}
		entities.SortBoard(tasks)
		handler(tasks)
	}

	go func() {
		defer pubsub.Close()

		emit()
		for range pubsub.Channel() {
			emit()
		}
	}()

	var released bool
	return func() {
		if released {
			return
		}
		released = true
		cancel()
		pubsub.Close()
	}, nil
}

// SubscribeMemos is the per-task memo feed, with the same replace-on-snapshot
// contract as the board feed. Memos are delivered oldest first.
func (f *Feed) SubscribeMemos(ctx context.Context, taskID int, handler ports.MemoSnapshotHandler) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	pubsub := f.rdb.Subscribe(subCtx, memoChannel(taskID))
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, err
	}

	emit := func() {
		memos, err := f.tasks.ListMemos(subCtx, taskID)
		if err != nil {
			if subCtx.Err() == nil {
				f.logger.Errorw("Memo snapshot reload failed", "task_id", taskID, "error", err)
			}
			return
		}
		handler(memos)
	}

	go func() {
		defer pubsub.Close()

		emit()
		for range pubsub.Channel() {
			emit()
		}
	}()

	var released bool
	return func() {
		if released {
			return
		}
		released = true
		cancel()
		pubsub.Close()
	}, nil
}
