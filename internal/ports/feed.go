package ports

import (
	"context"

	"github.com/shiftops/core/internal/domain/entities"
)

// BoardSnapshotHandler receives the full replacement set of board tasks for
// a store, already sorted for display. Consumers replace their in-memory
// view; snapshots are never diffs.
type BoardSnapshotHandler func(tasks []entities.BoardTask)

// MemoSnapshotHandler receives the full replacement memo list for one task.
type MemoSnapshotHandler func(memos []entities.TaskMemo)

// BoardFeed is the push-based change feed for the task board. Subscribe
// delivers an initial snapshot and then one snapshot per observed change.
// The returned cancel function releases the subscription; dropping it
// without calling it leaks a callback but does not corrupt state.
type BoardFeed interface {
	SubscribeBoard(ctx context.Context, storeID int, handler BoardSnapshotHandler) (cancel func(), err error)
	SubscribeMemos(ctx context.Context, taskID int, handler MemoSnapshotHandler) (cancel func(), err error)
}

// BoardNotifier is the write side of the feed: services call it after every
// committed mutation so subscribers re-derive their snapshots.
type BoardNotifier interface {
	NotifyBoardChanged(ctx context.Context, storeID int)
	NotifyMemosChanged(ctx context.Context, taskID int, storeID int)
}
