// Package realtime implements the task-board change feed on redis pub/sub.
// Writers publish an invalidation after every committed mutation; each
// subscriber reacts by re-reading the full set from the repository and
// emitting a replacement snapshot. Snapshots are full re-derivations, never
// diffs.
package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/shiftops/core/internal/infrastructure/config"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

const (
	boardChannelPrefix = "board:store:"
	memoChannelPrefix  = "memos:task:"

	connectAttempts = 5
)

func boardChannel(storeID int) string {
	return fmt.Sprintf("%s%d", boardChannelPrefix, storeID)
}

func memoChannel(taskID int) string {
	return fmt.Sprintf("%s%d", memoChannelPrefix, taskID)
}

// Connect opens a redis client, retrying with exponential backoff.
func Connect(cfg config.RedisConfig) (*redis.Client, error) {
	retryDelay := 2 * time.Second

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.GetAddr(),
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 3,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := client.Ping(ctx).Result()
		cancel()
		if err == nil {
			return client, nil
		}

		lastErr = err
		client.Close()
		if attempt < connectAttempts {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	return nil, fmt.Errorf("connect to redis after %d attempts: %w", connectAttempts, lastErr)
}

// Notifier is the write side of the feed.
type Notifier struct {
	rdb    *redis.Client
	logger *logger.Logger
}

// NewNotifier creates a notifier publishing on the shared invalidation
// channels.
func NewNotifier(rdb *redis.Client, logger *logger.Logger) ports.BoardNotifier {
	return &Notifier{rdb: rdb, logger: logger}
}

// NotifyBoardChanged signals that the store's task set changed. Publish
// failures are logged, not returned: the mutation already committed and the
// board converges on the next successful notification.
func (n *Notifier) NotifyBoardChanged(ctx context.Context, storeID int) {
	if err := n.rdb.Publish(ctx, boardChannel(storeID), "changed").Err(); err != nil {
		n.logger.Warnw("Board change notification failed", "store_id", storeID, "error", err)
	}
}

// NotifyMemosChanged signals that a task's memo list changed. Memo additions
// also touch the parent task's lastActionAt, so the board channel is
// notified as well.
func (n *Notifier) NotifyMemosChanged(ctx context.Context, taskID int, storeID int) {
	if err := n.rdb.Publish(ctx, memoChannel(taskID), "changed").Err(); err != nil {
		n.logger.Warnw("Memo change notification failed", "task_id", taskID, "error", err)
	}
	n.NotifyBoardChanged(ctx, storeID)
}
