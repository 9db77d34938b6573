package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stemsi/ailit-assessment/internal/config"
	"github.com/stemsi/ailit-assessment/internal/model"
)

// ErrQueueEmpty is returned by Pop when nothing arrived before the timeout.
var ErrQueueEmpty = errors.New("queue empty")

// ResultQueue is the Redis list between the results sink and its writer.
type ResultQueue struct {
	rdb *redis.Client
	key string
}

// NewResultQueue creates a queue on the configured persist list.
func NewResultQueue(rdb *redis.Client) *ResultQueue {
	return &ResultQueue{rdb: rdb, key: config.WorkerKey.PersistResultsQueue}
}

// Push appends a pending result.
func (q *ResultQueue) Push(ctx context.Context, p *model.PendingResult) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending result: %w", err)
	}
	return q.rdb.RPush(ctx, q.key, raw).Err()
}

// Pop blocks up to timeout for the next pending result. A payload that does
// not decode is returned as an error and is not requeued.
func (q *ResultQueue) Pop(ctx context.Context, timeout time.Duration) (*model.PendingResult, error) {
	item, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}
	if len(item) < 2 {
		return nil, ErrQueueEmpty
	}

	var p model.PendingResult
	if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
		return nil, fmt.Errorf("decode pending result: %w", err)
	}
	return &p, nil
}

// Len reports how many results are waiting.
func (q *ResultQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
