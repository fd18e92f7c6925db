package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/cache"
	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/logger"
)

// OpSaveAll is the only deferred operation kind; each entry carries the whole
// region map at enqueue time, which makes replay idempotent by construction.
const OpSaveAll = "saveAll"

// Operation is one deferred write awaiting replay.
type Operation struct {
	ID        string           `json:"id"`
	Operation string           `json:"operation"`
	Regions   domain.RegionMap `json:"regions"`
	Timestamp time.Time        `json:"timestamp"`
}

// queue is the ordered offline operation queue, mirrored to the durable
// cache after every mutation so it survives restarts.
type queue struct {
	mu  sync.Mutex
	kv  cache.KV
	ops []Operation
}

func newQueue(kv cache.KV) *queue {
	return &queue{kv: kv}
}

// load restores the persisted queue. A corrupt payload is treated as a cache
// miss: the queue starts empty.
func (q *queue) load(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	data, err := q.kv.Get(ctx, cache.KeyOfflineQueue)
	if err != nil {
		return
	}

	var ops []Operation
	if err := json.Unmarshal(data, &ops); err != nil {
		logger.Warn("discarding corrupt offline queue payload", zap.Error(err))
		return
	}
	q.ops = ops
}

func (q *queue) append(ctx context.Context, regions domain.RegionMap) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.ops = append(q.ops, Operation{
		ID:        uuid.NewString(),
		Operation: OpSaveAll,
		Regions:   regions.Clone(),
		Timestamp: time.Now().UTC(),
	})
	return q.persistLocked(ctx)
}

// peek returns the head without removing it.
func (q *queue) peek() (Operation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ops) == 0 {
		return Operation{}, false
	}
	return q.ops[0], true
}

// dequeue drops the head after a successful replay.
func (q *queue) dequeue(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ops) == 0 {
		return nil
	}
	q.ops = q.ops[1:]
	return q.persistLocked(ctx)
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

func (q *queue) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(q.ops)
	if err != nil {
		return fmt.Errorf("marshal offline queue failed: %w", err)
	}
	if err := q.kv.Set(ctx, cache.KeyOfflineQueue, data); err != nil {
		return fmt.Errorf("persist offline queue failed: %w", err)
	}
	return nil
}
