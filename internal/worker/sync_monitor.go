package worker

import (
	"context"

	"go.uber.org/zap"

	queueClient "github.com/mapleship/regions-backend/internal/queue/client"
	"github.com/mapleship/regions-backend/internal/queue/task"
	syncengine "github.com/mapleship/regions-backend/internal/sync"
	"github.com/mapleship/regions-backend/pkg/logger"
)

type syncMonitor struct {
	engine *syncengine.Engine
}

func newSyncMonitor(engine *syncengine.Engine) *syncMonitor {
	return &syncMonitor{engine: engine}
}

// Probe pings the remote store; connectivity transitions trigger offline
// mode or a reconnect drain inside the engine. Writes that were queued while
// the probe itself was in flight get a follow-up drain task.
func (m *syncMonitor) Probe(ctx context.Context) error {
	m.engine.Probe(ctx)

	if m.engine.IsOnline() && m.engine.Status().PendingOperations > 0 {
		client := queueClient.GetClient(ctx)
		if client == nil {
			return nil
		}
		if _, err := client.EnqueueContext(ctx, task.NewDrainQueueTask()); err != nil {
			logger.Warn("drain task enqueue failed", zap.Error(err))
		}
	}
	return nil
}

// Drain replays any deferred writes. Harmless when nothing is pending.
func (m *syncMonitor) Drain(ctx context.Context) error {
	m.engine.DrainQueue(ctx)
	return nil
}
