package processor

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/mapleship/regions-backend/internal/worker"
)

type probeConnectivityProcessor struct {
	workers *worker.Workers
}

func NewProbeConnectivityProcessor(workers *worker.Workers) *probeConnectivityProcessor {
	return &probeConnectivityProcessor{
		workers: workers,
	}
}

func (p *probeConnectivityProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	return p.workers.SyncMonitor.Probe(ctx)
}

type drainQueueProcessor struct {
	workers *worker.Workers
}

func NewDrainQueueProcessor(workers *worker.Workers) *drainQueueProcessor {
	return &drainQueueProcessor{
		workers: workers,
	}
}

func (p *drainQueueProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	return p.workers.SyncMonitor.Drain(ctx)
}
