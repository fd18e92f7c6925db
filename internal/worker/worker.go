package worker

import (
	"context"

	syncengine "github.com/mapleship/regions-backend/internal/sync"
)

type Workers struct {
	SyncMonitor SyncMonitor
}

type Deps struct {
	Engine *syncengine.Engine
}

// SyncMonitor drives the engine from background tasks.
type SyncMonitor interface {
	Probe(ctx context.Context) error
	Drain(ctx context.Context) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		SyncMonitor: newSyncMonitor(deps.Engine),
	}
}
