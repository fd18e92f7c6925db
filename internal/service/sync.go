package service

import (
	"context"

	syncengine "github.com/mapleship/regions-backend/internal/sync"
)

type syncService struct {
	engine *syncengine.Engine
}

func newSyncService(engine *syncengine.Engine) *syncService {
	return &syncService{engine: engine}
}

func (s *syncService) Status() syncengine.StatusInfo {
	return s.engine.Status()
}

func (s *syncService) ForceSync(ctx context.Context) error {
	return s.engine.ForceSync(ctx)
}
