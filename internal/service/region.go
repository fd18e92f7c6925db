package service

import (
	"context"

	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/internal/store"
)

type regionService struct {
	store *store.Store
}

func newRegionService(s *store.Store) *regionService {
	return &regionService{store: s}
}

func (s *regionService) GetAll(ctx context.Context) (domain.RegionMap, error) {
	return s.store.GetAll(ctx)
}

func (s *regionService) Get(ctx context.Context, id string) (*domain.Region, error) {
	return s.store.Get(ctx, id)
}

func (s *regionService) Save(ctx context.Context, id string, region *domain.Region) error {
	return s.store.Save(ctx, id, region)
}

func (s *regionService) SaveWithVersion(ctx context.Context, id string, region *domain.Region, baseVersion int64) error {
	return s.store.SaveWithVersion(ctx, id, region, baseVersion)
}

func (s *regionService) SetPostalCodes(ctx context.Context, id string, codes []string) error {
	return s.store.SetPostalCodes(ctx, id, codes)
}

func (s *regionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *regionService) Validate(region *domain.Region) domain.ValidationResult {
	return s.store.Validate(region)
}

func (s *regionService) Stats(ctx context.Context, id string) (store.RegionStats, error) {
	return s.store.Stats(ctx, id)
}

func (s *regionService) Export(ctx context.Context) ([]byte, error) {
	return s.store.Export(ctx)
}

func (s *regionService) Import(ctx context.Context, data []byte) error {
	return s.store.Import(ctx, data)
}

func (s *regionService) Version() int64 {
	return s.store.Version()
}
