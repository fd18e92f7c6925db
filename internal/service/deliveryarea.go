package service

import (
	"context"

	"github.com/mapleship/regions-backend/internal/area"
	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/internal/store"
)

type deliveryAreaService struct {
	index *area.Index
}

func newDeliveryAreaService(s *store.Store) *deliveryAreaService {
	return &deliveryAreaService{index: area.NewIndex(s)}
}

func (s *deliveryAreaService) Stats(ctx context.Context) (area.Stats, error) {
	return s.index.Stats(ctx)
}

func (s *deliveryAreaService) FilterFeatures(ctx context.Context, collection domain.FeatureCollection, regionIDs []string) (area.FilterResult, error) {
	return s.index.FilterFeatures(ctx, collection, regionIDs)
}

func (s *deliveryAreaService) RegionOf(ctx context.Context, code string) (string, bool, error) {
	return s.index.RegionOf(ctx, code)
}

func (s *deliveryAreaService) BatchCheck(ctx context.Context, codes []string) (area.BatchResult, error) {
	return s.index.BatchCheck(ctx, codes)
}

func (s *deliveryAreaService) UnassignedCodes(ctx context.Context, collection domain.FeatureCollection) ([]string, error) {
	return s.index.UnassignedCodes(ctx, collection)
}
