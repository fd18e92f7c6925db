package service

import (
	"context"

	"github.com/mapleship/regions-backend/internal/pricing"
	"github.com/mapleship/regions-backend/internal/store"
)

type pricingService struct {
	resolver    *pricing.Resolver
	maintenance *pricing.Maintenance
}

func newPricingService(s *store.Store) *pricingService {
	return &pricingService{
		resolver:    pricing.NewResolver(s),
		maintenance: pricing.NewMaintenance(s),
	}
}

func (s *pricingService) CalculatePrice(ctx context.Context, regionID string, weight float64) (float64, bool, error) {
	return s.resolver.Resolve(ctx, regionID, weight)
}

func (s *pricingService) CopyTable(ctx context.Context, srcID string, dstID string) error {
	return s.maintenance.CopyTable(ctx, srcID, dstID)
}

func (s *pricingService) AdjustPrices(ctx context.Context, regionID string, percent float64, rangeIDs []string) error {
	return s.maintenance.AdjustPrices(ctx, regionID, percent, rangeIDs)
}
