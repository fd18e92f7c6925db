package pricing

import (
	"context"
	"math"

	"github.com/mapleship/regions-backend/internal/domain"
)

// RegionStore is the read-write region access maintenance operations need.
type RegionStore interface {
	RegionSource
	Save(ctx context.Context, id string, region *domain.Region) error
}

// Maintenance bundles price-table editing helpers. All writes go through the
// store's normal validated save path.
type Maintenance struct {
	store RegionStore
}

func NewMaintenance(store RegionStore) *Maintenance {
	return &Maintenance{store: store}
}

// CopyTable replaces the destination region's bracket table with a copy of
// the source region's.
func (m *Maintenance) CopyTable(ctx context.Context, srcID string, dstID string) error {
	src, err := m.store.Get(ctx, srcID)
	if err != nil {
		return err
	}
	dst, err := m.store.Get(ctx, dstID)
	if err != nil {
		return err
	}

	updated := dst.Clone()
	updated.WeightRanges = append([]domain.WeightRange(nil), src.WeightRanges...)
	return m.store.Save(ctx, dstID, updated)
}

// AdjustPrices scales bracket prices by the given percentage (10 means +10%),
// rounded to cents. An empty rangeIDs selection adjusts every bracket.
func (m *Maintenance) AdjustPrices(ctx context.Context, regionID string, percent float64, rangeIDs []string) error {
	region, err := m.store.Get(ctx, regionID)
	if err != nil {
		return err
	}

	selected := make(map[string]bool, len(rangeIDs))
	for _, id := range rangeIDs {
		selected[id] = true
	}

	multiplier := 1 + percent/100
	updated := region.Clone()
	for i, br := range updated.WeightRanges {
		if len(selected) > 0 && !selected[br.ID] {
			continue
		}
		updated.WeightRanges[i].Price = math.Round(br.Price*multiplier*100) / 100
	}
	return m.store.Save(ctx, regionID, updated)
}
