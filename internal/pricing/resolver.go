package pricing

import (
	"context"
	"errors"
	"sort"

	"github.com/mapleship/regions-backend/internal/domain"
)

// RegionSource supplies region documents for lookups.
type RegionSource interface {
	Get(ctx context.Context, id string) (*domain.Region, error)
}

// Resolver answers weight-to-price queries over a region's bracket table.
type Resolver struct {
	regions RegionSource
}

func NewResolver(regions RegionSource) *Resolver {
	return &Resolver{regions: regions}
}

// Resolve returns the flat price for the given shipment weight. The second
// return is false when no active bracket covers the weight or the region does
// not exist; both bracket bounds are inclusive.
//
// The store writes brackets sorted ascending and non-overlapping, so the
// lookup is a binary search over the active brackets.
func (r *Resolver) Resolve(ctx context.Context, regionID string, weight float64) (float64, bool, error) {
	region, err := r.regions.Get(ctx, regionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	active := region.WeightRanges[:0:0]
	for _, br := range region.WeightRanges {
		if br.IsActive {
			active = append(active, br)
		}
	}

	idx := sort.Search(len(active), func(i int) bool {
		return active[i].Max >= weight
	})
	if idx < len(active) && active[idx].Contains(weight) {
		return active[idx].Price, true, nil
	}
	return 0, false, nil
}
