package store

import (
	"context"
)

// RegionStats is the derived per-region summary used by status panels.
type RegionStats struct {
	PostalCodeCount    int     `json:"postalCodeCount"`
	ActiveWeightRanges int     `json:"activeWeightRanges"`
	PriceTotal         float64 `json:"priceTotal"`
	IsActive           bool    `json:"isActive"`
}

// Stats computes the summary for one region.
func (s *Store) Stats(ctx context.Context, id string) (RegionStats, error) {
	region, err := s.Get(ctx, id)
	if err != nil {
		return RegionStats{}, err
	}

	stats := RegionStats{
		PostalCodeCount: len(region.PostalCodes),
		IsActive:        region.IsActive,
	}
	for _, r := range region.WeightRanges {
		if r.IsActive {
			stats.ActiveWeightRanges++
			stats.PriceTotal += r.Price
		}
	}
	return stats, nil
}
