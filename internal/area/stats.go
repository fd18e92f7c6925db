package area

import (
	"context"
)

// RegionDetail summarizes one region for the delivery-area overview.
type RegionDetail struct {
	Name               string `json:"name"`
	IsActive           bool   `json:"isActive"`
	CodeCount          int    `json:"codeCount"`
	ActiveWeightRanges int    `json:"activeWeightRanges"`
}

// Stats is the delivery-area wide overview.
type Stats struct {
	TotalRegions  int                     `json:"totalRegions"`
	ActiveRegions int                     `json:"activeRegions"`
	TotalCodes    int                     `json:"totalCodes"`
	RegionDetails map[string]RegionDetail `json:"regionDetails"`
}

// Stats aggregates counts across every configured region.
func (x *Index) Stats(ctx context.Context) (Stats, error) {
	regions, err := x.regions.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{RegionDetails: make(map[string]RegionDetail, len(regions))}
	for id, region := range regions {
		stats.TotalRegions++
		if region.IsActive {
			stats.ActiveRegions++
		}
		stats.TotalCodes += len(region.PostalCodes)

		detail := RegionDetail{
			Name:      region.Name,
			IsActive:  region.IsActive,
			CodeCount: len(region.PostalCodes),
		}
		for _, r := range region.WeightRanges {
			if r.IsActive {
				detail.ActiveWeightRanges++
			}
		}
		stats.RegionDetails[id] = detail
	}
	return stats, nil
}
