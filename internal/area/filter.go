package area

import (
	"context"

	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/logger"
)

// FilterResult is a filtered feature collection plus before/after counts for
// observability.
type FilterResult struct {
	Collection    domain.FeatureCollection `json:"collection"`
	OriginalCount int                      `json:"originalCount"`
	FilteredCount int                      `json:"filteredCount"`
}

// FilterFeatures keeps only features whose postal prefix belongs to the
// selected regions, or to the whole active delivery area when no regions are
// selected. Geometry passes through untouched.
func (x *Index) FilterFeatures(ctx context.Context, collection domain.FeatureCollection, regionIDs []string) (FilterResult, error) {
	var (
		target map[string]struct{}
		err    error
	)
	if len(regionIDs) > 0 {
		target, err = x.CodesForRegions(ctx, regionIDs)
	} else {
		target, err = x.AllDeliverableCodes(ctx)
	}
	if err != nil {
		return FilterResult{}, err
	}

	filtered := domain.FeatureCollection{
		Type:     collection.Type,
		Features: []domain.Feature{},
	}
	for _, feature := range collection.Features {
		code := feature.PostalPrefix()
		if code == "" {
			continue
		}
		if _, ok := target[code]; ok {
			filtered.Features = append(filtered.Features, feature)
		}
	}

	result := FilterResult{
		Collection:    filtered,
		OriginalCount: len(collection.Features),
		FilteredCount: len(filtered.Features),
	}
	logger.Debug("filtered delivery area features",
		zap.Int("original", result.OriginalCount),
		zap.Int("filtered", result.FilteredCount),
		zap.Strings("regions", regionIDs))
	return result, nil
}

// UnassignedCodes lists postal prefixes present in the collection but absent
// from every active region.
func (x *Index) UnassignedCodes(ctx context.Context, collection domain.FeatureCollection) ([]string, error) {
	deliverable, err := x.AllDeliverableCodes(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	unassigned := []string{}
	for _, feature := range collection.Features {
		code := feature.PostalPrefix()
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if _, ok := deliverable[code]; !ok {
			unassigned = append(unassigned, code)
		}
	}
	return unassigned, nil
}
