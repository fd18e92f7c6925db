package area

import (
	"context"
	"strings"

	"github.com/mapleship/regions-backend/internal/domain"
)

// RegionSource supplies the region map for membership queries.
type RegionSource interface {
	GetAll(ctx context.Context) (domain.RegionMap, error)
}

// Index answers delivery-area membership queries: which postal prefixes are
// deliverable and which region owns a given prefix. It is a pure read-side
// consumer of whatever the store currently holds.
type Index struct {
	regions RegionSource
}

func NewIndex(regions RegionSource) *Index {
	return &Index{regions: regions}
}

// AllDeliverableCodes returns the union of postal codes across every active
// region. Inactive regions are excluded from delivery-area computations.
func (x *Index) AllDeliverableCodes(ctx context.Context) (map[string]struct{}, error) {
	regions, err := x.regions.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]struct{})
	for _, region := range regions {
		if !region.IsActive {
			continue
		}
		addCodes(codes, region.PostalCodes)
	}
	return codes, nil
}

// CodesForRegions returns the union restricted to the given region ids.
// Explicit selection overrides the activity filter.
func (x *Index) CodesForRegions(ctx context.Context, ids []string) (map[string]struct{}, error) {
	regions, err := x.regions.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]struct{})
	for _, id := range ids {
		region, ok := regions[id]
		if !ok {
			continue
		}
		addCodes(codes, region.PostalCodes)
	}
	return codes, nil
}

// RegionOf returns the first region (in map iteration order) whose postal
// code set contains code. Exclusivity across regions is not enforced by the
// store, so when several regions list the same code the winner is whichever
// the iteration visits first.
func (x *Index) RegionOf(ctx context.Context, code string) (string, bool, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return "", false, nil
	}

	regions, err := x.regions.GetAll(ctx)
	if err != nil {
		return "", false, err
	}

	for id, region := range regions {
		for _, c := range region.PostalCodes {
			if normalizeCode(c) == normalized {
				return id, true, nil
			}
		}
	}
	return "", false, nil
}

// BatchResult splits a list of codes by deliverability.
type BatchResult struct {
	Deliverable   []string `json:"deliverable"`
	Undeliverable []string `json:"undeliverable"`
	Total         int      `json:"total"`
	DeliveryRate  float64  `json:"deliveryRate"`
}

// BatchCheck classifies codes against the active delivery area.
func (x *Index) BatchCheck(ctx context.Context, codes []string) (BatchResult, error) {
	deliverable, err := x.AllDeliverableCodes(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{
		Deliverable:   []string{},
		Undeliverable: []string{},
		Total:         len(codes),
	}
	for _, code := range codes {
		normalized := normalizeCode(code)
		if normalized == "" {
			continue
		}
		if _, ok := deliverable[normalized]; ok {
			result.Deliverable = append(result.Deliverable, normalized)
		} else {
			result.Undeliverable = append(result.Undeliverable, normalized)
		}
	}
	if result.Total > 0 {
		result.DeliveryRate = float64(len(result.Deliverable)) / float64(result.Total) * 100
	}
	return result, nil
}

func addCodes(into map[string]struct{}, codes []string) {
	for _, code := range codes {
		if normalized := normalizeCode(code); normalized != "" {
			into[normalized] = struct{}{}
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
