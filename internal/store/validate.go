package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/validator"
)

// Validate checks a region before persistence. Errors block the save;
// warnings are surfaced to the caller but do not.
func (s *Store) Validate(region *domain.Region) domain.ValidationResult {
	result := domain.ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}
	if region == nil {
		result.Errors = append(result.Errors, "region is required")
		return result
	}

	if strings.TrimSpace(region.ID) == "" {
		result.Errors = append(result.Errors, "region id is required")
	}
	if strings.TrimSpace(region.Name) == "" {
		result.Errors = append(result.Errors, "region name is required")
	}
	if region.PostalCodes == nil {
		result.Errors = append(result.Errors, "postal code list is required")
	}
	if region.WeightRanges == nil {
		result.Errors = append(result.Errors, "weight range list is required")
	}

	for i, r := range region.WeightRanges {
		if r.Min >= r.Max && !r.Unbounded() {
			result.Errors = append(result.Errors,
				fmt.Sprintf("weight range %d: min must be below max", i+1))
		}
		if r.Price < 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("weight range %d: price must be non-negative", i+1))
		}
	}
	result.Errors = append(result.Errors, overlapErrors(region.WeightRanges)...)

	for i, code := range region.PostalCodes {
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("postal code %d is empty", i+1))
			continue
		}
		if !validator.FSAPattern.MatchString(strings.ToUpper(trimmed)) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("postal code %d: %q does not look like an FSA", i+1, code))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// overlapErrors rejects bracket tables whose intervals collide. Bounds are
// inclusive, so a shared boundary value counts as an overlap.
func overlapErrors(ranges []domain.WeightRange) []string {
	byMin := make([]domain.WeightRange, len(ranges))
	copy(byMin, ranges)
	sort.SliceStable(byMin, func(i, j int) bool { return byMin[i].Min < byMin[j].Min })

	var errs []string
	for i := 1; i < len(byMin); i++ {
		if byMin[i-1].Max >= byMin[i].Min {
			errs = append(errs, fmt.Sprintf(
				"weight ranges %q and %q overlap", byMin[i-1].ID, byMin[i].ID))
		}
	}
	return errs
}
