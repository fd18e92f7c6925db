package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mapleship/regions-backend/internal/domain"
)

// Export serializes the full region map as one JSON document. The open-ended
// top bracket round-trips as max:null.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	regions, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(regions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal region map failed: %w", err)
	}

	s.notify(domain.DataOperationEvent{
		Operation: "export",
		Result:    map[string]int{"regions": len(regions)},
		Timestamp: time.Now().UTC(),
	})
	return data, nil
}

// Import replaces the whole region map from a previously exported document.
// Every region must validate; one invalid region aborts the import without
// touching persisted state.
func (s *Store) Import(ctx context.Context, data []byte) error {
	var regions domain.RegionMap
	if err := json.Unmarshal(data, &regions); err != nil {
		return fmt.Errorf("decode region map document: %w", err)
	}

	for id, region := range regions {
		if result := s.Validate(region); !result.IsValid {
			return &domain.ValidationError{Result: result}
		}
		regions[id] = normalize(id, region)
	}

	if err := s.persistence.SaveAll(ctx, regions); err != nil {
		return fmt.Errorf("persist imported region map failed: %w", err)
	}
	s.bumpVersion()

	s.notify(domain.DataOperationEvent{
		Operation: "import",
		Result:    map[string]int{"regions": len(regions)},
		Timestamp: time.Now().UTC(),
	})
	return nil
}
