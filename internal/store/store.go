package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mapleship/regions-backend/internal/domain"
)

// Persistence is where the store reads and writes the region map aggregate.
// In production this is the sync engine; tests inject a fake.
type Persistence interface {
	GetAll(ctx context.Context) (domain.RegionMap, error)
	SaveAll(ctx context.Context, regions domain.RegionMap) error
}

// EventSink receives store-originated change events.
type EventSink interface {
	Notify(event domain.Event)
}

// Store owns the region configuration document: validation, CRUD and derived
// metadata. The mutation discipline is read the whole map, mutate in memory,
// write the whole map; there is no partial-write primitive. A monotonic
// snapshot version counter rejects writes based on a stale snapshot.
type Store struct {
	persistence Persistence
	events      EventSink

	mu      sync.Mutex
	version int64
}

func New(persistence Persistence, events EventSink) *Store {
	return &Store{
		persistence: persistence,
		events:      events,
	}
}

// Version returns the current snapshot version. It increments on every
// successful save through this store.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// GetAll returns the full region map, materializing the default regions
// "1".."8" when the backing map is empty.
func (s *Store) GetAll(ctx context.Context) (domain.RegionMap, error) {
	regions, err := s.persistence.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load region map failed: %w", err)
	}

	if len(regions) == 0 {
		regions = domain.DefaultRegionMap(time.Now().UTC())
		if err := s.persistence.SaveAll(ctx, regions); err != nil {
			return nil, fmt.Errorf("persist default regions failed: %w", err)
		}
		s.bumpVersion()
	}
	return regions, nil
}

// Get returns one region, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*domain.Region, error) {
	regions, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	region, ok := regions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return region, nil
}

// Save validates and persists one region by rewriting the entire map. A
// validation error aborts the save without touching persisted state.
func (s *Store) Save(ctx context.Context, id string, region *domain.Region) error {
	return s.save(ctx, id, region, nil)
}

// SaveWithVersion is Save with optimistic concurrency: the write is rejected
// with domain.ErrVersionConflict when baseVersion no longer matches the
// current snapshot version.
func (s *Store) SaveWithVersion(ctx context.Context, id string, region *domain.Region, baseVersion int64) error {
	return s.save(ctx, id, region, &baseVersion)
}

func (s *Store) save(ctx context.Context, id string, region *domain.Region, baseVersion *int64) error {
	result := s.Validate(region)
	if !result.IsValid {
		return &domain.ValidationError{Result: result}
	}

	regions, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	if baseVersion != nil {
		s.mu.Lock()
		stale := *baseVersion != s.version
		s.mu.Unlock()
		if stale {
			return fmt.Errorf("save region %s: %w", id, domain.ErrVersionConflict)
		}
	}

	previous := regions[id]
	updated := normalize(id, region)
	regions[id] = updated

	if err := s.persistence.SaveAll(ctx, regions); err != nil {
		return fmt.Errorf("persist region map failed: %w", err)
	}
	s.bumpVersion()

	s.notify(domain.RegionUpdateEvent{
		RegionID:   id,
		UpdateType: changedAspect(previous, updated),
		Timestamp:  time.Now().UTC(),
	})
	return nil
}

// SetPostalCodes replaces a region's postal code set. It does not merge with
// the existing codes.
func (s *Store) SetPostalCodes(ctx context.Context, id string, codes []string) error {
	region, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	updated := region.Clone()
	updated.PostalCodes = append([]string(nil), codes...)
	return s.Save(ctx, id, updated)
}

// Delete removes a region by deleting its key and rewriting the whole map.
func (s *Store) Delete(ctx context.Context, id string) error {
	regions, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	if _, ok := regions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(regions, id)

	if err := s.persistence.SaveAll(ctx, regions); err != nil {
		return fmt.Errorf("persist region map failed: %w", err)
	}
	s.bumpVersion()

	s.notify(domain.RegionUpdateEvent{
		RegionID:   id,
		UpdateType: domain.UpdateStatus,
		Timestamp:  time.Now().UTC(),
	})
	return nil
}

// normalize applies the write-time canonical form: the region carries its map
// key as id, brackets are sorted ascending by lower bound, and derived
// metadata is recomputed.
func normalize(id string, region *domain.Region) *domain.Region {
	out := region.Clone()
	out.ID = id
	sort.SliceStable(out.WeightRanges, func(i, j int) bool {
		return out.WeightRanges[i].Min < out.WeightRanges[j].Min
	})
	out.LastUpdated = time.Now().UTC()
	out.Metadata.PostalCodeCount = len(out.PostalCodes)
	if out.Metadata.Version == "" {
		out.Metadata.Version = domain.ConfigVersion
	}
	if out.Metadata.CreatedAt.IsZero() {
		out.Metadata.CreatedAt = out.LastUpdated
	}
	return out
}

func changedAspect(previous *domain.Region, updated *domain.Region) string {
	if previous == nil {
		return domain.UpdateStatus
	}
	if !slices.Equal(previous.PostalCodes, updated.PostalCodes) {
		return domain.UpdatePostalCodes
	}
	if !slices.Equal(previous.WeightRanges, updated.WeightRanges) {
		return domain.UpdatePricing
	}
	return domain.UpdateStatus
}

func (s *Store) bumpVersion() {
	s.mu.Lock()
	s.version++
	s.mu.Unlock()
}

func (s *Store) notify(event domain.Event) {
	if s.events != nil {
		s.events.Notify(event)
	}
}
