package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleship/regions-backend/internal/domain"
)

type fakePersistence struct {
	regions domain.RegionMap
	saves   int
	failAll error
}

func (f *fakePersistence) GetAll(ctx context.Context) (domain.RegionMap, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	if f.regions == nil {
		return domain.RegionMap{}, nil
	}
	return f.regions.Clone(), nil
}

func (f *fakePersistence) SaveAll(ctx context.Context, regions domain.RegionMap) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.regions = regions.Clone()
	f.saves++
	return nil
}

type eventRecorder struct {
	events []domain.Event
}

func (r *eventRecorder) Notify(event domain.Event) {
	r.events = append(r.events, event)
}

func setup(t *testing.T) (*Store, *fakePersistence, *eventRecorder) {
	t.Helper()
	persistence := &fakePersistence{}
	events := &eventRecorder{}
	return New(persistence, events), persistence, events
}

func validRegion(id string) *domain.Region {
	return &domain.Region{
		ID:          id,
		Name:        "Zone " + id,
		IsActive:    true,
		PostalCodes: []string{"M5V", "K1A"},
		WeightRanges: []domain.WeightRange{
			{ID: "range_1", Min: 0, Max: 11.000, Price: 10, IsActive: true},
			{ID: "range_2", Min: 11.001, Max: 15.000, Price: 15, IsActive: true},
		},
	}
}

func TestGetAllMaterializesDefaults(t *testing.T) {
	s, persistence, _ := setup(t)

	regions, err := s.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, domain.DefaultRegionCount)

	for _, id := range []string{"1", "8"} {
		region, ok := regions[id]
		require.True(t, ok, "region %s missing", id)
		assert.False(t, region.IsActive)
		assert.Empty(t, region.PostalCodes)
		assert.Len(t, region.WeightRanges, 13)
	}

	assert.Equal(t, 1, persistence.saves, "defaults should be persisted once")
	assert.Equal(t, int64(1), s.Version())

	// second read serves the persisted copy without re-seeding
	_, err = s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, persistence.saves)
}

func TestSaveNormalizesRegion(t *testing.T) {
	s, persistence, events := setup(t)

	region := validRegion("12")
	// brackets intentionally out of order
	region.WeightRanges = []domain.WeightRange{
		{ID: "range_2", Min: 11.001, Max: 15.000, Price: 15, IsActive: true},
		{ID: "range_1", Min: 0, Max: 11.000, Price: 10, IsActive: true},
	}

	require.NoError(t, s.Save(context.Background(), "12", region))

	saved, err := s.Get(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, "12", saved.ID)
	assert.Equal(t, "range_1", saved.WeightRanges[0].ID, "brackets must be sorted by lower bound")
	assert.Equal(t, "range_2", saved.WeightRanges[1].ID)
	assert.Equal(t, 2, saved.Metadata.PostalCodeCount)
	assert.Equal(t, domain.ConfigVersion, saved.Metadata.Version)
	assert.False(t, saved.LastUpdated.IsZero())
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	assert.GreaterOrEqual(t, persistence.saves, 2)

	var update domain.RegionUpdateEvent
	found := false
	for _, ev := range events.events {
		if e, ok := ev.(domain.RegionUpdateEvent); ok && e.RegionID == "12" {
			update = e
			found = true
		}
	}
	require.True(t, found, "save must emit a region update event")
	assert.NotEmpty(t, update.UpdateType)
}

func TestSaveRejectsInvalidRegion(t *testing.T) {
	s, persistence, events := setup(t)

	t.Run("missing name", func(t *testing.T) {
		region := validRegion("1")
		region.Name = "  "

		err := s.Save(context.Background(), "1", region)
		verr, ok := domain.AsValidationError(err)
		require.True(t, ok, "expected a validation error, got %v", err)
		assert.NotEmpty(t, verr.Result.Errors)
		assert.Equal(t, 0, persistence.saves, "invalid region must not touch persistence")
		assert.Empty(t, events.events)
	})

	t.Run("inverted bracket", func(t *testing.T) {
		region := validRegion("1")
		region.WeightRanges[0].Min = 20
		region.WeightRanges[0].Max = 10

		err := s.Save(context.Background(), "1", region)
		_, ok := domain.AsValidationError(err)
		require.True(t, ok)
	})

	t.Run("negative price", func(t *testing.T) {
		region := validRegion("1")
		region.WeightRanges[0].Price = -1

		err := s.Save(context.Background(), "1", region)
		_, ok := domain.AsValidationError(err)
		require.True(t, ok)
	})

	t.Run("overlapping brackets", func(t *testing.T) {
		region := validRegion("1")
		region.WeightRanges = []domain.WeightRange{
			{ID: "a", Min: 0, Max: 10, IsActive: true},
			{ID: "b", Min: 10, Max: 20, IsActive: true}, // shared boundary counts as overlap
		}

		err := s.Save(context.Background(), "1", region)
		verr, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, verr.Result.Errors[0], "overlap")
	})
}

func TestValidateWarnsOnOddPostalCodes(t *testing.T) {
	s, _, _ := setup(t)

	region := validRegion("1")
	region.PostalCodes = []string{"M5V", "not-an-fsa", ""}

	result := s.Validate(region)
	assert.True(t, result.IsValid, "postal code shape issues are warnings, not errors")
	assert.Len(t, result.Warnings, 2)
}

func TestSaveWithVersionConflict(t *testing.T) {
	s, _, _ := setup(t)

	require.NoError(t, s.Save(context.Background(), "10", validRegion("10")))
	base := s.Version()

	// a concurrent writer moves the snapshot forward
	require.NoError(t, s.Save(context.Background(), "11", validRegion("11")))

	err := s.SaveWithVersion(context.Background(), "10", validRegion("10"), base)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	// retry against the current version succeeds
	require.NoError(t, s.SaveWithVersion(context.Background(), "10", validRegion("10"), s.Version()))
}

func TestSetPostalCodesReplaces(t *testing.T) {
	s, _, _ := setup(t)

	region := validRegion("9")
	require.NoError(t, s.Save(context.Background(), "9", region))

	require.NoError(t, s.SetPostalCodes(context.Background(), "9", []string{"V6B"}))

	saved, err := s.Get(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, []string{"V6B"}, saved.PostalCodes, "codes are replaced, not merged")
	assert.Equal(t, 1, saved.Metadata.PostalCodeCount)
}

func TestDelete(t *testing.T) {
	s, _, _ := setup(t)

	require.NoError(t, s.Save(context.Background(), "9", validRegion("9")))
	require.NoError(t, s.Delete(context.Background(), "9"))

	_, err := s.Get(context.Background(), "9")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.Delete(context.Background(), "9"), domain.ErrNotFound)
}

func TestStats(t *testing.T) {
	s, _, _ := setup(t)

	region := validRegion("9")
	region.WeightRanges = append(region.WeightRanges, domain.WeightRange{
		ID: "range_3", Min: 15.001, Max: 20, Price: 99, IsActive: false,
	})
	require.NoError(t, s.Save(context.Background(), "9", region))

	stats, err := s.Stats(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PostalCodeCount)
	assert.Equal(t, 2, stats.ActiveWeightRanges, "inactive brackets are excluded")
	assert.Equal(t, 25.0, stats.PriceTotal)
	assert.True(t, stats.IsActive)
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _, _ := setup(t)

	region := validRegion("9")
	region.WeightRanges = append(region.WeightRanges, domain.WeightRange{
		ID: "range_top", Min: 64.001, Max: math.Inf(1), Price: 80, IsActive: true,
	})
	require.NoError(t, s.Save(context.Background(), "9", region))

	data, err := s.Export(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"max": null`, "open-ended bracket encodes as null")

	fresh, _, _ := setup(t)
	require.NoError(t, fresh.Import(context.Background(), data))

	imported, err := fresh.Get(context.Background(), "9")
	require.NoError(t, err)
	top := imported.WeightRanges[len(imported.WeightRanges)-1]
	assert.True(t, top.Unbounded(), "max:null decodes back to an unbounded bracket")
	assert.Equal(t, 80.0, top.Price)
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	s, persistence, _ := setup(t)

	require.Error(t, s.Import(context.Background(), []byte(`{"x":`)), "malformed JSON")

	badDoc := `{"9":{"id":"9","name":"","postalCodes":[],"weightRanges":[]}}`
	err := s.Import(context.Background(), []byte(badDoc))
	_, ok := domain.AsValidationError(err)
	require.True(t, ok, "one invalid region aborts the import")
	assert.Equal(t, 0, persistence.saves)
}

func TestGetAllPropagatesPersistenceErrors(t *testing.T) {
	s, persistence, _ := setup(t)
	persistence.failAll = errors.New("backend down")

	_, err := s.GetAll(context.Background())
	require.Error(t, err)
}

func TestNormalizeKeepsExplicitMetadata(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	region := validRegion("9")
	region.Metadata = domain.Metadata{CreatedAt: created, Version: "2.0.0", Notes: "legacy"}

	out := normalize("9", region)
	assert.Equal(t, created, out.Metadata.CreatedAt)
	assert.Equal(t, "2.0.0", out.Metadata.Version)
	assert.Equal(t, "legacy", out.Metadata.Notes)
}
