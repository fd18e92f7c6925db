package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// ConfigVersion tags documents written by this version of the service.
const ConfigVersion = "3.0.0"

// DefaultRegionCount is the fixed identifier range "1".."8" that is
// materialized when no region document exists yet.
const DefaultRegionCount = 8

// RegionMap is the single persisted aggregate: every configured region keyed
// by its id. The storage layer has no sub-document granularity, the whole map
// is read and written as one document.
type RegionMap map[string]*Region

// Region is one configured delivery zone.
type Region struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	IsActive     bool          `json:"isActive"`
	PostalCodes  []string      `json:"postalCodes"`
	WeightRanges []WeightRange `json:"weightRanges"`
	LastUpdated  time.Time     `json:"lastUpdated"`
	Metadata     Metadata      `json:"metadata"`
}

// Metadata is free-form provenance attached to a region.
type Metadata struct {
	CreatedAt       time.Time `json:"createdAt"`
	Version         string    `json:"version"`
	Notes           string    `json:"notes,omitempty"`
	Source          string    `json:"source,omitempty"`
	PostalCodeCount int       `json:"postalCodeCount"`
}

// WeightRange maps a [Min, Max] shipment weight interval (both bounds
// inclusive) to a flat price. Max may be math.Inf(1) for the open-ended top
// bracket; on the wire that is encoded as null, matching documents written by
// earlier clients.
type WeightRange struct {
	ID       string
	Min      float64
	Max      float64
	Label    string
	Price    float64
	IsActive bool
}

type weightRangeJSON struct {
	ID       string   `json:"id"`
	Min      float64  `json:"min"`
	Max      *float64 `json:"max"`
	Label    string   `json:"label"`
	Price    float64  `json:"price"`
	IsActive bool     `json:"isActive"`
}

func (r WeightRange) MarshalJSON() ([]byte, error) {
	out := weightRangeJSON{
		ID:       r.ID,
		Min:      r.Min,
		Label:    r.Label,
		Price:    r.Price,
		IsActive: r.IsActive,
	}
	if !r.Unbounded() {
		max := r.Max
		out.Max = &max
	}
	return json.Marshal(out)
}

func (r *WeightRange) UnmarshalJSON(data []byte) error {
	var in weightRangeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.ID = in.ID
	r.Min = in.Min
	r.Label = in.Label
	r.Price = in.Price
	r.IsActive = in.IsActive
	if in.Max == nil {
		r.Max = math.Inf(1)
	} else {
		r.Max = *in.Max
	}
	return nil
}

// Unbounded reports whether the bracket has no upper weight limit.
func (r WeightRange) Unbounded() bool {
	return math.IsInf(r.Max, 1)
}

// Contains reports whether weight falls inside the bracket, bounds inclusive.
func (r WeightRange) Contains(weight float64) bool {
	return weight >= r.Min && weight <= r.Max
}

// DefaultWeightRanges returns the standard 13-bracket zero-price table
// spanning [0, +Inf).
func DefaultWeightRanges() []WeightRange {
	bounds := [][2]float64{
		{0, 11.000},
		{11.001, 15.000},
		{15.001, 20.000},
		{20.001, 25.000},
		{25.001, 30.000},
		{30.001, 35.000},
		{35.001, 40.000},
		{40.001, 45.000},
		{45.001, 50.000},
		{50.001, 55.000},
		{55.001, 60.000},
		{60.001, 64.000},
	}

	ranges := make([]WeightRange, 0, len(bounds)+1)
	for i, b := range bounds {
		ranges = append(ranges, WeightRange{
			ID:       "range_" + strconv.Itoa(i+1),
			Min:      b[0],
			Max:      b[1],
			Label:    strconv.FormatFloat(b[0], 'f', -1, 64) + "-" + strconv.FormatFloat(b[1], 'f', 3, 64) + " KGS",
			IsActive: true,
		})
	}
	ranges = append(ranges, WeightRange{
		ID:       "range_" + strconv.Itoa(len(bounds)+1),
		Min:      64.001,
		Max:      math.Inf(1),
		Label:    "64.000+ KGS",
		IsActive: true,
	})
	return ranges
}

// NewDefaultRegion builds an inactive region with the default price table and
// no postal codes.
func NewDefaultRegion(id string, now time.Time) *Region {
	return &Region{
		ID:           id,
		Name:         "Zone " + id,
		IsActive:     false,
		PostalCodes:  []string{},
		WeightRanges: DefaultWeightRanges(),
		LastUpdated:  now,
		Metadata: Metadata{
			CreatedAt: now,
			Version:   ConfigVersion,
			Source:    "default",
		},
	}
}

// DefaultRegionMap materializes regions "1".."8" with default configuration.
func DefaultRegionMap(now time.Time) RegionMap {
	regions := make(RegionMap, DefaultRegionCount)
	for i := 1; i <= DefaultRegionCount; i++ {
		id := strconv.Itoa(i)
		regions[id] = NewDefaultRegion(id, now)
	}
	return regions
}

// Clone returns a deep copy of the region.
func (r *Region) Clone() *Region {
	if r == nil {
		return nil
	}
	out := *r
	out.PostalCodes = append([]string(nil), r.PostalCodes...)
	out.WeightRanges = append([]WeightRange(nil), r.WeightRanges...)
	return &out
}

// Clone returns a deep copy of the map; queued snapshots must not alias live
// data.
func (m RegionMap) Clone() RegionMap {
	if m == nil {
		return nil
	}
	out := make(RegionMap, len(m))
	for id, region := range m {
		out[id] = region.Clone()
	}
	return out
}
