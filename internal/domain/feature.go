package domain

import (
	"encoding/json"
	"strings"
)

// FeatureCodeProperty is the feature property carrying the postal prefix
// (FSA) identifier in externally supplied boundary data.
const FeatureCodeProperty = "CFSAUID"

// FeatureCollection is the inbound geographic payload. Geometry is opaque to
// this service; only the postal-prefix property of each feature is read.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single geographic feature.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

// PostalPrefix extracts the normalized FSA identifier, or "" when the feature
// carries none.
func (f Feature) PostalPrefix() string {
	v, ok := f.Properties[FeatureCodeProperty]
	if !ok {
		return ""
	}
	code, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
