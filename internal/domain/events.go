package domain

import "time"

// Event is a state-change notification fanned out to subscribers. Delivery is
// synchronous and only reaches whoever is subscribed at notify time; there is
// no replay for late subscribers.
type Event interface {
	EventType() string
}

// Region update types.
const (
	UpdatePostalCodes = "postalCodes"
	UpdatePricing     = "pricing"
	UpdateStatus      = "status"
)

// RegionUpdateEvent signals that one region's configuration changed.
type RegionUpdateEvent struct {
	RegionID   string    `json:"regionId"`
	UpdateType string    `json:"updateType"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (RegionUpdateEvent) EventType() string { return "regionUpdate" }

// GlobalRefreshEvent asks consumers to reload everything.
type GlobalRefreshEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (GlobalRefreshEvent) EventType() string { return "globalRefresh" }

// DataOperationEvent reports the outcome of a bulk operation such as an
// import or export.
type DataOperationEvent struct {
	Operation string    `json:"operation"`
	Result    any       `json:"result,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (DataOperationEvent) EventType() string { return "dataOperation" }
