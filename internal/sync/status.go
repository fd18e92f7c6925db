package sync

import "time"

// Status is the engine's externally visible synchronization state.
type Status string

const (
	// StatusLoading is the initial state before the startup probe finishes.
	StatusLoading Status = "loading"
	// StatusSyncing marks an in-flight remote read or write.
	StatusSyncing Status = "syncing"
	// StatusSynced means the last remote operation succeeded.
	StatusSynced Status = "synced"
	// StatusOffline means the remote store is believed unreachable.
	StatusOffline Status = "offline"
	// StatusError marks a failed remote operation; served data may be stale.
	StatusError Status = "error"
	// StatusPending means deferred writes are queued awaiting replay.
	StatusPending Status = "pending"
)

// StatusInfo is a snapshot of the engine state for callers that need to
// distinguish fresh data from fallback data.
type StatusInfo struct {
	Status            Status     `json:"status"`
	IsOnline          bool       `json:"isOnline"`
	LastSyncTime      *time.Time `json:"lastSyncTime,omitempty"`
	PendingOperations int        `json:"pendingOperations"`
}
