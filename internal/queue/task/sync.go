package task

import (
	"github.com/hibiken/asynq"
)

const (
	ProbeConnectivityTaskName = "probeConnectivityTask"
	DrainQueueTaskName        = "drainQueueTask"
	SyncQueueName             = "syncQueue"
)

// NewProbeConnectivityTask pings the remote store and flips the engine's
// connectivity on transitions.
func NewProbeConnectivityTask() *asynq.Task {
	return asynq.NewTask(
		ProbeConnectivityTaskName,
		nil,
		asynq.MaxRetry(0),
		asynq.Queue(SyncQueueName),
	)
}

// NewDrainQueueTask replays deferred writes while the engine is online. A
// no-op when the offline queue is empty.
func NewDrainQueueTask() *asynq.Task {
	return asynq.NewTask(
		DrainQueueTaskName,
		nil,
		asynq.MaxRetry(0),
		asynq.Queue(SyncQueueName),
	)
}
