package asynqserver

import (
	"time"

	"github.com/hibiken/asynq"

	"github.com/mapleship/regions-backend/internal/cache"
	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/queue/processor"
	"github.com/mapleship/regions-backend/internal/queue/task"
	"github.com/mapleship/regions-backend/internal/worker"
)

func New(cfg config.Cache, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: 1,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

// NewScheduler registers the periodic connectivity probe and a slower drain
// safety net for queues left pending across restarts.
func NewScheduler(cfg *config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(
		RedisOptions(cfg.Cache),
		&asynq.SchedulerOpts{Location: time.UTC},
	)

	if _, err := scheduler.Register(cfg.Sync.ProbeInterval, task.NewProbeConnectivityTask()); err != nil {
		return nil, err
	}
	if _, err := scheduler.Register("@every 5m", task.NewDrainQueueTask()); err != nil {
		return nil, err
	}
	return scheduler, nil
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.ProbeConnectivityTaskName, processor.NewProbeConnectivityProcessor(workers))
	mux.Handle(task.DrainQueueTaskName, processor.NewDrainQueueProcessor(workers))
	queues := map[string]int{
		task.SyncQueueName: 1,
	}
	return mux, queues
}
