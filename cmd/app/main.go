package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	apiHttp "github.com/mapleship/regions-backend/internal/api/http"
	"github.com/mapleship/regions-backend/internal/cache"
	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/internal/notifier"
	"github.com/mapleship/regions-backend/internal/queue/asynqserver"
	queueClient "github.com/mapleship/regions-backend/internal/queue/client"
	"github.com/mapleship/regions-backend/internal/queue/task"
	"github.com/mapleship/regions-backend/internal/remote"
	"github.com/mapleship/regions-backend/internal/server"
	"github.com/mapleship/regions-backend/internal/service"
	"github.com/mapleship/regions-backend/internal/store"
	syncengine "github.com/mapleship/regions-backend/internal/sync"
	"github.com/mapleship/regions-backend/internal/worker"
	"github.com/mapleship/regions-backend/pkg/logger"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	logger.Setup(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting regions backend", zap.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	// Durable local cache
	kv, err := cache.NewKV(cfg.Cache)
	if err != nil {
		logger.Error("durable cache init failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("durable cache ready", zap.String("type", cfg.Cache.Type))

	// Change notifier and sync engine
	events := notifier.New()
	unsubscribe := events.Subscribe(func(event domain.Event) {
		logger.Debug("state change", zap.String("event_type", event.EventType()))
	})
	defer unsubscribe()

	remoteClient := remote.NewClient(cfg.Remote)
	engine := syncengine.New(syncengine.Deps{
		Remote:   remoteClient,
		KV:       kv,
		Events:   events,
		CacheTTL: cfg.Sync.CacheTTL,
	})

	initCtx, cancelInit := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
	engine.Init(initCtx)
	cancelInit()

	// Services, Store & API Handlers
	regionStore := store.New(engine, events)
	services := service.NewServices(service.Deps{
		Store:    regionStore,
		Engine:   engine,
		Notifier: events,
	})
	handlers := apiHttp.NewHandlers(services, cfg)

	// Background sync tasks need the redis-backed queue; with the memory
	// cache the engine still re-probes on reads, just without the scheduler.
	var (
		asynqSrv  *asynq.Server
		scheduler *asynq.Scheduler
	)
	if cfg.Cache.Type != config.CacheTypeMemory {
		workers := worker.NewWorkers(worker.Deps{Engine: engine})
		srv, mux := asynqserver.New(cfg.Cache, workers)
		asynqSrv = srv
		go func() {
			if err := asynqSrv.Run(mux); err != nil {
				logger.Error("asynq server stopped", zap.Error(err))
			}
		}()

		scheduler, err = asynqserver.NewScheduler(cfg)
		if err != nil {
			logger.Error("scheduler init failed", zap.Error(err))
			os.Exit(1)
		}
		go func() {
			if err := scheduler.Run(); err != nil {
				logger.Error("scheduler stopped", zap.Error(err))
			}
		}()

		client := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
		defer client.Close()
		queueClient.SetClient(client)

		if _, err := client.Enqueue(task.NewProbeConnectivityTask()); err != nil {
			logger.Warn("initial connectivity probe enqueue failed", zap.Error(err))
		}
	} else {
		logger.Info("memory cache configured, background sync tasks disabled")
	}

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if scheduler != nil {
		scheduler.Shutdown()
	}
	if asynqSrv != nil {
		asynqSrv.Shutdown()
	}
	if err := srv.Stop(ctx); err != nil {
		logger.Error("failed to stop server", zap.Error(err))
	}
	engine.Shutdown(ctx)

	logger.Info("app stopped")
}
