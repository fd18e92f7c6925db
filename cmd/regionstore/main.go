package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/db"
	"github.com/mapleship/regions-backend/internal/repository"
	"github.com/mapleship/regions-backend/internal/server"
	"github.com/mapleship/regions-backend/internal/storeapi"
	"github.com/mapleship/regions-backend/pkg/logger"
)

// regionstore is the reference implementation of the cloud region store the
// sync engine talks to: the region map as one MySQL-backed document behind
// the /regions REST contract.
func main() {
	cfg := config.MustLoad()

	logger.Setup(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting region store", zap.String("env", cfg.Env))

	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		logger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			logger.Error("error when closing", zap.Error(err))
		}
	}()
	logger.Info("mysql connection done")

	repos := repository.NewRepositories(dbMySQL)
	handlers := storeapi.NewHandler(repos, cfg)

	srv := server.NewServer(cfg, handlers.Init())
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		logger.Error("failed to stop server", zap.Error(err))
	}

	logger.Info("region store stopped")
}
