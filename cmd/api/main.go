package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChhatbarPooja/crm-api/internal/api"
	"github.com/ChhatbarPooja/crm-api/internal/infrastructure/config"
	mongodb "github.com/ChhatbarPooja/crm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ChhatbarPooja/crm-api/internal/infrastructure/db/redis"
	"github.com/ChhatbarPooja/crm-api/pkg/logger"
)

// @title        CRM API
// @version      1.0
// @description  REST backend for leads, users, and notifications.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	for name, idx := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"leads":         mongodb.NewLeadRepository(db),
		"users":         mongodb.NewUserRepository(db),
		"notifications": mongodb.NewNotificationRepository(db),
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	e, dispatcher := api.NewRouter(db, rdb, api.Options{
		JWTSecret:    cfg.JWTSecret,
		EventWorkers: cfg.EventWorkers,
	}, log)

	// The dispatcher outlives the signal context: requests still draining
	// during shutdown emit events, and those should be handled, not dropped.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	dispatcher.Start(dispatchCtx)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("crm api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	stopDispatch()
}
