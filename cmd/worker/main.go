package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/expense-tracker/pkg/cache"
	"github.com/ghuser/expense-tracker/pkg/config"
	"github.com/ghuser/expense-tracker/pkg/database"
	"github.com/ghuser/expense-tracker/pkg/events"
	"github.com/ghuser/expense-tracker/pkg/logger"
	"github.com/ghuser/expense-tracker/pkg/telemetry"
	"github.com/ghuser/expense-tracker/services/item/application/subscribers"
	itemEvents "github.com/ghuser/expense-tracker/services/item/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("component", "worker")

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()

	eventBus, err := events.NewEventBus(pool, events.Options{ConsumerGroup: cfg.ServiceName + "-worker"}, log)
	if errors.Is(err, events.ErrNotPostgres) {
		log.Error("the worker consumes the PostgreSQL event tables; set DATABASE_URL to a postgres:// URL")
		os.Exit(1) //nolint:gocritic
	}
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.InitTopics(itemEvents.Topics...); err != nil {
		log.Error("failed to initialise event topics", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	var itemCache subscribers.ItemCache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		itemCache = cache.NewItemCache(redisClient)
		log.Info("redis connected")
	} else {
		log.Warn("REDIS_URL not set, events will only be logged")
	}

	subCtx, cancelSubs := context.WithCancel(ctx)
	defer cancelSubs()
	if err := subscribers.NewCacheSync(itemCache, log).Register(subCtx, eventBus); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancelSubs()

	// eventBus.Close (deferred) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}
