package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/expense-tracker/docs/swagger"
	itemmigrations "github.com/ghuser/expense-tracker/migrations/item"
	"github.com/ghuser/expense-tracker/pkg/app"
	"github.com/ghuser/expense-tracker/pkg/auth"
	"github.com/ghuser/expense-tracker/pkg/cache"
	"github.com/ghuser/expense-tracker/pkg/config"
	"github.com/ghuser/expense-tracker/pkg/database"
	"github.com/ghuser/expense-tracker/pkg/events"
	"github.com/ghuser/expense-tracker/pkg/httpx"
	"github.com/ghuser/expense-tracker/pkg/logger"
	"github.com/ghuser/expense-tracker/pkg/migrator"
	"github.com/ghuser/expense-tracker/pkg/telemetry"
	itemApi "github.com/ghuser/expense-tracker/services/item/application/api"
	itemEvents "github.com/ghuser/expense-tracker/services/item/domain/events"
)

//	@title						Expense Tracker API
//	@version					1.0
//	@description				CRUD over expense items plus per-category spend totals.
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//	@host						localhost:8080
//	@BasePath					/
//	@schemes					http https
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
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

	log := logger.New(cfg)

	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
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
		os.Exit(1) //nolint:gocritic // startup failure
	}
	defer pool.Close()
	log.Info("database connected", "dialect", pool.Dialect())

	if cfg.MigrateOnStart {
		if err := migrate(ctx, pool); err != nil {
			log.Error("failed to apply migrations", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	health := httpx.HealthChecks{Database: pool}
	appConfig := &app.Application{Db: pool, Logger: log}

	if pool.Dialect() == database.DialectPostgres {
		eventBus, err := events.NewEventBus(pool, events.Options{ConsumerGroup: cfg.ServiceName + "-consumer"}, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck
		if err := eventBus.InitTopics(itemEvents.Topics...); err != nil {
			log.Error("failed to initialise event topics", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		appConfig.EventBus = eventBus
		health.EventBus = eventBus
	}

	var redisConn *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
		appConfig.Redis = redisClient
		health.Redis = redisClient
		redisConn = redisClient.Client()
	}

	var sessionHandlers *auth.SessionHandlers
	if cfg.AuthEnabled {
		store := auth.NewSessionStore(
			redisConn,
			[]byte(cfg.SessionAuthKey),
			[]byte(cfg.SessionEncryptionKey),
			cfg.Environment == config.EnvProduction,
		)
		tokens := auth.NewTokens([]byte(cfg.JWTSecret), cfg.ServiceName)
		appConfig.SessionStore = store
		appConfig.Auth = auth.RequireAuth(store, tokens, log)
		sessionHandlers = auth.NewSessionHandlers(store, tokens, log)
		log.Info("auth enabled", "session_backend", sessionBackend(redisConn))
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		middleware.RequestID,
		otelhttp.NewMiddleware(cfg.ServiceName),
		logger.Middleware(log),
	)

	r.Get("/health", httpx.HealthHandler(health))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if sessionHandlers != nil {
		r.Post("/auth/session", sessionHandlers.Login)
		r.Delete("/auth/session", sessionHandlers.Logout)
	}
	itemApi.ItemRoutes(r, appConfig)

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func migrate(ctx context.Context, pool *database.Database) error {
	files, err := itemmigrations.For(string(pool.Dialect()))
	if err != nil {
		return err
	}
	return migrator.Up(ctx, pool.DB(), string(pool.Dialect()), files)
}

func sessionBackend(c *redis.Client) string {
	if c == nil {
		return "cookie"
	}
	return "redis"
}
