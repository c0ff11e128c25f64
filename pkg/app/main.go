package app

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/expense-tracker/pkg/cache"
	"github.com/ghuser/expense-tracker/pkg/database"
	"github.com/ghuser/expense-tracker/pkg/events"
	"github.com/ghuser/expense-tracker/pkg/logger"
)

// Application holds the shared infrastructure built once in main and handed
// to route registration. Optional pieces are nil when switched off:
//
//   - EventBus: nil unless DATABASE_URL is PostgreSQL
//   - Redis: nil when REDIS_URL is empty
//   - Auth, SessionStore: nil unless AUTH_ENABLED=true
//
// Logging goes through the trace-aware logger; prefer the *Context methods
// inside requests so trace_id, span_id and request_id are attached:
//
//	app.Logger.InfoContext(ctx, "item updated", "item_id", id)
type Application struct {
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store
	Auth         func(http.Handler) http.Handler
}
