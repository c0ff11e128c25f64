// Command migrate applies pending item migrations to DATABASE_URL and exits.
// The API does the same on boot unless MIGRATE_ON_START=false.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	itemmigrations "github.com/ghuser/expense-tracker/migrations/item"
	"github.com/ghuser/expense-tracker/pkg/config"
	"github.com/ghuser/expense-tracker/pkg/database"
	"github.com/ghuser/expense-tracker/pkg/logger"
	"github.com/ghuser/expense-tracker/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("component", "migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg.DatabaseURL, log); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, url string, log logger.Logger) error {
	pool, err := database.NewPool(ctx, url, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	dialect := string(pool.Dialect())
	files, err := itemmigrations.For(dialect)
	if err != nil {
		return err
	}

	n, err := migrator.UpCount(ctx, pool.DB(), dialect, files)
	if err != nil {
		return err
	}
	log.Info("migrations applied", "dialect", dialect, "count", n)
	return nil
}
