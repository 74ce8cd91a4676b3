// Package admin performs the indexer's idempotent startup bootstrap:
// index template, today's daily indices + aliases, and a retention
// policy, per spec §4.7 "Index admin at startup". Grounded on the
// teacher's idempotent schema-bootstrap call in cmd/sercha-core/main.go
// (NewDB → InitSchema, run once at process start, safe to rerun).
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

const defaultRetentionDays = 90

// Config tunes the bootstrap step.
type Config struct {
	Store         driven.IndexStore
	RetentionDays int
	Logger        *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.RetentionDays <= 0 {
		c.RetentionDays = defaultRetentionDays
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Bootstrap runs three idempotent admin operations at startup:
// template, today's indices+aliases, and the retention policy. It does
// not attach the policy to indices that already exist. A
// policy-support failure is logged and does not fail Bootstrap.
func Bootstrap(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()

	if err := cfg.Store.EnsureTemplate(ctx); err != nil {
		return fmt.Errorf("ensure index template: %w", err)
	}
	cfg.Logger.Info("index template ensured")

	today := time.Now().UTC().Format("2006-01-02")
	if err := cfg.Store.EnsureDailyIndices(ctx, today); err != nil {
		return fmt.Errorf("ensure daily indices for %s: %w", today, err)
	}
	cfg.Logger.Info("daily indices and aliases ensured", "date", today)

	if err := cfg.Store.EnsureRetentionPolicy(ctx, cfg.RetentionDays); err != nil {
		cfg.Logger.Warn("retention policy unsupported or failed, continuing without it", "error", err)
		return nil
	}
	cfg.Logger.Info("retention policy ensured", "retention_days", cfg.RetentionDays)
	return nil
}

// RollDailyIndices creates the indices and aliases for the given date.
// Nothing in this module calls it on a schedule; after startup, a new
// day's indices exist only once a caller invokes it for that date.
func RollDailyIndices(ctx context.Context, store driven.IndexStore, date string) error {
	return store.EnsureDailyIndices(ctx, date)
}
