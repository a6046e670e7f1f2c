// Package migrate moves the legacy flat snapshot into the structured store
// exactly once. Idempotence rests on a persisted flag, not on whether the
// legacy file still exists: once the flag is set, a recreated snapshot file
// is never re-applied.
package migrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgsmath/pratik/internal/store"
)

const migratedFlag = "migrated"

type Coordinator struct {
	primary *store.SQLiteStore
	legacy  *store.SnapshotStore
	logger  *slog.Logger
}

func New(primary *store.SQLiteStore, legacy *store.SnapshotStore, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		primary: primary,
		legacy:  legacy,
		logger:  logger,
	}
}

// Run performs the one-time migration. Safe to call on every startup.
func (c *Coordinator) Run() error {
	flag, err := c.primary.GetMeta(migratedFlag)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("migrate: read flag: %w", err)
	}
	if flag == "true" {
		return nil
	}

	snapshot, err := c.legacy.Load()
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Nothing to migrate; still set the flag so we never look again.
	case err != nil:
		return fmt.Errorf("migrate: read legacy snapshot: %w", err)
	default:
		if err := c.primary.UpsertUserStats(snapshot); err != nil {
			return fmt.Errorf("migrate: apply legacy snapshot: %w", err)
		}
		if err := c.legacy.Delete(); err != nil {
			c.logger.Warn("failed to delete legacy snapshot", "path", c.legacy.Path(), "error", err)
		}
		c.logger.Info("legacy snapshot migrated",
			"totalQuestions", snapshot.TotalQuestions,
			"path", c.legacy.Path())
	}

	if err := c.primary.SetMeta(migratedFlag, "true"); err != nil {
		return fmt.Errorf("migrate: set flag: %w", err)
	}
	return nil
}
