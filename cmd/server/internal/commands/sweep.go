package commands

import (
	"context"
	"time"

	"github.com/loomhq/loom/internal/jobs"
	"github.com/loomhq/loom/internal/logger"
	"github.com/loomhq/loom/internal/store"
)

type SweepCmd struct {
	Store StoreFlags `embed:""`

	RetentionDays int `help:"activity retention window in days" default:"90" env:"LOOM_ACTIVITY_RETENTION_DAYS"`
}

func (c *SweepCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	backend, closeBackend, err := c.Store.openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeBackend()

	// Background job with no request context: uses the unscoped client.
	sweeper := jobs.NewRetentionSweeper(
		store.NewUnscopedClient(backend),
		time.Duration(c.RetentionDays)*24*time.Hour,
	)
	return sweeper.Run(ctx)
}
