package commands

import (
	"context"

	"github.com/loomhq/loom/internal/logger"
	"github.com/loomhq/loom/internal/store/postgres"
)

type MigrateCmd struct {
	Postgres PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	if err := c.Postgres.Validate(); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, &postgres.PoolConfig{ConnString: c.Postgres.ConnString})
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.Migrate(ctx, pool)
}
