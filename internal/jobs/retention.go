// Package jobs holds trusted background jobs that deliberately operate
// across tenants through the unscoped store client.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/loomhq/loom/internal/store"
)

// RetentionSweeper deletes activity records older than the retention window
// across all workspaces. It runs with no request context, so it uses the
// unscoped client; this is one of the reviewed cross-tenant call sites.
type RetentionSweeper struct {
	client *store.UnscopedClient
	maxAge time.Duration
}

// NewRetentionSweeper creates a sweeper with the given retention window.
func NewRetentionSweeper(client *store.UnscopedClient, maxAge time.Duration) *RetentionSweeper {
	return &RetentionSweeper{client: client, maxAge: maxAge}
}

// Run performs one sweep. Transient store errors are retried with
// exponential backoff.
func (s *RetentionSweeper) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-s.maxAge)

	workspaces, err := s.client.Workspaces().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	log.Info().
		Time("cutoff", cutoff).
		Int("workspaces", len(workspaces)).
		Msg("Starting activity retention sweep")

	removed, err := backoff.Retry(ctx, func() (int64, error) {
		return s.client.Activities().Delete(ctx, store.Filter{CreatedBefore: &cutoff})
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(5))
	if err != nil {
		return fmt.Errorf("failed to sweep activities: %w", err)
	}

	log.Info().Int64("removed", removed).Msg("Activity retention sweep complete")
	return nil
}
