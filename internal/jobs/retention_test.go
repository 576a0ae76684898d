package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
	"github.com/loomhq/loom/internal/store/memory"
)

func seedActivity(t *testing.T, backend *memory.Backend, workspaceID uuid.UUID, age time.Duration) *models.Activity {
	t.Helper()
	created := time.Now().Add(-age)
	activity := &models.Activity{
		ID:         uuid.Must(uuid.NewV7()),
		ActorID:    uuid.Must(uuid.NewV7()),
		Verb:       "created",
		TargetType: "task",
		TargetID:   uuid.Must(uuid.NewV7()),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	activity.WorkspaceID = workspaceID
	require.NoError(t, backend.Activities().Create(context.Background(), activity))
	return activity
}

func TestRetentionSweep(t *testing.T) {
	backend := memory.NewBackend()
	ctx := context.Background()

	w1 := uuid.Must(uuid.NewV7())
	w2 := uuid.Must(uuid.NewV7())
	for _, ws := range []uuid.UUID{w1, w2} {
		now := time.Now()
		require.NoError(t, backend.Workspaces().Create(ctx, &models.Workspace{
			WorkspaceID: ws, Name: "ws", Slug: ws.String(), CreatedAt: now, UpdatedAt: now,
		}))
	}

	// Stale and fresh activity in both workspaces
	seedActivity(t, backend, w1, 120*24*time.Hour)
	seedActivity(t, backend, w2, 200*24*time.Hour)
	fresh1 := seedActivity(t, backend, w1, time.Hour)
	fresh2 := seedActivity(t, backend, w2, 24*time.Hour)

	sweeper := NewRetentionSweeper(store.NewUnscopedClient(backend), 90*24*time.Hour)

	// No workspace scope is ever activated; the sweep crosses tenants.
	require.NoError(t, sweeper.Run(ctx))

	remaining, err := backend.Activities().FindMany(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, remaining, 2)

	ids := []uuid.UUID{remaining[0].ID, remaining[1].ID}
	require.Contains(t, ids, fresh1.ID)
	require.Contains(t, ids, fresh2.ID)
}

func TestRetentionSweepEmptyStore(t *testing.T) {
	backend := memory.NewBackend()
	sweeper := NewRetentionSweeper(store.NewUnscopedClient(backend), 90*24*time.Hour)
	require.NoError(t, sweeper.Run(context.Background()))
}
