package tenant

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceFromContext(t *testing.T) {
	ctx := context.Background()

	t.Run("unset by default", func(t *testing.T) {
		id, ok := WorkspaceFromContext(ctx)
		require.False(t, ok)
		require.Equal(t, uuid.Nil, id)
	})

	t.Run("set and get", func(t *testing.T) {
		want := uuid.Must(uuid.NewV7())
		scoped := WithWorkspace(ctx, want)

		got, ok := WorkspaceFromContext(scoped)
		require.True(t, ok)
		require.Equal(t, want, got)

		// Original context is unaffected
		_, ok = WorkspaceFromContext(ctx)
		require.False(t, ok)
	})

	t.Run("last write wins", func(t *testing.T) {
		first := uuid.Must(uuid.NewV7())
		second := uuid.Must(uuid.NewV7())

		scoped := WithWorkspace(WithWorkspace(ctx, first), second)

		got, ok := WorkspaceFromContext(scoped)
		require.True(t, ok)
		require.Equal(t, second, got)
	})

	t.Run("nil workspace is a no-op", func(t *testing.T) {
		scoped := WithWorkspace(ctx, uuid.Nil)
		_, ok := WorkspaceFromContext(scoped)
		require.False(t, ok)
	})

	t.Run("clear masks an active workspace", func(t *testing.T) {
		scoped := WithWorkspace(ctx, uuid.Must(uuid.NewV7()))
		cleared := ClearWorkspace(scoped)

		_, ok := WorkspaceFromContext(cleared)
		require.False(t, ok)

		// The scoped chain itself still sees its workspace
		_, ok = WorkspaceFromContext(scoped)
		require.True(t, ok)
	})
}

// TestConcurrentIsolation runs many pairs of concurrent logical requests,
// each activating its own workspace and reading it back across yield points.
// No request may ever observe another request's workspace.
func TestConcurrentIsolation(t *testing.T) {
	const pairs = 200

	var wg sync.WaitGroup
	for range pairs {
		w1 := uuid.Must(uuid.NewV7())
		w2 := uuid.Must(uuid.NewV7())

		for _, want := range []uuid.UUID{w1, w2} {
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx := WithWorkspace(context.Background(), want)
				for range 10 {
					got, ok := WorkspaceFromContext(ctx)
					if !ok || got != want {
						t.Errorf("workspace leaked across requests: got %s, want %s", got, want)
						return
					}
				}
			}()
		}
	}
	wg.Wait()
}
