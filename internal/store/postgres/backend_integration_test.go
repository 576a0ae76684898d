//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
	"github.com/loomhq/loom/internal/tenant"
)

func setupPostgresBackend(t *testing.T, ctx context.Context) (*Backend, func()) {
	// Start postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	backend, err := NewBackend(ctx, &Config{
		Pool:        PoolConfig{ConnString: connString},
		AutoMigrate: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		backend.Close()
		_ = container.Terminate(ctx)
	}

	return backend, cleanup
}

func seedWorkspace(t *testing.T, ctx context.Context, backend *Backend) uuid.UUID {
	t.Helper()
	workspaceID := uuid.Must(uuid.NewV7())
	now := time.Now()
	require.NoError(t, backend.Workspaces().Create(ctx, &models.Workspace{
		WorkspaceID: workspaceID,
		Name:        "ws-" + workspaceID.String()[:8],
		Slug:        workspaceID.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
	return workspaceID
}

func TestIntegration_ScopedLifecycle(t *testing.T) {
	ctx := context.Background()
	backend, cleanup := setupPostgresBackend(t, ctx)
	defer cleanup()

	client := store.NewClient(backend, store.ClientConfig{})

	w1 := seedWorkspace(t, ctx, backend)
	w2 := seedWorkspace(t, ctx, backend)

	scoped1 := tenant.WithWorkspace(ctx, w1)
	scoped2 := tenant.WithWorkspace(ctx, w2)

	var projectID uuid.UUID

	t.Run("create project in scope", func(t *testing.T) {
		now := time.Now()
		project := &models.Project{
			ID:        uuid.Must(uuid.NewV7()),
			Name:      "launch",
			Status:    "active",
			CreatedAt: now,
			UpdatedAt: now,
		}

		require.NoError(t, client.Projects().Create(scoped1, project))
		require.Equal(t, w1, project.WorkspaceID, "workspace injected from scope")
		projectID = project.ID
	})

	t.Run("create and list tasks", func(t *testing.T) {
		for _, title := range []string{"first", "second"} {
			now := time.Now()
			require.NoError(t, client.Tasks().Create(scoped1, &models.Task{
				ID:        uuid.Must(uuid.NewV7()),
				ProjectID: projectID,
				Title:     title,
				Status:    "todo",
				CreatedAt: now,
				UpdatedAt: now,
			}))
		}

		tasks, err := client.Tasks().FindMany(scoped1, store.Filter{})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		require.Equal(t, "second", tasks[0].Title, "newest first")
	})

	t.Run("other workspace sees nothing", func(t *testing.T) {
		tasks, err := client.Tasks().FindMany(scoped2, store.Filter{})
		require.NoError(t, err)
		require.Empty(t, tasks)

		count, err := client.Tasks().Count(scoped2, store.Filter{})
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("no scope fails closed", func(t *testing.T) {
		_, err := client.Tasks().FindMany(ctx, store.Filter{})
		require.ErrorIs(t, err, store.ErrScopingViolation)
	})

	t.Run("update stays inside the workspace", func(t *testing.T) {
		tasks, err := client.Tasks().FindMany(scoped1, store.Filter{})
		require.NoError(t, err)
		require.NotEmpty(t, tasks)

		task := tasks[0]
		task.Status = "done"
		task.UpdatedAt = time.Now()
		require.NoError(t, client.Tasks().Update(scoped1, task))

		got, err := client.Tasks().FindOne(scoped1, store.Filter{ID: &task.ID})
		require.NoError(t, err)
		require.Equal(t, "done", got.Status)

		// The same row is invisible to the other tenant
		_, err = client.Tasks().FindOne(scoped2, store.Filter{ID: &task.ID})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unscoped client crosses tenants", func(t *testing.T) {
		unscoped := store.NewUnscopedClient(backend)

		now := time.Now()
		other := &models.Task{
			ID:        uuid.Must(uuid.NewV7()),
			ProjectID: projectID,
			Title:     "admin seeded",
			Status:    "todo",
			CreatedAt: now,
			UpdatedAt: now,
		}
		other.WorkspaceID = w1
		require.NoError(t, unscoped.Tasks().Create(ctx, other))

		all, err := unscoped.Tasks().FindMany(ctx, store.Filter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
	})

	t.Run("delete by project filter", func(t *testing.T) {
		pid := projectID
		removed, err := client.Tasks().Delete(scoped1, store.Filter{ProjectID: &pid})
		require.NoError(t, err)
		require.EqualValues(t, 3, removed)
	})
}

func TestIntegration_Memberships(t *testing.T) {
	ctx := context.Background()
	backend, cleanup := setupPostgresBackend(t, ctx)
	defer cleanup()

	workspaceID := seedWorkspace(t, ctx, backend)
	userID := uuid.Must(uuid.NewV7())

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, backend.Memberships().PutWorkspaceMember(ctx, &models.Membership{
			UserID:      userID,
			WorkspaceID: workspaceID,
			Role:        models.RoleMember,
		}))

		m, err := backend.Memberships().GetWorkspaceMember(ctx, userID, workspaceID)
		require.NoError(t, err)
		require.Equal(t, models.RoleMember, m.Role)
	})

	t.Run("put is an upsert", func(t *testing.T) {
		require.NoError(t, backend.Memberships().PutWorkspaceMember(ctx, &models.Membership{
			UserID:      userID,
			WorkspaceID: workspaceID,
			Role:        models.RoleAdmin,
		}))

		m, err := backend.Memberships().GetWorkspaceMember(ctx, userID, workspaceID)
		require.NoError(t, err)
		require.Equal(t, models.RoleAdmin, m.Role)
	})

	t.Run("missing membership", func(t *testing.T) {
		_, err := backend.Memberships().GetWorkspaceMember(ctx, uuid.Must(uuid.NewV7()), workspaceID)
		require.ErrorIs(t, err, store.ErrMembershipNotFound)
	})

	t.Run("workspace cascade removes memberships", func(t *testing.T) {
		require.NoError(t, backend.Workspaces().Delete(ctx, workspaceID))

		_, err := backend.Memberships().GetWorkspaceMember(ctx, userID, workspaceID)
		require.ErrorIs(t, err, store.ErrMembershipNotFound)
	})
}

func TestIntegration_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backend, cleanup := setupPostgresBackend(t, ctx)
	defer cleanup()

	// Already migrated once by NewBackend
	require.NoError(t, Migrate(ctx, backend.Pool()))
}
