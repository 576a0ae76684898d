package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

func seedTask(t *testing.T, c *Collection[models.Task, *models.Task], workspaceID, projectID uuid.UUID, title string, createdAt time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: projectID,
		Title:     title,
		Status:    "todo",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	task.WorkspaceID = workspaceID
	require.NoError(t, c.Create(context.Background(), task))
	return task
}

func TestCollectionCRUD(t *testing.T) {
	c := NewCollection[models.Task, *models.Task]()
	ctx := context.Background()

	workspaceID := uuid.Must(uuid.NewV7())
	projectID := uuid.Must(uuid.NewV7())
	task := seedTask(t, c, workspaceID, projectID, "write tests", time.Now())

	t.Run("create rejects duplicate id", func(t *testing.T) {
		require.ErrorIs(t, c.Create(ctx, task), store.ErrAlreadyExists)
	})

	t.Run("find one by id", func(t *testing.T) {
		got, err := c.FindOne(ctx, store.Filter{ID: &task.ID})
		require.NoError(t, err)
		require.Equal(t, task.Title, got.Title)

		// Returned record is a copy
		got.Title = "mutated"
		again, err := c.FindOne(ctx, store.Filter{ID: &task.ID})
		require.NoError(t, err)
		require.Equal(t, "write tests", again.Title)
	})

	t.Run("find one missing", func(t *testing.T) {
		missing := uuid.Must(uuid.NewV7())
		_, err := c.FindOne(ctx, store.Filter{ID: &missing})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		task.Status = "done"
		require.NoError(t, c.Update(ctx, task))

		got, err := c.FindOne(ctx, store.Filter{ID: &task.ID})
		require.NoError(t, err)
		require.Equal(t, "done", got.Status)
	})

	t.Run("update cannot change workspace", func(t *testing.T) {
		moved := *task
		moved.WorkspaceID = uuid.Must(uuid.NewV7())
		require.ErrorIs(t, c.Update(ctx, &moved), store.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		removed, err := c.Delete(ctx, store.Filter{ID: &task.ID})
		require.NoError(t, err)
		require.EqualValues(t, 1, removed)

		_, err = c.FindOne(ctx, store.Filter{ID: &task.ID})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCollectionFilters(t *testing.T) {
	c := NewCollection[models.Task, *models.Task]()
	ctx := context.Background()

	workspaceID := uuid.Must(uuid.NewV7())
	p1 := uuid.Must(uuid.NewV7())
	p2 := uuid.Must(uuid.NewV7())

	now := time.Now()
	old := seedTask(t, c, workspaceID, p1, "old", now.Add(-48*time.Hour))
	seedTask(t, c, workspaceID, p1, "recent", now.Add(-time.Hour))
	seedTask(t, c, workspaceID, p2, "other project", now)

	t.Run("newest first", func(t *testing.T) {
		tasks, err := c.FindMany(ctx, store.Filter{})
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		require.Equal(t, "other project", tasks[0].Title)
		require.Equal(t, "old", tasks[2].Title)
	})

	t.Run("by project", func(t *testing.T) {
		tasks, err := c.FindMany(ctx, store.Filter{ProjectID: &p1})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
	})

	t.Run("created before", func(t *testing.T) {
		cutoff := now.Add(-24 * time.Hour)
		tasks, err := c.FindMany(ctx, store.Filter{CreatedBefore: &cutoff})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.Equal(t, old.ID, tasks[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		tasks, err := c.FindMany(ctx, store.Filter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
	})

	t.Run("count", func(t *testing.T) {
		n, err := c.Count(ctx, store.Filter{ProjectID: &p2})
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})
}

func TestProjectFilterUnsupported(t *testing.T) {
	// Activities carry no project id, so narrowing by project is a caller bug.
	c := NewCollection[models.Activity, *models.Activity]()

	projectID := uuid.Must(uuid.NewV7())
	_, err := c.FindMany(context.Background(), store.Filter{ProjectID: &projectID})
	require.ErrorIs(t, err, store.ErrUnsupportedFilter)
}
