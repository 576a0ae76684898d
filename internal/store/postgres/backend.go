package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

// Config holds configuration for the PostgreSQL backend.
type Config struct {
	Pool PoolConfig

	// AutoMigrate runs pending migrations when the backend is created.
	AutoMigrate bool
}

// Backend implements store.Backend on PostgreSQL. All collections share one
// connection pool.
type Backend struct {
	pool        *pgxpool.Pool
	projects    *Collection[models.Project, *models.Project]
	tasks       *Collection[models.Task, *models.Task]
	wikiPages   *Collection[models.WikiPage, *models.WikiPage]
	epics       *Collection[models.Epic, *models.Epic]
	milestones  *Collection[models.Milestone, *models.Milestone]
	activities  *Collection[models.Activity, *models.Activity]
	workspaces  *WorkspaceStore
	memberships *MembershipStore
}

// NewBackend connects to PostgreSQL and builds the collections.
func NewBackend(ctx context.Context, cfg *Config) (*Backend, error) {
	pool, err := NewPool(ctx, &cfg.Pool)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &Backend{
		pool: pool,
		projects: newCollection[models.Project](pool, tableSpec[*models.Project]{
			table:   "projects",
			columns: []string{"id", "workspace_id", "name", "description", "status", "created_at", "updated_at"},
			values: func(p *models.Project) []any {
				return []any{p.ID, p.WorkspaceID, p.Name, p.Description, p.Status, p.CreatedAt, p.UpdatedAt}
			},
		}),
		tasks: newCollection[models.Task](pool, tableSpec[*models.Task]{
			table:      "tasks",
			columns:    []string{"id", "workspace_id", "project_id", "epic_id", "title", "status", "priority", "assignee_id", "created_at", "updated_at"},
			hasProject: true,
			values: func(t *models.Task) []any {
				return []any{t.ID, t.WorkspaceID, t.ProjectID, t.EpicID, t.Title, t.Status, t.Priority, t.AssigneeID, t.CreatedAt, t.UpdatedAt}
			},
		}),
		wikiPages: newCollection[models.WikiPage](pool, tableSpec[*models.WikiPage]{
			table:      "wiki_pages",
			columns:    []string{"id", "workspace_id", "project_id", "title", "content", "author_id", "created_at", "updated_at"},
			hasProject: true,
			values: func(p *models.WikiPage) []any {
				return []any{p.ID, p.WorkspaceID, p.ProjectID, p.Title, p.Content, p.AuthorID, p.CreatedAt, p.UpdatedAt}
			},
		}),
		epics: newCollection[models.Epic](pool, tableSpec[*models.Epic]{
			table:      "epics",
			columns:    []string{"id", "workspace_id", "project_id", "name", "description", "status", "created_at", "updated_at"},
			hasProject: true,
			values: func(e *models.Epic) []any {
				return []any{e.ID, e.WorkspaceID, e.ProjectID, e.Name, e.Description, e.Status, e.CreatedAt, e.UpdatedAt}
			},
		}),
		milestones: newCollection[models.Milestone](pool, tableSpec[*models.Milestone]{
			table:      "milestones",
			columns:    []string{"id", "workspace_id", "project_id", "name", "due_date", "status", "created_at", "updated_at"},
			hasProject: true,
			values: func(m *models.Milestone) []any {
				return []any{m.ID, m.WorkspaceID, m.ProjectID, m.Name, m.DueDate, m.Status, m.CreatedAt, m.UpdatedAt}
			},
		}),
		activities: newCollection[models.Activity](pool, tableSpec[*models.Activity]{
			table:   "activities",
			columns: []string{"id", "workspace_id", "actor_id", "verb", "target_type", "target_id", "created_at", "updated_at"},
			values: func(a *models.Activity) []any {
				return []any{a.ID, a.WorkspaceID, a.ActorID, a.Verb, a.TargetType, a.TargetID, a.CreatedAt, a.UpdatedAt}
			},
		}),
		workspaces:  NewWorkspaceStore(pool),
		memberships: NewMembershipStore(pool),
	}, nil
}

// Close releases the connection pool.
func (b *Backend) Close() {
	b.pool.Close()
}

// Pool exposes the underlying connection pool, for migrations and tests.
func (b *Backend) Pool() *pgxpool.Pool {
	return b.pool
}

func (b *Backend) Projects() store.Collection[*models.Project]     { return b.projects }
func (b *Backend) Tasks() store.Collection[*models.Task]           { return b.tasks }
func (b *Backend) WikiPages() store.Collection[*models.WikiPage]   { return b.wikiPages }
func (b *Backend) Epics() store.Collection[*models.Epic]           { return b.epics }
func (b *Backend) Milestones() store.Collection[*models.Milestone] { return b.milestones }
func (b *Backend) Activities() store.Collection[*models.Activity]  { return b.activities }
func (b *Backend) Workspaces() store.WorkspaceStore                { return b.workspaces }
func (b *Backend) Memberships() store.MembershipStore              { return b.memberships }
