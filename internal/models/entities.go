package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantOwned is embedded by every entity that belongs to a workspace.
// Entities carrying it must never be read or written without an active,
// matching workspace scope (or the deliberately unscoped client).
type TenantOwned struct {
	WorkspaceID uuid.UUID `db:"workspace_id"`
}

// GetWorkspaceID returns the owning workspace id, or uuid.Nil if unset.
func (t *TenantOwned) GetWorkspaceID() uuid.UUID { return t.WorkspaceID }

// SetWorkspaceID assigns the owning workspace id.
func (t *TenantOwned) SetWorkspaceID(id uuid.UUID) { t.WorkspaceID = id }

// Project groups tasks, epics, milestones and wiki pages within a workspace.
type Project struct {
	ID uuid.UUID `db:"id"` // UUIDv7
	TenantOwned
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Status      string    `db:"status"` // "active", "archived"
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (p *Project) GetID() uuid.UUID { return p.ID }
func (p *Project) GetCreatedAt() time.Time { return p.CreatedAt }

// Task is a unit of work within a project.
type Task struct {
	ID uuid.UUID `db:"id"`
	TenantOwned
	ProjectID  uuid.UUID  `db:"project_id"`
	EpicID     *uuid.UUID `db:"epic_id"`
	Title      string     `db:"title"`
	Status     string     `db:"status"` // "todo", "in_progress", "done"
	Priority   int        `db:"priority"`
	AssigneeID *uuid.UUID `db:"assignee_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

func (t *Task) GetID() uuid.UUID { return t.ID }
func (t *Task) GetCreatedAt() time.Time { return t.CreatedAt }
func (t *Task) GetProjectID() uuid.UUID { return t.ProjectID }

// WikiPage is a document within a workspace, optionally attached to a project.
type WikiPage struct {
	ID uuid.UUID `db:"id"`
	TenantOwned
	ProjectID *uuid.UUID `db:"project_id"`
	Title     string     `db:"title"`
	Content   string     `db:"content"`
	AuthorID  uuid.UUID  `db:"author_id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (p *WikiPage) GetID() uuid.UUID { return p.ID }
func (p *WikiPage) GetCreatedAt() time.Time { return p.CreatedAt }
func (p *WikiPage) GetProjectID() uuid.UUID {
	if p.ProjectID == nil {
		return uuid.Nil
	}
	return *p.ProjectID
}

// Epic is a large body of work spanning multiple tasks.
type Epic struct {
	ID uuid.UUID `db:"id"`
	TenantOwned
	ProjectID   uuid.UUID `db:"project_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (e *Epic) GetID() uuid.UUID { return e.ID }
func (e *Epic) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *Epic) GetProjectID() uuid.UUID { return e.ProjectID }

// Milestone marks a target date within a project.
type Milestone struct {
	ID uuid.UUID `db:"id"`
	TenantOwned
	ProjectID uuid.UUID  `db:"project_id"`
	Name      string     `db:"name"`
	DueDate   *time.Time `db:"due_date"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (m *Milestone) GetID() uuid.UUID { return m.ID }
func (m *Milestone) GetCreatedAt() time.Time { return m.CreatedAt }
func (m *Milestone) GetProjectID() uuid.UUID { return m.ProjectID }

// Activity is an append-only audit record of an action within a workspace.
type Activity struct {
	ID uuid.UUID `db:"id"`
	TenantOwned
	ActorID    uuid.UUID `db:"actor_id"`
	Verb       string    `db:"verb"` // "created", "updated", "deleted", "commented"
	TargetType string    `db:"target_type"`
	TargetID   uuid.UUID `db:"target_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (a *Activity) GetID() uuid.UUID { return a.ID }
func (a *Activity) GetCreatedAt() time.Time { return a.CreatedAt }
