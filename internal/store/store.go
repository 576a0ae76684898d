// Package store defines the data-access surface for tenant-owned entities
// and the scoped client that enforces workspace isolation in front of it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/models"
)

// Sentinel errors for common error conditions
var (
	ErrNotFound           = errors.New("record not found")
	ErrAlreadyExists      = errors.New("record already exists")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrWorkspaceExists    = errors.New("workspace already exists")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrScopingViolation   = errors.New("workspace scoping violation")
	ErrUnsupportedFilter  = errors.New("filter not supported for entity")
)

// Record is implemented by every tenant-owned entity.
type Record interface {
	GetID() uuid.UUID
	GetWorkspaceID() uuid.UUID
	SetWorkspaceID(uuid.UUID)
	GetCreatedAt() time.Time
}

// RecordOf constrains a type parameter to a pointer to a concrete entity
// struct that satisfies Record. Backends use it to instantiate generic
// collections per entity type.
type RecordOf[R any] interface {
	*R
	Record
}

// Filter narrows collection queries. Zero-value fields are ignored.
type Filter struct {
	ID            *uuid.UUID
	WorkspaceID   *uuid.UUID
	ProjectID     *uuid.UUID
	CreatedBefore *time.Time
	Limit         int
}

// Collection is the closed operation surface over one tenant-owned entity
// type. Every backend provides one per entity; the scoped client decorates
// them with workspace enforcement.
type Collection[T Record] interface {
	FindOne(ctx context.Context, filter Filter) (T, error)
	FindMany(ctx context.Context, filter Filter) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Create(ctx context.Context, rec T) error
	Update(ctx context.Context, rec T) error

	// Delete removes all records matching the filter and returns the
	// number removed.
	Delete(ctx context.Context, filter Filter) (int64, error)
}

// WorkspaceStore manages the workspaces themselves. Workspaces are the
// tenant boundary, not tenant-owned data, so access is never scoped.
type WorkspaceStore interface {
	Create(ctx context.Context, ws *models.Workspace) error
	Get(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error)
	List(ctx context.Context) ([]*models.Workspace, error)
	Delete(ctx context.Context, workspaceID uuid.UUID) error
}

// MembershipStore manages (user, workspace, role) and (user, project, role)
// grants. Membership rows are global lookup data consulted before a workspace
// scope exists, so access is never scoped.
type MembershipStore interface {
	GetWorkspaceMember(ctx context.Context, userID, workspaceID uuid.UUID) (*models.Membership, error)
	PutWorkspaceMember(ctx context.Context, m *models.Membership) error
	RemoveWorkspaceMember(ctx context.Context, userID, workspaceID uuid.UUID) error
	ListWorkspaceMembers(ctx context.Context, workspaceID uuid.UUID) ([]*models.Membership, error)

	GetProjectMember(ctx context.Context, userID, projectID uuid.UUID) (*models.ProjectMembership, error)
	PutProjectMember(ctx context.Context, m *models.ProjectMembership) error
}

// Backend is the raw storage implementation behind the scoped and unscoped
// clients. The set of tenant-owned collections is closed: adding an entity
// type here is what puts it under workspace enforcement.
type Backend interface {
	Projects() Collection[*models.Project]
	Tasks() Collection[*models.Task]
	WikiPages() Collection[*models.WikiPage]
	Epics() Collection[*models.Epic]
	Milestones() Collection[*models.Milestone]
	Activities() Collection[*models.Activity]

	Workspaces() WorkspaceStore
	Memberships() MembershipStore
}
