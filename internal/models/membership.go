package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership grants a user a role within a workspace.
// At most one membership row exists per (user, workspace) pair.
type Membership struct {
	UserID      uuid.UUID `db:"user_id"`
	WorkspaceID uuid.UUID `db:"workspace_id"`
	Role        Role      `db:"role"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ProjectMembership grants a user a role within a single project.
// Structurally identical to Membership but keyed on the project.
type ProjectMembership struct {
	UserID    uuid.UUID `db:"user_id"`
	ProjectID uuid.UUID `db:"project_id"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
