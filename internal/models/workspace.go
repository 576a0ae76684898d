package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace represents a tenant boundary. All business data belongs to
// exactly one workspace, keyed by WorkspaceID.
type Workspace struct {
	WorkspaceID uuid.UUID `db:"workspace_id"` // UUIDv7
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
