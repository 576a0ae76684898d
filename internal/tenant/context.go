// Package tenant carries the active workspace scope for one logical request
// through its context chain. The scoped store client refuses to touch
// tenant-owned data unless a workspace has been activated here first.
package tenant

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const workspaceContextKey contextKey = iota

// WithWorkspace returns a context with the given workspace activated for all
// data access performed through it. Activating uuid.Nil is a no-op; a later
// call overwrites an earlier one for the remainder of the chain.
func WithWorkspace(ctx context.Context, workspaceID uuid.UUID) context.Context {
	if workspaceID == uuid.Nil {
		return ctx
	}
	return context.WithValue(ctx, workspaceContextKey, workspaceID)
}

// WorkspaceFromContext returns the active workspace id, or false if no
// workspace has been activated on this context chain.
func WorkspaceFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(workspaceContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ClearWorkspace returns a context on which no workspace is active, masking
// any workspace activated further up the chain.
func ClearWorkspace(ctx context.Context) context.Context {
	return context.WithValue(ctx, workspaceContextKey, uuid.Nil)
}
