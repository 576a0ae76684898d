package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/tenant"
)

// ScopingViolationError reports an operation against a tenant-owned entity
// that was attempted without an active workspace, or with a workspace id that
// contradicts the active one. Either way it is a handler bug, not bad user
// input: the missing or mismatched scope must be fixed at the call site.
type ScopingViolationError struct {
	Entity   string
	Op       string
	Active   uuid.UUID // uuid.Nil when no workspace was active
	Supplied uuid.UUID // conflicting filter/payload value, uuid.Nil if absent
}

func (e *ScopingViolationError) Error() string {
	if e.Active == uuid.Nil {
		return fmt.Sprintf("scoping violation: %s on %s with no active workspace", e.Op, e.Entity)
	}
	return fmt.Sprintf("scoping violation: %s on %s supplied workspace %s but active workspace is %s",
		e.Op, e.Entity, e.Supplied, e.Active)
}

// Is makes the error matchable via errors.Is(err, ErrScopingViolation).
func (e *ScopingViolationError) Is(target error) bool {
	return target == ErrScopingViolation
}

// scoped decorates a backend collection with workspace enforcement. Every
// operation resolves the active workspace from the context and either merges
// it into the filter/payload or fails closed before the backend is touched.
type scoped[T Record] struct {
	entity   string
	inner    Collection[T]
	disabled bool
}

func newScoped[T Record](entity string, inner Collection[T], disabled bool) Collection[T] {
	return &scoped[T]{entity: entity, inner: inner, disabled: disabled}
}

// scopeFilter merges the active workspace into the caller's filter. A filter
// that already names a different workspace indicates the caller mixed up
// tenants, which is rejected rather than honored.
func (s *scoped[T]) scopeFilter(ctx context.Context, op string, filter Filter) (Filter, error) {
	active, ok := tenant.WorkspaceFromContext(ctx)
	if !ok {
		return filter, &ScopingViolationError{Entity: s.entity, Op: op}
	}
	if filter.WorkspaceID != nil && *filter.WorkspaceID != active {
		return filter, &ScopingViolationError{Entity: s.entity, Op: op, Active: active, Supplied: *filter.WorkspaceID}
	}
	filter.WorkspaceID = &active
	return filter, nil
}

// scopeRecord injects the active workspace into a write payload, or rejects
// the write when the payload names a different workspace.
func (s *scoped[T]) scopeRecord(ctx context.Context, op string, rec T) error {
	active, ok := tenant.WorkspaceFromContext(ctx)
	if !ok {
		return &ScopingViolationError{Entity: s.entity, Op: op}
	}
	if supplied := rec.GetWorkspaceID(); supplied != uuid.Nil && supplied != active {
		return &ScopingViolationError{Entity: s.entity, Op: op, Active: active, Supplied: supplied}
	}
	rec.SetWorkspaceID(active)
	return nil
}

func (s *scoped[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	if s.disabled {
		return s.inner.FindOne(ctx, filter)
	}
	filter, err := s.scopeFilter(ctx, "find_one", filter)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.inner.FindOne(ctx, filter)
}

func (s *scoped[T]) FindMany(ctx context.Context, filter Filter) ([]T, error) {
	if s.disabled {
		return s.inner.FindMany(ctx, filter)
	}
	filter, err := s.scopeFilter(ctx, "find_many", filter)
	if err != nil {
		return nil, err
	}
	return s.inner.FindMany(ctx, filter)
}

func (s *scoped[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	if s.disabled {
		return s.inner.Count(ctx, filter)
	}
	filter, err := s.scopeFilter(ctx, "count", filter)
	if err != nil {
		return 0, err
	}
	return s.inner.Count(ctx, filter)
}

func (s *scoped[T]) Create(ctx context.Context, rec T) error {
	if s.disabled {
		return s.inner.Create(ctx, rec)
	}
	if err := s.scopeRecord(ctx, "create", rec); err != nil {
		return err
	}
	return s.inner.Create(ctx, rec)
}

func (s *scoped[T]) Update(ctx context.Context, rec T) error {
	if s.disabled {
		return s.inner.Update(ctx, rec)
	}
	if err := s.scopeRecord(ctx, "update", rec); err != nil {
		return err
	}
	return s.inner.Update(ctx, rec)
}

func (s *scoped[T]) Delete(ctx context.Context, filter Filter) (int64, error) {
	if s.disabled {
		return s.inner.Delete(ctx, filter)
	}
	filter, err := s.scopeFilter(ctx, "delete", filter)
	if err != nil {
		return 0, err
	}
	return s.inner.Delete(ctx, filter)
}

// ClientConfig configures the scoped client.
type ClientConfig struct {
	// ScopingDisabled is a staged-rollout kill switch. When set, every
	// collection forwards calls to the backend unmodified.
	ScopingDisabled bool
}

// Client is the workspace-scoped data-access client used by request
// handlers. Tenant-owned collections enforce the active workspace from the
// request context; workspace and membership stores pass through untouched.
type Client struct {
	backend    Backend
	projects   Collection[*models.Project]
	tasks      Collection[*models.Task]
	wikiPages  Collection[*models.WikiPage]
	epics      Collection[*models.Epic]
	milestones Collection[*models.Milestone]
	activities Collection[*models.Activity]
}

// NewClient wraps every tenant-owned collection of the backend in the
// scoping decorator.
func NewClient(backend Backend, cfg ClientConfig) *Client {
	off := cfg.ScopingDisabled
	return &Client{
		backend:    backend,
		projects:   newScoped("project", backend.Projects(), off),
		tasks:      newScoped("task", backend.Tasks(), off),
		wikiPages:  newScoped("wiki_page", backend.WikiPages(), off),
		epics:      newScoped("epic", backend.Epics(), off),
		milestones: newScoped("milestone", backend.Milestones(), off),
		activities: newScoped("activity", backend.Activities(), off),
	}
}

func (c *Client) Projects() Collection[*models.Project]     { return c.projects }
func (c *Client) Tasks() Collection[*models.Task]           { return c.tasks }
func (c *Client) WikiPages() Collection[*models.WikiPage]   { return c.wikiPages }
func (c *Client) Epics() Collection[*models.Epic]           { return c.epics }
func (c *Client) Milestones() Collection[*models.Milestone] { return c.milestones }
func (c *Client) Activities() Collection[*models.Activity]  { return c.activities }

// Workspaces and Memberships are global lookup data, not tenant-owned.
func (c *Client) Workspaces() WorkspaceStore   { return c.backend.Workspaces() }
func (c *Client) Memberships() MembershipStore { return c.backend.Memberships() }
