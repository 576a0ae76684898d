package store

import "github.com/loomhq/loom/internal/models"

// UnscopedClient is the deliberate cross-tenant escape hatch. It exposes the
// raw backend collections with no workspace enforcement and exists only for
// reviewed background jobs, migrations and admin scripts that have no
// per-request context. Keep it out of request handlers: every import of this
// type should be findable and justifiable in review.
type UnscopedClient struct {
	backend Backend
}

// NewUnscopedClient returns a client that bypasses workspace scoping.
func NewUnscopedClient(backend Backend) *UnscopedClient {
	return &UnscopedClient{backend: backend}
}

func (c *UnscopedClient) Projects() Collection[*models.Project]     { return c.backend.Projects() }
func (c *UnscopedClient) Tasks() Collection[*models.Task]           { return c.backend.Tasks() }
func (c *UnscopedClient) WikiPages() Collection[*models.WikiPage]   { return c.backend.WikiPages() }
func (c *UnscopedClient) Epics() Collection[*models.Epic]           { return c.backend.Epics() }
func (c *UnscopedClient) Milestones() Collection[*models.Milestone] { return c.backend.Milestones() }
func (c *UnscopedClient) Activities() Collection[*models.Activity]  { return c.backend.Activities() }
func (c *UnscopedClient) Workspaces() WorkspaceStore                { return c.backend.Workspaces() }
func (c *UnscopedClient) Memberships() MembershipStore              { return c.backend.Memberships() }
