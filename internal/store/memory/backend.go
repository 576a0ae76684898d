package memory

import (
	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

// Backend is an in-memory implementation of store.Backend.
type Backend struct {
	projects    *Collection[models.Project, *models.Project]
	tasks       *Collection[models.Task, *models.Task]
	wikiPages   *Collection[models.WikiPage, *models.WikiPage]
	epics       *Collection[models.Epic, *models.Epic]
	milestones  *Collection[models.Milestone, *models.Milestone]
	activities  *Collection[models.Activity, *models.Activity]
	workspaces  *WorkspaceStore
	memberships *MembershipStore
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{
		projects:    NewCollection[models.Project, *models.Project](),
		tasks:       NewCollection[models.Task, *models.Task](),
		wikiPages:   NewCollection[models.WikiPage, *models.WikiPage](),
		epics:       NewCollection[models.Epic, *models.Epic](),
		milestones:  NewCollection[models.Milestone, *models.Milestone](),
		activities:  NewCollection[models.Activity, *models.Activity](),
		workspaces:  NewWorkspaceStore(),
		memberships: NewMembershipStore(),
	}
}

func (b *Backend) Projects() store.Collection[*models.Project]     { return b.projects }
func (b *Backend) Tasks() store.Collection[*models.Task]           { return b.tasks }
func (b *Backend) WikiPages() store.Collection[*models.WikiPage]   { return b.wikiPages }
func (b *Backend) Epics() store.Collection[*models.Epic]           { return b.epics }
func (b *Backend) Milestones() store.Collection[*models.Milestone] { return b.milestones }
func (b *Backend) Activities() store.Collection[*models.Activity]  { return b.activities }
func (b *Backend) Workspaces() store.WorkspaceStore                { return b.workspaces }
func (b *Backend) Memberships() store.MembershipStore              { return b.memberships }
