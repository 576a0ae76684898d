package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

type memberKey struct {
	userID   uuid.UUID
	targetID uuid.UUID
}

// MembershipStore is an in-memory implementation of store.MembershipStore.
type MembershipStore struct {
	mu        sync.RWMutex
	workspace map[memberKey]*models.Membership
	project   map[memberKey]*models.ProjectMembership
}

// NewMembershipStore creates a new in-memory membership store.
func NewMembershipStore() *MembershipStore {
	return &MembershipStore{
		workspace: make(map[memberKey]*models.Membership),
		project:   make(map[memberKey]*models.ProjectMembership),
	}
}

// GetWorkspaceMember retrieves the membership for (user, workspace).
func (s *MembershipStore) GetWorkspaceMember(ctx context.Context, userID, workspaceID uuid.UUID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.workspace[memberKey{userID, workspaceID}]
	if !exists {
		return nil, store.ErrMembershipNotFound
	}

	cp := *m
	return &cp, nil
}

// PutWorkspaceMember creates or replaces the membership for (user, workspace).
func (s *MembershipStore) PutWorkspaceMember(ctx context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.workspace[memberKey{m.UserID, m.WorkspaceID}] = &cp
	return nil
}

// RemoveWorkspaceMember deletes the membership for (user, workspace).
func (s *MembershipStore) RemoveWorkspaceMember(ctx context.Context, userID, workspaceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{userID, workspaceID}
	if _, exists := s.workspace[key]; !exists {
		return store.ErrMembershipNotFound
	}

	delete(s.workspace, key)
	return nil
}

// ListWorkspaceMembers returns all memberships of a workspace.
func (s *MembershipStore) ListWorkspaceMembers(ctx context.Context, workspaceID uuid.UUID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Membership
	for key, m := range s.workspace {
		if key.targetID != workspaceID {
			continue
		}
		cp := *m
		result = append(result, &cp)
	}
	return result, nil
}

// GetProjectMember retrieves the membership for (user, project).
func (s *MembershipStore) GetProjectMember(ctx context.Context, userID, projectID uuid.UUID) (*models.ProjectMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.project[memberKey{userID, projectID}]
	if !exists {
		return nil, store.ErrMembershipNotFound
	}

	cp := *m
	return &cp, nil
}

// PutProjectMember creates or replaces the membership for (user, project).
func (s *MembershipStore) PutProjectMember(ctx context.Context, m *models.ProjectMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.project[memberKey{m.UserID, m.ProjectID}] = &cp
	return nil
}
