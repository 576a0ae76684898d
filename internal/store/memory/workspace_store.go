package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

// WorkspaceStore is an in-memory implementation of store.WorkspaceStore.
type WorkspaceStore struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*models.Workspace
}

// NewWorkspaceStore creates a new in-memory workspace store.
func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{
		workspaces: make(map[uuid.UUID]*models.Workspace),
	}
}

// Create creates a new workspace.
func (s *WorkspaceStore) Create(ctx context.Context, ws *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workspaces[ws.WorkspaceID]; exists {
		return store.ErrWorkspaceExists
	}

	cp := *ws
	s.workspaces[ws.WorkspaceID] = &cp
	return nil
}

// Get retrieves a workspace by ID.
func (s *WorkspaceStore) Get(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, exists := s.workspaces[workspaceID]
	if !exists {
		return nil, store.ErrWorkspaceNotFound
	}

	cp := *ws
	return &cp, nil
}

// List returns all workspaces.
func (s *WorkspaceStore) List(ctx context.Context) ([]*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		cp := *ws
		result = append(result, &cp)
	}
	return result, nil
}

// Delete removes a workspace by ID.
func (s *WorkspaceStore) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workspaces[workspaceID]; !exists {
		return store.ErrWorkspaceNotFound
	}

	delete(s.workspaces, workspaceID)
	return nil
}
