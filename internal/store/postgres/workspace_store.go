package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

// WorkspaceStore implements store.WorkspaceStore using PostgreSQL.
type WorkspaceStore struct {
	pool *pgxpool.Pool
}

// NewWorkspaceStore creates a new PostgreSQL-backed workspace store.
// It shares the connection pool with other stores.
func NewWorkspaceStore(pool *pgxpool.Pool) *WorkspaceStore {
	return &WorkspaceStore{pool: pool}
}

// Create creates a new workspace in the database.
func (s *WorkspaceStore) Create(ctx context.Context, ws *models.Workspace) error {
	query := `
		INSERT INTO workspaces (
			workspace_id, name, slug, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.pool.Exec(ctx, query,
		ws.WorkspaceID,
		ws.Name,
		ws.Slug,
		ws.CreatedAt,
		ws.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrWorkspaceExists
		}
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	log.Debug().
		Str("workspace_id", ws.WorkspaceID.String()).
		Str("name", ws.Name).
		Msg("Created workspace")

	return nil
}

// Get retrieves a workspace by ID.
func (s *WorkspaceStore) Get(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	query := `
		SELECT workspace_id, name, slug, created_at, updated_at
		FROM workspaces
		WHERE workspace_id = $1
	`

	var ws models.Workspace
	err := s.pool.QueryRow(ctx, query, workspaceID).Scan(
		&ws.WorkspaceID,
		&ws.Name,
		&ws.Slug,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &ws, nil
}

// List returns all workspaces, newest first.
func (s *WorkspaceStore) List(ctx context.Context) ([]*models.Workspace, error) {
	query := `
		SELECT workspace_id, name, slug, created_at, updated_at
		FROM workspaces
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		var ws models.Workspace
		err := rows.Scan(
			&ws.WorkspaceID,
			&ws.Name,
			&ws.Slug,
			&ws.CreatedAt,
			&ws.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, &ws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workspaces: %w", err)
	}

	return workspaces, nil
}

// Delete deletes a workspace by ID.
// This will cascade-delete all tenant-owned rows via FK constraints.
func (s *WorkspaceStore) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE workspace_id = $1`

	result, err := s.pool.Exec(ctx, query, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrWorkspaceNotFound
	}

	log.Info().
		Str("workspace_id", workspaceID.String()).
		Msg("Deleted workspace (and cascade-deleted all tenant data)")

	return nil
}
