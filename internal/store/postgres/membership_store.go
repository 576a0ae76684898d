package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
type MembershipStore struct {
	pool *pgxpool.Pool
}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

// GetWorkspaceMember retrieves the membership for (user, workspace).
func (s *MembershipStore) GetWorkspaceMember(ctx context.Context, userID, workspaceID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT user_id, workspace_id, role, created_at, updated_at
		FROM memberships
		WHERE user_id = $1 AND workspace_id = $2
	`

	var m models.Membership
	err := s.pool.QueryRow(ctx, query, userID, workspaceID).Scan(
		&m.UserID,
		&m.WorkspaceID,
		&m.Role,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// PutWorkspaceMember creates or replaces the membership for (user, workspace).
// The (user_id, workspace_id) primary key keeps the relation single-rowed.
func (s *MembershipStore) PutWorkspaceMember(ctx context.Context, m *models.Membership) error {
	m.UpdatedAt = time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}

	query := `
		INSERT INTO memberships (user_id, workspace_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, workspace_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		m.UserID,
		m.WorkspaceID,
		m.Role,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put membership: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("user_id", m.UserID.String()).
		Str("workspace_id", m.WorkspaceID.String()).
		Str("role", string(m.Role)).
		Msg("Put workspace membership")

	return nil
}

// RemoveWorkspaceMember deletes the membership for (user, workspace).
func (s *MembershipStore) RemoveWorkspaceMember(ctx context.Context, userID, workspaceID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE user_id = $1 AND workspace_id = $2`

	result, err := s.pool.Exec(ctx, query, userID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	return nil
}

// ListWorkspaceMembers returns all memberships of a workspace.
func (s *MembershipStore) ListWorkspaceMembers(ctx context.Context, workspaceID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT user_id, workspace_id, role, created_at, updated_at
		FROM memberships
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		var m models.Membership
		err := rows.Scan(
			&m.UserID,
			&m.WorkspaceID,
			&m.Role,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return members, nil
}

// GetProjectMember retrieves the membership for (user, project).
func (s *MembershipStore) GetProjectMember(ctx context.Context, userID, projectID uuid.UUID) (*models.ProjectMembership, error) {
	query := `
		SELECT user_id, project_id, role, created_at, updated_at
		FROM project_memberships
		WHERE user_id = $1 AND project_id = $2
	`

	var m models.ProjectMembership
	err := s.pool.QueryRow(ctx, query, userID, projectID).Scan(
		&m.UserID,
		&m.ProjectID,
		&m.Role,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get project membership: %w", err)
	}

	return &m, nil
}

// PutProjectMember creates or replaces the membership for (user, project).
func (s *MembershipStore) PutProjectMember(ctx context.Context, m *models.ProjectMembership) error {
	m.UpdatedAt = time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}

	query := `
		INSERT INTO project_memberships (user_id, project_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, project_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		m.UserID,
		m.ProjectID,
		m.Role,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put project membership: %w", mapPostgresError(err))
	}

	return nil
}
