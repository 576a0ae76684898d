// Package postgres implements the store backend on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loomhq/loom/internal/store"
)

// tableSpec describes how one entity type maps onto its table. The columns
// slice is the full column list, starting with "id" and "workspace_id";
// values must return the record's values in the same order.
type tableSpec[T store.Record] struct {
	table      string
	columns    []string
	hasProject bool
	values     func(T) []any
}

// Collection is a generic PostgreSQL-backed collection of one entity type.
// Rows are scanned into the entity struct by db tag, so the columns list and
// the struct fields must stay in sync with the schema.
type Collection[R any, T store.RecordOf[R]] struct {
	pool *pgxpool.Pool
	spec tableSpec[T]
}

func newCollection[R any, T store.RecordOf[R]](pool *pgxpool.Pool, spec tableSpec[T]) *Collection[R, T] {
	return &Collection[R, T]{pool: pool, spec: spec}
}

// where builds a WHERE clause from the filter, with placeholders starting at $1.
func (c *Collection[R, T]) where(filter store.Filter) (string, []any, error) {
	var conds []string
	var args []any

	if filter.ID != nil {
		args = append(args, *filter.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.WorkspaceID != nil {
		args = append(args, *filter.WorkspaceID)
		conds = append(conds, fmt.Sprintf("workspace_id = $%d", len(args)))
	}
	if filter.ProjectID != nil {
		if !c.spec.hasProject {
			return "", nil, fmt.Errorf("%w: %s has no project_id", store.ErrUnsupportedFilter, c.spec.table)
		}
		args = append(args, *filter.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (c *Collection[R, T]) selectQuery(filter store.Filter) (string, []any, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at DESC, id DESC",
		strings.Join(c.spec.columns, ", "), c.spec.table, where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return query, args, nil
}

// FindOne returns the newest record matching the filter.
func (c *Collection[R, T]) FindOne(ctx context.Context, filter store.Filter) (T, error) {
	var zero T

	filter.Limit = 1
	query, args, err := c.selectQuery(filter)
	if err != nil {
		return zero, err
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("failed to query %s: %w", c.spec.table, err)
	}

	rec, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[R])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, store.ErrNotFound
		}
		return zero, fmt.Errorf("failed to scan %s: %w", c.spec.table, err)
	}
	return T(rec), nil
}

// FindMany returns all matching records, newest first.
func (c *Collection[R, T]) FindMany(ctx context.Context, filter store.Filter) ([]T, error) {
	query, args, err := c.selectQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.spec.table, err)
	}

	recs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[R])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", c.spec.table, err)
	}

	result := make([]T, 0, len(recs))
	for _, rec := range recs {
		result = append(result, T(rec))
	}
	return result, nil
}

// Count returns the number of matching records.
func (c *Collection[R, T]) Count(ctx context.Context, filter store.Filter) (int64, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return 0, err
	}

	var n int64
	query := fmt.Sprintf("SELECT count(*) FROM %s%s", c.spec.table, where)
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", c.spec.table, err)
	}
	return n, nil
}

// Create inserts a new record.
func (c *Collection[R, T]) Create(ctx context.Context, rec T) error {
	placeholders := make([]string, len(c.spec.columns))
	for i := range c.spec.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.spec.table, strings.Join(c.spec.columns, ", "), strings.Join(placeholders, ", "))

	if _, err := c.pool.Exec(ctx, query, c.spec.values(rec)...); err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert %s: %w", c.spec.table, mapPostgresError(err))
	}
	return nil
}

// Update replaces an existing record. The write is qualified on
// (id, workspace_id) so a record can never be moved across workspaces.
func (c *Collection[R, T]) Update(ctx context.Context, rec T) error {
	args := []any{rec.GetID(), rec.GetWorkspaceID()}

	var sets []string
	vals := c.spec.values(rec)
	for i, col := range c.spec.columns {
		if col == "id" || col == "workspace_id" || col == "created_at" {
			continue
		}
		args = append(args, vals[i])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND workspace_id = $2",
		c.spec.table, strings.Join(sets, ", "))

	result, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", c.spec.table, mapPostgresError(err))
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes all matching records and returns the number removed.
func (c *Collection[R, T]) Delete(ctx context.Context, filter store.Filter) (int64, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s%s", c.spec.table, where)
	result, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", c.spec.table, mapPostgresError(err))
	}
	return result.RowsAffected(), nil
}
