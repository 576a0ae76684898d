// Package memory provides an in-memory store backend for development and
// testing. It mirrors the behavior of the postgres backend, including
// workspace-qualified updates and newest-first listing.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/store"
)

// projectScoped is implemented by entities that carry a project id and can
// therefore be narrowed with Filter.ProjectID.
type projectScoped interface {
	GetProjectID() uuid.UUID
}

// Collection is a generic in-memory collection of one entity type.
type Collection[R any, T store.RecordOf[R]] struct {
	mu    sync.RWMutex
	recs  map[uuid.UUID]*R
	order []uuid.UUID // insertion order, oldest first
}

// NewCollection creates an empty in-memory collection.
func NewCollection[R any, T store.RecordOf[R]]() *Collection[R, T] {
	return &Collection[R, T]{
		recs: make(map[uuid.UUID]*R),
	}
}

func (c *Collection[R, T]) checkFilter(filter store.Filter) error {
	if filter.ProjectID != nil {
		var probe T
		if _, ok := any(probe).(projectScoped); !ok {
			return store.ErrUnsupportedFilter
		}
	}
	return nil
}

func (c *Collection[R, T]) matches(filter store.Filter, rec T) bool {
	if filter.ID != nil && rec.GetID() != *filter.ID {
		return false
	}
	if filter.WorkspaceID != nil && rec.GetWorkspaceID() != *filter.WorkspaceID {
		return false
	}
	if filter.ProjectID != nil {
		ps, ok := any(rec).(projectScoped)
		if !ok || ps.GetProjectID() != *filter.ProjectID {
			return false
		}
	}
	if filter.CreatedBefore != nil && !rec.GetCreatedAt().Before(*filter.CreatedBefore) {
		return false
	}
	return true
}

// FindOne returns the newest record matching the filter.
func (c *Collection[R, T]) FindOne(ctx context.Context, filter store.Filter) (T, error) {
	var zero T
	if err := c.checkFilter(filter); err != nil {
		return zero, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.order) - 1; i >= 0; i-- {
		rec, exists := c.recs[c.order[i]]
		if !exists {
			continue
		}
		if c.matches(filter, T(rec)) {
			cp := *rec
			return T(&cp), nil
		}
	}
	return zero, store.ErrNotFound
}

// FindMany returns all matching records, newest first.
func (c *Collection[R, T]) FindMany(ctx context.Context, filter store.Filter) ([]T, error) {
	if err := c.checkFilter(filter); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []T
	for i := len(c.order) - 1; i >= 0; i-- {
		rec, exists := c.recs[c.order[i]]
		if !exists {
			continue
		}
		if !c.matches(filter, T(rec)) {
			continue
		}

		// Return a copy to avoid external modifications
		cp := *rec
		result = append(result, T(&cp))

		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

// Count returns the number of matching records.
func (c *Collection[R, T]) Count(ctx context.Context, filter store.Filter) (int64, error) {
	if err := c.checkFilter(filter); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, id := range c.order {
		rec, exists := c.recs[id]
		if !exists {
			continue
		}
		if c.matches(filter, T(rec)) {
			n++
		}
	}
	return n, nil
}

// Create stores a new record.
func (c *Collection[R, T]) Create(ctx context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := rec.GetID()
	if _, exists := c.recs[id]; exists {
		return store.ErrAlreadyExists
	}

	// Store a copy to avoid external modifications
	cp := *(*R)(rec)
	c.recs[id] = &cp
	c.order = append(c.order, id)
	return nil
}

// Update replaces an existing record. Like the postgres backend it qualifies
// the write on (id, workspace_id), so a record can never be moved across
// workspaces through Update.
func (c *Collection[R, T]) Update(ctx context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.recs[rec.GetID()]
	if !exists {
		return store.ErrNotFound
	}
	if T(existing).GetWorkspaceID() != rec.GetWorkspaceID() {
		return store.ErrNotFound
	}

	cp := *(*R)(rec)
	c.recs[rec.GetID()] = &cp
	return nil
}

// Delete removes all matching records and returns the number removed.
func (c *Collection[R, T]) Delete(ctx context.Context, filter store.Filter) (int64, error) {
	if err := c.checkFilter(filter); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int64
	remaining := c.order[:0]
	for _, id := range c.order {
		rec, exists := c.recs[id]
		if exists && c.matches(filter, T(rec)) {
			delete(c.recs, id)
			removed++
			continue
		}
		remaining = append(remaining, id)
	}
	c.order = remaining
	return removed, nil
}
