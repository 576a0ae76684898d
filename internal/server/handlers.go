package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/loomhq/loom/internal/access"
	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
	"github.com/loomhq/loom/internal/tenant"
)

// Role sets accepted per operation class.
var (
	anyMember   = []models.Role{models.RoleViewer, models.RoleMember, models.RoleAdmin, models.RoleOwner}
	contributor = []models.Role{models.RoleMember, models.RoleAdmin, models.RoleOwner}
	adminOnly   = []models.Role{models.RoleAdmin, models.RoleOwner}
)

// authorize runs the per-request protocol up to scope activation: resolve
// the user, assert the required role in the target workspace, then activate
// the workspace on the returned context.
func (s *Server) authorize(r *http.Request, anyOf []models.Role) (context.Context, uuid.UUID, uuid.UUID, error) {
	ctx := r.Context()

	userID, ok := UserFromContext(ctx)
	if !ok {
		userID = uuid.Nil
	}

	workspaceID, err := uuid.Parse(r.PathValue("workspace"))
	if err != nil {
		return ctx, uuid.Nil, uuid.Nil, fmt.Errorf("invalid workspace id: %w", store.ErrWorkspaceNotFound)
	}

	err = s.asserter.Assert(ctx, access.Check{
		UserID:   userID,
		TargetID: workspaceID,
		Scope:    access.ScopeWorkspace,
		AnyOf:    anyOf,
	})
	if err != nil {
		return ctx, uuid.Nil, uuid.Nil, err
	}

	return tenant.WithWorkspace(ctx, workspaceID), userID, workspaceID, nil
}

// recordActivity appends an audit record through the scoped client. Failures
// are logged, not surfaced: the primary write already succeeded.
func (s *Server) recordActivity(ctx context.Context, actorID uuid.UUID, verb, targetType string, targetID uuid.UUID) {
	now := time.Now()
	err := s.client.Activities().Create(ctx, &models.Activity{
		ID:         uuid.Must(uuid.NewV7()),
		ActorID:    actorID,
		Verb:       verb,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("verb", verb).Str("target_type", targetType).Msg("Failed to record activity")
	}
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	ctx, _, _, err := s.authorize(r, anyMember)
	if err != nil {
		writeError(w, r, err)
		return
	}

	projects, err := s.client.Projects().FindMany(ctx, store.Filter{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	ctx, userID, _, err := s.authorize(r, adminOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.client.Projects().Create(ctx, project); err != nil {
		writeError(w, r, err)
		return
	}

	s.recordActivity(ctx, userID, "created", "project", project.ID)
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx, _, _, err := s.authorize(r, anyMember)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := store.Filter{}
	if raw := r.URL.Query().Get("project"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
			return
		}
		filter.ProjectID = &projectID
	}

	tasks, err := s.client.Tasks().FindMany(ctx, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

type createTaskRequest struct {
	ProjectID  uuid.UUID  `json:"project_id"`
	Title      string     `json:"title"`
	Priority   int        `json:"priority"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	ctx, userID, _, err := s.authorize(r, contributor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.ProjectID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "project_id and title are required"})
		return
	}

	// The task's project must be visible in this workspace scope.
	if _, err := s.client.Projects().FindOne(ctx, store.Filter{ID: &req.ProjectID}); err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now()
	task := &models.Task{
		ID:         uuid.Must(uuid.NewV7()),
		ProjectID:  req.ProjectID,
		Title:      req.Title,
		Status:     "todo",
		Priority:   req.Priority,
		AssigneeID: req.AssigneeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.client.Tasks().Create(ctx, task); err != nil {
		writeError(w, r, err)
		return
	}

	s.recordActivity(ctx, userID, "created", "task", task.ID)
	writeJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title      *string    `json:"title"`
	Status     *string    `json:"status"`
	Priority   *int       `json:"priority"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	ctx, userID, _, err := s.authorize(r, contributor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	taskID, err := uuid.Parse(r.PathValue("task"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid task id"})
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	task, err := s.client.Tasks().FindOne(ctx, store.Filter{ID: &taskID})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	task.UpdatedAt = time.Now()

	if err := s.client.Tasks().Update(ctx, task); err != nil {
		writeError(w, r, err)
		return
	}

	s.recordActivity(ctx, userID, "updated", "task", task.ID)
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) listPages(w http.ResponseWriter, r *http.Request) {
	ctx, _, _, err := s.authorize(r, anyMember)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pages, err := s.client.WikiPages().FindMany(ctx, store.Filter{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

type createPageRequest struct {
	ProjectID *uuid.UUID `json:"project_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
}

func (s *Server) createPage(w http.ResponseWriter, r *http.Request) {
	ctx, userID, _, err := s.authorize(r, contributor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	now := time.Now()
	page := &models.WikiPage{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.client.WikiPages().Create(ctx, page); err != nil {
		writeError(w, r, err)
		return
	}

	s.recordActivity(ctx, userID, "created", "wiki_page", page.ID)
	writeJSON(w, http.StatusCreated, page)
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	ctx, _, _, err := s.authorize(r, anyMember)
	if err != nil {
		writeError(w, r, err)
		return
	}

	activities, err := s.client.Activities().FindMany(ctx, store.Filter{Limit: 100})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	_, _, workspaceID, err := s.authorize(r, adminOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Memberships are global lookup data, not tenant-owned; no scope needed.
	members, err := s.client.Memberships().ListWorkspaceMembers(r.Context(), workspaceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
