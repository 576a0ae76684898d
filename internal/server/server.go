// Package server exposes the HTTP API. Every data-touching handler follows
// the same protocol: resolve the authenticated user, assert access at the
// required role, activate the workspace scope, then go through the scoped
// store client. Asserting before activating matters: the scoped client
// proves tenant isolation, not permission.
package server

import (
	"net/http"

	"github.com/loomhq/loom/internal/access"
	"github.com/loomhq/loom/internal/store"
)

// Server handles the HTTP API backed by the scoped store client.
type Server struct {
	client   *store.Client
	asserter *access.Asserter
}

// New creates a Server.
func New(client *store.Client, asserter *access.Asserter) *Server {
	return &Server{client: client, asserter: asserter}
}

// Routes builds the HTTP handler for the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/workspaces/{workspace}/projects", s.listProjects)
	mux.HandleFunc("POST /v1/workspaces/{workspace}/projects", s.createProject)
	mux.HandleFunc("GET /v1/workspaces/{workspace}/tasks", s.listTasks)
	mux.HandleFunc("POST /v1/workspaces/{workspace}/tasks", s.createTask)
	mux.HandleFunc("PATCH /v1/workspaces/{workspace}/tasks/{task}", s.updateTask)
	mux.HandleFunc("GET /v1/workspaces/{workspace}/pages", s.listPages)
	mux.HandleFunc("POST /v1/workspaces/{workspace}/pages", s.createPage)
	mux.HandleFunc("GET /v1/workspaces/{workspace}/activity", s.listActivity)
	mux.HandleFunc("GET /v1/workspaces/{workspace}/members", s.listMembers)

	return IdentityMiddleware()(mux)
}
