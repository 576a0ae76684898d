package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/loomhq/loom/internal/access"
	"github.com/loomhq/loom/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError translates the error taxonomy into HTTP statuses. Scoping
// violations are programming errors, never bad input: they surface as 500
// and are logged with full context so the missing context-set call gets
// fixed instead of retried.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := zerolog.Ctx(r.Context())

	var violation *store.ScopingViolationError
	if errors.As(err, &violation) {
		log.Error().
			Str("entity", violation.Entity).
			Str("op", violation.Op).
			Str("active_workspace", violation.Active.String()).
			Str("supplied_workspace", violation.Supplied.String()).
			Msg("Workspace scoping violation")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	case errors.Is(err, access.ErrUnauthorized), errors.Is(err, access.ErrForbidden):
		// Both denial kinds map to 403; the distinction stays in the logs.
		log.Debug().Err(err).Msg("Access denied")
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrWorkspaceNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, store.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
