package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey int

const userContextKey contextKey = iota

// UserFromContext returns the authenticated user id, or false for an
// unauthenticated request.
func UserFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userContextKey).(uuid.UUID)
	return id, ok
}

// WithUser returns a context carrying the authenticated user id.
func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// IdentityMiddleware resolves the caller's identity from the X-User-ID
// header. Real deployments sit behind an authenticating proxy or session
// layer that establishes this header; requests without a valid id proceed
// unauthenticated and are rejected by the handlers.
func IdentityMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-ID")
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Str("user_id", raw).Msg("Invalid user id header")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}
