// Package access decides whether a user may act within a workspace or
// project at a required role. Handlers call Assert before activating the
// workspace scope; the scoped store client proves tenant isolation, not
// permission, so the order matters.
package access

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/loomhq/loom/internal/models"
	"github.com/loomhq/loom/internal/store"
)

// Sentinel errors for the assertion outcomes. Unauthorized (no membership at
// all) is kept distinct from Forbidden (member, wrong role) for diagnostics;
// the handler layer may map both to the same HTTP status.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("not a member")
	ErrForbidden       = errors.New("insufficient role")
)

// Scope selects which membership relation an assertion consults.
type Scope string

const (
	ScopeWorkspace Scope = "workspace"
	ScopeProject   Scope = "project"
)

// Check describes one access assertion.
type Check struct {
	UserID   uuid.UUID
	TargetID uuid.UUID // workspace id or project id, per Scope
	Scope    Scope
	AnyOf    []models.Role // explicit set of acceptable roles
}

// Config gates the development bypass. The bypass opens only when all three
// conditions hold: a non-production env, AllowDevLogin set, and
// ProductionLock unset. No single misconfigured flag can open it alone.
type Config struct {
	Env            string // "development", "preview", "production"
	AllowDevLogin  bool
	ProductionLock bool
}

// EnvProduction is the Env value that hard-disables the dev bypass by itself.
const EnvProduction = "production"

func (c Config) devBypass() bool {
	return c.Env != EnvProduction && c.AllowDevLogin && !c.ProductionLock
}

// Asserter verifies membership-based access against the membership store.
type Asserter struct {
	memberships store.MembershipStore
	cfg         Config
}

// NewAsserter creates an Asserter backed by the given membership store.
func NewAsserter(memberships store.MembershipStore, cfg Config) *Asserter {
	return &Asserter{memberships: memberships, cfg: cfg}
}

// Assert succeeds silently iff the user holds one of the acceptable roles in
// the target workspace or project. Success is the absence of an error, so a
// caller cannot accidentally proceed on an ignored denial.
func (a *Asserter) Assert(ctx context.Context, check Check) error {
	if check.UserID == uuid.Nil {
		return ErrUnauthenticated
	}
	if check.TargetID == uuid.Nil {
		return fmt.Errorf("access check without a target: %w", ErrUnauthorized)
	}

	if a.cfg.devBypass() {
		log.Debug().
			Str("user_id", check.UserID.String()).
			Str("target_id", check.TargetID.String()).
			Str("scope", string(check.Scope)).
			Msg("Dev login bypass: skipping membership check")
		return nil
	}

	role, err := a.loadRole(ctx, check)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return fmt.Errorf("user %s has no %s membership in %s: %w",
				check.UserID, check.Scope, check.TargetID, ErrUnauthorized)
		}
		return fmt.Errorf("failed to load membership: %w", err)
	}

	if !slices.Contains(check.AnyOf, role) {
		return fmt.Errorf("user %s has role %s in %s %s, requires one of %v: %w",
			check.UserID, role, check.Scope, check.TargetID, check.AnyOf, ErrForbidden)
	}

	return nil
}

func (a *Asserter) loadRole(ctx context.Context, check Check) (models.Role, error) {
	switch check.Scope {
	case ScopeProject:
		m, err := a.memberships.GetProjectMember(ctx, check.UserID, check.TargetID)
		if err != nil {
			return "", err
		}
		return m.Role, nil
	default:
		m, err := a.memberships.GetWorkspaceMember(ctx, check.UserID, check.TargetID)
		if err != nil {
			return "", err
		}
		return m.Role, nil
	}
}
