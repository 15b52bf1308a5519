package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rhuss/torwart/pkg/api"
	"github.com/rhuss/torwart/pkg/observability"
)

// Guard is a pure predicate over a request's attached identity. Guards run
// after Middleware has attached the identity; they hold no state and are
// safe for concurrent use.
type Guard interface {
	// Name identifies the guard in logs and metrics.
	Name() string

	// Check returns nil when the identity satisfies the guard,
	// ErrUnauthenticated when no identity is attached, or an error
	// wrapping ErrForbidden otherwise.
	Check(id *Identity) error
}

// PermissionGuard requires a specific permission. The admin role passes
// implicitly regardless of its permission list.
type PermissionGuard struct {
	Permission string
}

func (g PermissionGuard) Name() string { return "permission:" + g.Permission }

func (g PermissionGuard) Check(id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if id.HasPermission(g.Permission) {
		return nil
	}
	return fmt.Errorf("%w: missing permission %q", ErrForbidden, g.Permission)
}

// AdminGuard requires the admin role. A missing identity is also a
// forbidden condition here, not an unauthenticated one.
type AdminGuard struct{}

func (AdminGuard) Name() string { return "admin" }

func (AdminGuard) Check(id *Identity) error {
	if !id.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

// Require wraps a handler with a guard check. The guard consults the
// identity attached by Middleware; denials are terminal for the request.
func Require(g Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if err := g.Check(id); err != nil {
				status, msg := denyResponse(g, err)
				slog.Warn("authorization denied",
					"guard", g.Name(),
					"path", r.URL.Path,
					"error", err,
				)
				observability.GuardDenialsTotal.WithLabelValues(g.Name()).Inc()
				api.WriteError(w, status, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission returns middleware enforcing the given permission.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return Require(PermissionGuard{Permission: permission})
}

// RequireAdmin returns middleware enforcing the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return Require(AdminGuard{})
}

// denyResponse maps a guard denial to an HTTP status and message.
func denyResponse(g Guard, err error) (int, string) {
	if errors.Is(err, ErrUnauthenticated) {
		return http.StatusUnauthorized, msgAuthRequired
	}
	if pg, ok := g.(PermissionGuard); ok {
		return http.StatusForbidden, "Missing required permission: " + pg.Permission
	}
	return http.StatusForbidden, msgAdminRequired
}
