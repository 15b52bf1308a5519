package auth

import (
	"context"
	"errors"
	"net/http"
)

// AuthDecision represents the three possible outcomes of authentication.
type AuthDecision int

const (
	// Yes means credentials are valid. The chain stops and the identity is used.
	Yes AuthDecision = iota

	// No means credentials are present but invalid. The chain stops and the
	// request is rejected.
	No

	// Abstain means this authenticator cannot handle the credentials type.
	// The chain continues to the next authenticator.
	Abstain
)

// AuthResult carries the outcome of an authentication attempt.
type AuthResult struct {
	Decision AuthDecision
	Identity *Identity // populated only when Decision == Yes
	Err      error     // populated only when Decision == No
}

// RoleAdmin is the role that implicitly holds every permission.
// The role model is deliberately two-valued: "admin" and everything else.
const RoleAdmin = "admin"

// RoleUser is the role assigned when a verified token carries no role claim.
const RoleUser = "user"

// Identity represents an authenticated caller.
type Identity struct {
	// CompanyID identifies the tenant (required, non-empty).
	CompanyID string

	// UserID identifies the principal.
	UserID string

	// Role is the caller's coarse role. Defaults to "user".
	Role string

	// Permissions lists the granted permissions in token order.
	Permissions []string
}

// IsAdmin reports whether the identity holds the admin role.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}

// HasPermission reports whether the identity holds the given permission.
// Admin is an implicit superset of all permissions.
func (id *Identity) HasPermission(permission string) bool {
	if id == nil {
		return false
	}
	if id.Role == RoleAdmin {
		return true
	}
	for _, p := range id.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Authenticator examines request credentials and returns a three-outcome vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) AuthResult
}

// Sentinel errors. The middleware maps these to HTTP statuses and fixed
// caller-facing messages; anything unrecognized becomes a generic 500.
var (
	// ErrMissingCredentials means no usable Authorization header was present
	// (missing, empty, or not the Bearer scheme).
	ErrMissingCredentials = errors.New("missing or invalid authorization header")

	// ErrInvalidToken covers bad signatures, expired tokens, and malformed
	// token payloads. Detail is logged, never sent to the caller.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingCompany means a verified token resolved to an empty company
	// identifier.
	ErrMissingCompany = errors.New("missing company information")

	// ErrSecretNotConfigured means token verification was needed but no
	// signing secret is configured. Fails closed as a server error.
	ErrSecretNotConfigured = errors.New("signing secret not configured")

	// ErrUnauthenticated is returned by guards when no identity is attached.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the identity is authenticated but lacks the
	// required role or permission.
	ErrForbidden = errors.New("access denied")
)

// AuthChain evaluates authenticators in order using three-outcome voting.
type AuthChain struct {
	// Authenticators are evaluated left to right.
	Authenticators []Authenticator

	// DefaultDecision is used when all authenticators abstain.
	// Use Yes for development (NoOp behavior) or No for production.
	DefaultDecision AuthDecision
}

// Authenticate runs the chain. Stops on the first Yes or No.
// If all abstain, returns the default decision.
func (c *AuthChain) Authenticate(ctx context.Context, r *http.Request) AuthResult {
	for _, authn := range c.Authenticators {
		result := authn.Authenticate(ctx, r)
		if result.Decision != Abstain {
			return result
		}
	}

	// All abstained: use default.
	if c.DefaultDecision == Yes {
		return AuthResult{
			Decision: Yes,
			Identity: &Identity{CompanyID: "default", UserID: "anonymous", Role: RoleUser},
		}
	}

	return AuthResult{
		Decision: No,
		Err:      ErrMissingCredentials,
	}
}
