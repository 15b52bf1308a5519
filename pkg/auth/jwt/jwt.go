// Package jwt provides a JWT authenticator that validates HMAC-signed
// bearer tokens against a shared signing secret.
//
// The signing secret is injected explicitly via Config at construction
// time; the authenticator never reads ambient process state. Verified
// claims are resolved into a strongly-typed structure with documented
// key precedence (see claims.go).
package jwt

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rhuss/torwart/pkg/auth"
)

// Config holds the JWT authenticator configuration.
type Config struct {
	// Secret is the shared HMAC signing secret used to verify tokens.
	// If empty, every verification attempt fails closed with
	// auth.ErrSecretNotConfigured.
	Secret string
}

// Authenticator validates HMAC-signed JWT bearer tokens.
type Authenticator struct {
	config Config
}

// New creates a JWT authenticator with the given configuration.
func New(cfg Config) *Authenticator {
	return &Authenticator{config: cfg}
}

// Authenticate extracts a bearer token from the Authorization header,
// verifies it against the configured secret, and resolves the claims
// into an identity.
//
// Decision outcomes:
//   - Abstain: no Authorization header or not a Bearer scheme
//   - No: bearer token present but invalid (expired, bad signature,
//     missing company claim, or no secret configured)
//   - Yes: valid token with populated Identity
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.AuthResult {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	// Must be Bearer token.
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.AuthResult{Decision: auth.Abstain}
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      fmt.Errorf("%w: empty bearer token", auth.ErrMissingCredentials),
		}
	}

	// The secret check runs only after a bearer credential was presented,
	// so a missing header is reported as a client error, not a server one.
	if a.config.Secret == "" {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      auth.ErrSecretNotConfigured,
		}
	}

	token, err := jwtlib.Parse(tokenStr, func(token *jwtlib.Token) (interface{}, error) {
		// Ensure the signing method is HMAC. Accepting other families here
		// would allow algorithm-confusion forgeries.
		if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.config.Secret), nil
	}, jwtlib.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      fmt.Errorf("%w: %v", auth.ErrInvalidToken, err),
		}
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok || !token.Valid {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      fmt.Errorf("%w: unexpected claims type", auth.ErrInvalidToken),
		}
	}

	claims := resolveClaims(mapClaims)

	// A token without a company never yields an identity.
	if claims.CompanyID == "" {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      auth.ErrMissingCompany,
		}
	}

	return auth.AuthResult{
		Decision: auth.Yes,
		Identity: &auth.Identity{
			CompanyID:   claims.CompanyID,
			UserID:      claims.UserID,
			Role:        claims.Role,
			Permissions: claims.Permissions,
		},
	}
}
