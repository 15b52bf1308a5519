package jwt

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rhuss/torwart/pkg/auth"
)

// testSecret is the shared signing secret used throughout the tests.
const testSecret = "unit-test-secret"

// signToken creates an HS256-signed JWT with the given claims.
func signToken(t *testing.T, secret string, claims jwtlib.MapClaims) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return tokenStr
}

// authenticate runs a single request with the given Authorization header
// through a fresh authenticator.
func authenticate(t *testing.T, secret, header string) auth.AuthResult {
	t.Helper()
	authn := New(Config{Secret: secret})

	r := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return authn.Authenticate(context.Background(), r)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"companyId":   "acme",
		"userId":      "user-123",
		"role":        "admin",
		"permissions": []string{"reports:read", "users:write"},
		"exp":         time.Now().Add(1 * time.Hour).Unix(),
	})

	result := authenticate(t, testSecret, "Bearer "+token)

	if result.Decision != auth.Yes {
		t.Fatalf("Decision = %d, want Yes; err=%v", result.Decision, result.Err)
	}
	id := result.Identity
	if id.CompanyID != "acme" {
		t.Errorf("CompanyID = %q, want %q", id.CompanyID, "acme")
	}
	if id.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", id.UserID, "user-123")
	}
	if id.Role != "admin" {
		t.Errorf("Role = %q, want %q", id.Role, "admin")
	}
	if len(id.Permissions) != 2 || id.Permissions[0] != "reports:read" || id.Permissions[1] != "users:write" {
		t.Errorf("Permissions = %v, want [reports:read users:write]", id.Permissions)
	}
}

func TestAuthenticate_ClaimFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		claims      jwtlib.MapClaims
		wantCompany string
		wantUser    string
		wantRole    string
		wantPerms   []string
	}{
		{
			name:        "snake_case company and sub fallback",
			claims:      jwtlib.MapClaims{"company_id": "acme", "sub": "u1"},
			wantCompany: "acme",
			wantUser:    "u1",
			wantRole:    "user",
			wantPerms:   nil,
		},
		{
			name:        "camelCase company wins over snake_case",
			claims:      jwtlib.MapClaims{"companyId": "first", "company_id": "second", "sub": "u1"},
			wantCompany: "first",
			wantUser:    "u1",
			wantRole:    "user",
		},
		{
			name:        "userId wins over user_id and sub",
			claims:      jwtlib.MapClaims{"companyId": "acme", "userId": "a", "user_id": "b", "sub": "c"},
			wantCompany: "acme",
			wantUser:    "a",
			wantRole:    "user",
		},
		{
			name:        "user_id wins over sub",
			claims:      jwtlib.MapClaims{"companyId": "acme", "user_id": "b", "sub": "c"},
			wantCompany: "acme",
			wantUser:    "b",
			wantRole:    "user",
		},
		{
			name:        "explicit role preserved",
			claims:      jwtlib.MapClaims{"companyId": "acme", "sub": "u1", "role": "manager"},
			wantCompany: "acme",
			wantUser:    "u1",
			wantRole:    "manager",
		},
		{
			name:        "permissions as space-separated string",
			claims:      jwtlib.MapClaims{"companyId": "acme", "sub": "u1", "permissions": "a b"},
			wantCompany: "acme",
			wantUser:    "u1",
			wantRole:    "user",
			wantPerms:   []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signToken(t, testSecret, tt.claims)
			result := authenticate(t, testSecret, "Bearer "+token)

			if result.Decision != auth.Yes {
				t.Fatalf("Decision = %d, want Yes; err=%v", result.Decision, result.Err)
			}
			id := result.Identity
			if id.CompanyID != tt.wantCompany {
				t.Errorf("CompanyID = %q, want %q", id.CompanyID, tt.wantCompany)
			}
			if id.UserID != tt.wantUser {
				t.Errorf("UserID = %q, want %q", id.UserID, tt.wantUser)
			}
			if id.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", id.Role, tt.wantRole)
			}
			if len(id.Permissions) != len(tt.wantPerms) {
				t.Errorf("Permissions = %v, want %v", id.Permissions, tt.wantPerms)
			} else {
				for i := range tt.wantPerms {
					if id.Permissions[i] != tt.wantPerms[i] {
						t.Errorf("Permissions[%d] = %q, want %q", i, id.Permissions[i], tt.wantPerms[i])
					}
				}
			}
		})
	}
}

func TestAuthenticate_MissingCompany(t *testing.T) {
	token := signToken(t, testSecret, jwtlib.MapClaims{"sub": "u1"})

	result := authenticate(t, testSecret, "Bearer "+token)

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No", result.Decision)
	}
	if !errors.Is(result.Err, auth.ErrMissingCompany) {
		t.Errorf("Err = %v, want ErrMissingCompany", result.Err)
	}
	if result.Identity != nil {
		t.Error("Identity must be nil on failure")
	}
}

func TestAuthenticate_NonStringCompany(t *testing.T) {
	// A numeric company claim is not usable and must not authenticate.
	token := signToken(t, testSecret, jwtlib.MapClaims{"companyId": 42, "sub": "u1"})

	result := authenticate(t, testSecret, "Bearer "+token)

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No", result.Decision)
	}
	if !errors.Is(result.Err, auth.ErrMissingCompany) {
		t.Errorf("Err = %v, want ErrMissingCompany", result.Err)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwtlib.MapClaims{"companyId": "acme", "sub": "u1"})

	result := authenticate(t, testSecret, "Bearer "+token)

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No", result.Decision)
	}
	if !errors.Is(result.Err, auth.ErrInvalidToken) {
		t.Errorf("Err = %v, want ErrInvalidToken", result.Err)
	}
	if result.Identity != nil {
		t.Error("Identity must be nil on failure")
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwtlib.MapClaims{
		"companyId": "acme",
		"sub":       "u1",
		"exp":       time.Now().Add(-1 * time.Hour).Unix(),
	})

	result := authenticate(t, testSecret, "Bearer "+token)

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No (expired)", result.Decision)
	}
	if !errors.Is(result.Err, auth.ErrInvalidToken) {
		t.Errorf("Err = %v, want ErrInvalidToken", result.Err)
	}
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	result := authenticate(t, testSecret, "Bearer not-a-jwt")

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No", result.Decision)
	}
	if !errors.Is(result.Err, auth.ErrInvalidToken) {
		t.Errorf("Err = %v, want ErrInvalidToken", result.Err)
	}
}

func TestAuthenticate_NoHeader_Abstains(t *testing.T) {
	result := authenticate(t, testSecret, "")

	if result.Decision != auth.Abstain {
		t.Errorf("Decision = %d, want Abstain", result.Decision)
	}
}

func TestAuthenticate_WrongScheme_Abstains(t *testing.T) {
	result := authenticate(t, testSecret, "Token abc")

	if result.Decision != auth.Abstain {
		t.Errorf("Decision = %d, want Abstain", result.Decision)
	}
}

func TestAuthenticate_EmptyBearer(t *testing.T) {
	result := authenticate(t, testSecret, "Bearer ")

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No", result.Decision)
	}
	if !errors.Is(result.Err, auth.ErrMissingCredentials) {
		t.Errorf("Err = %v, want ErrMissingCredentials", result.Err)
	}
}

func TestAuthenticate_NoSecret_FailsClosed(t *testing.T) {
	token := signToken(t, testSecret, jwtlib.MapClaims{"companyId": "acme", "sub": "u1"})

	result := authenticate(t, "", "Bearer "+token)

	if result.Decision != auth.No {
		t.Fatalf("Decision = %d, want No", result.Decision)
	}
	if !errors.Is(result.Err, auth.ErrSecretNotConfigured) {
		t.Errorf("Err = %v, want ErrSecretNotConfigured", result.Err)
	}
}

func TestAuthenticate_NoSecret_NoHeader_Abstains(t *testing.T) {
	// The secret check runs only once a bearer credential is presented,
	// so a missing header still abstains (401 downstream, not 500).
	result := authenticate(t, "", "")

	if result.Decision != auth.Abstain {
		t.Errorf("Decision = %d, want Abstain", result.Decision)
	}
}

var _ auth.Authenticator = (*Authenticator)(nil)
