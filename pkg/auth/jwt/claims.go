package jwt

import (
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rhuss/torwart/pkg/auth"
)

// Claims is the strongly-typed view of a verified token payload.
// Resolution from the raw claim map uses first-present-wins fallback
// chains:
//
//	CompanyID   <- "companyId", else "company_id"
//	UserID      <- "userId", else "user_id", else "sub"
//	Role        <- "role", else "user"
//	Permissions <- "permissions" (JSON array or space-separated string), else empty
type Claims struct {
	CompanyID   string
	UserID      string
	Role        string
	Permissions []string
}

// resolveClaims maps raw JWT claims into a Claims value following the
// documented precedence.
func resolveClaims(claims jwtlib.MapClaims) Claims {
	role := claimString(claims, "role")
	if role == "" {
		role = auth.RoleUser
	}

	return Claims{
		CompanyID:   firstClaimString(claims, "companyId", "company_id"),
		UserID:      firstClaimString(claims, "userId", "user_id", "sub"),
		Role:        role,
		Permissions: extractPermissions(claims, "permissions"),
	}
}

// firstClaimString returns the first non-empty string value among the
// given claim keys.
func firstClaimString(claims jwtlib.MapClaims, keys ...string) string {
	for _, key := range keys {
		if s := claimString(claims, key); s != "" {
			return s
		}
	}
	return ""
}

// claimString extracts a string value from JWT claims.
// Returns empty string if the claim is missing or not a string.
func claimString(claims jwtlib.MapClaims, key string) string {
	val, ok := claims[key]
	if !ok {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		return ""
	}
	return s
}

// extractPermissions extracts permissions from JWT claims.
// The claim can be either a JSON array or a space-separated string.
func extractPermissions(claims jwtlib.MapClaims, key string) []string {
	val, ok := claims[key]
	if !ok {
		return nil
	}

	// Case 1: space-separated string (e.g., "reports:read users:write")
	if s, ok := val.(string); ok {
		parts := strings.Fields(s)
		if len(parts) == 0 {
			return nil
		}
		return parts
	}

	// Case 2: JSON array (e.g., ["reports:read", "users:write"])
	if arr, ok := val.([]interface{}); ok {
		var perms []string
		for _, item := range arr {
			if s, ok := item.(string); ok {
				perms = append(perms, s)
			}
		}
		if len(perms) == 0 {
			return nil
		}
		return perms
	}

	return nil
}
