package gateway

import (
	"net/http"

	"github.com/rhuss/torwart/pkg/api"
	"github.com/rhuss/torwart/pkg/auth"
)

// identityResponse is the payload for GET /v1/identity.
type identityResponse struct {
	Success  bool            `json:"success"`
	Identity identityPayload `json:"identity"`
}

type identityPayload struct {
	CompanyID   string   `json:"companyId"`
	UserID      string   `json:"userId"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// IdentityHandler returns the caller's resolved identity. Useful for
// diagnosing claim mapping without involving the upstream.
func IdentityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())
		if id == nil {
			api.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		perms := id.Permissions
		if perms == nil {
			perms = []string{}
		}

		api.WriteJSON(w, http.StatusOK, identityResponse{
			Success: true,
			Identity: identityPayload{
				CompanyID:   id.CompanyID,
				UserID:      id.UserID,
				Role:        id.Role,
				Permissions: perms,
			},
		})
	}
}
