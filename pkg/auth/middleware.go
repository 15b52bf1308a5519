package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rhuss/torwart/pkg/api"
	"github.com/rhuss/torwart/pkg/observability"
)

// Caller-facing messages. These are the only strings ever sent to the
// client on an auth failure; detail stays in the server logs.
const (
	msgMissingHeader  = "Missing or invalid authorization header"
	msgInvalidToken   = "Invalid or expired token"
	msgMissingCompany = "Missing company information"
	msgServerConfig   = "Server configuration error"
	msgAuthInternal   = "Authentication error"
	msgAuthRequired   = "Authentication required"
	msgAdminRequired  = "Admin access required"
)

// Middleware creates HTTP middleware from an AuthChain.
// It checks the bypass list, runs authentication, and injects the
// authenticated identity into the request context.
func Middleware(chain *AuthChain, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health checks and other bypass endpoints skip authentication.
			if bypass[r.URL.Path] || isHealthCheckPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Run auth chain.
			result := chain.Authenticate(r.Context(), r)

			if result.Decision == No {
				status, msg := classify(result.Err)
				if status == http.StatusInternalServerError {
					slog.Error("authentication failed",
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
						"error", result.Err,
					)
					observability.AuthDecisionsTotal.WithLabelValues("server_error").Inc()
				} else {
					slog.Warn("authentication failed",
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
						"error", result.Err,
					)
					observability.AuthDecisionsTotal.WithLabelValues("unauthorized").Inc()
				}
				api.WriteError(w, status, msg)
				return
			}

			if result.Decision != Yes || result.Identity == nil {
				slog.Error("authenticator returned invalid result", "path", r.URL.Path)
				observability.AuthDecisionsTotal.WithLabelValues("server_error").Inc()
				api.WriteError(w, http.StatusInternalServerError, msgAuthInternal)
				return
			}

			// An attached identity must always carry a company.
			if result.Identity.CompanyID == "" {
				slog.Warn("authenticated identity missing company",
					"user_id", result.Identity.UserID,
					"path", r.URL.Path,
				)
				observability.AuthDecisionsTotal.WithLabelValues("unauthorized").Inc()
				api.WriteError(w, http.StatusUnauthorized, msgMissingCompany)
				return
			}

			slog.Info("request authenticated",
				"user_id", result.Identity.UserID,
				"company_id", result.Identity.CompanyID,
			)
			observability.AuthDecisionsTotal.WithLabelValues("allowed").Inc()

			// Inject identity into context.
			ctx := SetIdentity(r.Context(), result.Identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// classify maps an authentication error to an HTTP status and a fixed
// caller-facing message. Unrecognized errors become a generic 500.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSecretNotConfigured):
		return http.StatusInternalServerError, msgServerConfig
	case errors.Is(err, ErrMissingCompany):
		return http.StatusUnauthorized, msgMissingCompany
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, msgMissingHeader
	default:
		return http.StatusInternalServerError, msgAuthInternal
	}
}

// healthSegments are path segments that mark a request as a health check.
var healthSegments = map[string]bool{
	"health":  true,
	"healthz": true,
	"readyz":  true,
	"livez":   true,
}

// isHealthCheckPath reports whether any segment of the path is a
// health-check segment. Health probes never require credentials.
func isHealthCheckPath(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if healthSegments[seg] {
			return true
		}
	}
	return false
}

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/healthz", "/readyz", "/metrics"}
