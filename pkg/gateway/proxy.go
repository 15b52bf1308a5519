package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/rhuss/torwart/pkg/api"
	"github.com/rhuss/torwart/pkg/auth"
	"github.com/rhuss/torwart/pkg/debug"
	"github.com/rhuss/torwart/pkg/observability"
)

// Identity headers injected toward the upstream. The upstream may trust
// these: the proxy strips any caller-supplied values first.
const (
	HeaderCompanyID   = "X-Auth-Company-Id"
	HeaderUserID      = "X-Auth-User-Id"
	HeaderRole        = "X-Auth-Role"
	HeaderPermissions = "X-Auth-Permissions"
)

var identityHeaders = []string{HeaderCompanyID, HeaderUserID, HeaderRole, HeaderPermissions}

// NewProxy creates the upstream forwarder. The returned handler expects
// the auth middleware to have attached an identity to the request
// context; bypass requests (health checks) are forwarded unauthenticated
// without identity headers.
func NewProxy(upstream *url.URL, timeout time.Duration) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()

			out := pr.Out.Header
			// Strip caller-supplied identity headers before injecting
			// the verified ones.
			for _, h := range identityHeaders {
				out.Del(h)
			}

			if id := auth.IdentityFromContext(pr.In.Context()); id != nil {
				out.Set(HeaderCompanyID, id.CompanyID)
				out.Set(HeaderUserID, id.UserID)
				out.Set(HeaderRole, id.Role)
				if len(id.Permissions) > 0 {
					out.Set(HeaderPermissions, strings.Join(id.Permissions, " "))
				}
				debug.Log("gateway", "forwarding authenticated request",
					"path", pr.In.URL.Path,
					"company_id", id.CompanyID,
					"user_id", id.UserID,
				)
			}
		},
		Transport: &http.Transport{
			ResponseHeaderTimeout: timeout,
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("upstream request failed",
				"path", r.URL.Path,
				"upstream", upstream.Host,
				"error", err,
			)
			observability.UpstreamErrorsTotal.Inc()
			api.WriteError(w, http.StatusBadGateway, "Upstream unavailable")
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		proxy.ServeHTTP(w, r)
		observability.UpstreamLatency.Observe(time.Since(start).Seconds())
	})
}
