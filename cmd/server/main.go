// Command server runs the torwart authentication gate.
//
// Configuration is layered: config.yaml (discovered via TORWART_CONFIG,
// ./config.yaml, /etc/torwart/config.yaml) with environment overrides:
//
//	TORWART_UPSTREAM_URL   - protected backend URL (required)
//	TORWART_AUTH_MODE      - "jwt", "apikey", or "none" (default: jwt)
//	TORWART_SIGNING_SECRET - shared HMAC secret for JWT verification
//	TORWART_PORT           - listen port (default: 8080)
//	TORWART_LOG_LEVEL      - ERROR, WARN, INFO, DEBUG, TRACE (default: INFO)
//	TORWART_DEBUG          - debug categories (auth, gateway, config, transport, all)
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/torwart/pkg/auth"
	"github.com/rhuss/torwart/pkg/auth/apikey"
	"github.com/rhuss/torwart/pkg/auth/jwt"
	"github.com/rhuss/torwart/pkg/auth/noop"
	"github.com/rhuss/torwart/pkg/config"
	"github.com/rhuss/torwart/pkg/debug"
	"github.com/rhuss/torwart/pkg/gateway"
	"github.com/rhuss/torwart/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)

	upstreamURL, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return fmt.Errorf("parsing upstream URL: %w", err)
	}

	chain := buildAuthChain(cfg.Auth)
	routes := buildRoutes(cfg.Routes)

	proxy := gateway.NewProxy(upstreamURL, cfg.Upstream.Timeout)
	guarded := gateway.GuardedHandler(routes, proxy)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}
	mux.Handle("GET /v1/identity", gateway.IdentityHandler())
	mux.Handle("/", guarded)

	bypass := append([]string(nil), auth.DefaultBypassEndpoints...)
	bypass = append(bypass, cfg.Auth.BypassPaths...)
	if cfg.Observability.Metrics.Enabled {
		bypass = append(bypass, cfg.Observability.Metrics.Path)
	}

	handler := observability.MetricsMiddleware(auth.Middleware(chain, bypass)(mux))

	srv := gateway.NewServer(handler,
		gateway.WithAddr(":"+strconv.Itoa(cfg.Server.Port)),
		gateway.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		gateway.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)

	slog.Info("gate configured",
		"upstream", cfg.Upstream.URL,
		"auth_mode", cfg.Auth.Mode,
		"guarded_routes", len(routes),
	)

	return srv.ListenAndServe()
}

// buildAuthChain assembles the authenticator chain for the configured mode.
func buildAuthChain(cfg config.AuthConfig) *auth.AuthChain {
	switch cfg.Mode {
	case "none":
		slog.Warn("authentication disabled, all requests accepted")
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{&noop.Authenticator{}},
			DefaultDecision: auth.Yes,
		}

	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			role := k.Role
			if role == "" {
				role = auth.RoleUser
			}
			entries = append(entries, apikey.RawKeyEntry{
				Key: k.Key,
				Identity: auth.Identity{
					CompanyID:   k.CompanyID,
					UserID:      k.UserID,
					Role:        role,
					Permissions: k.Permissions,
				},
			})
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{apikey.New(entries)},
			DefaultDecision: auth.No,
		}

	default: // jwt
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{jwt.New(jwt.Config{Secret: cfg.SigningSecret})},
			DefaultDecision: auth.No,
		}
	}
}

// buildRoutes maps route config entries to gateway routes with guards.
// Entries with neither a permission nor require_admin are skipped.
func buildRoutes(rts []config.RouteConfig) []gateway.Route {
	var routes []gateway.Route
	for _, rt := range rts {
		var guard auth.Guard
		switch {
		case rt.RequireAdmin:
			guard = auth.AdminGuard{}
		case rt.Permission != "":
			guard = auth.PermissionGuard{Permission: rt.Permission}
		default:
			continue
		}
		routes = append(routes, gateway.Route{Prefix: rt.Prefix, Guard: guard})
	}
	return routes
}
