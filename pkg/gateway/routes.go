package gateway

import (
	"net/http"
	"sort"
	"strings"

	"github.com/rhuss/torwart/pkg/auth"
)

// Route binds a path prefix to a per-route guard.
type Route struct {
	Prefix string
	Guard  auth.Guard
}

// GuardedHandler wraps next so that requests matching a route prefix must
// pass the route's guard first. The longest matching prefix wins; paths
// matching no route are passed through unguarded (authentication has
// already run by then).
func GuardedHandler(routes []Route, next http.Handler) http.Handler {
	type compiled struct {
		prefix  string
		handler http.Handler
	}

	compiledRoutes := make([]compiled, 0, len(routes))
	for _, rt := range routes {
		compiledRoutes = append(compiledRoutes, compiled{
			prefix:  rt.Prefix,
			handler: auth.Require(rt.Guard)(next),
		})
	}
	// Longest prefix first, so the most specific guard wins.
	sort.SliceStable(compiledRoutes, func(i, j int) bool {
		return len(compiledRoutes[i].prefix) > len(compiledRoutes[j].prefix)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, cr := range compiledRoutes {
			if matchPrefix(r.URL.Path, cr.prefix) {
				cr.handler.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// matchPrefix reports whether path falls under prefix on a segment
// boundary, so "/api/admin" guards "/api/admin/users" but not
// "/api/administrators".
func matchPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
