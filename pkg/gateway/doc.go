// Package gateway forwards authenticated requests to the protected
// upstream service.
//
// The gateway trusts the identity attached to the request context by the
// auth middleware and propagates it to the upstream in X-Auth-* headers.
// Any identity headers supplied by the caller are stripped before
// forwarding, so the upstream can treat them as authoritative.
//
// Per-route guards are bound by longest-prefix match: a request to a
// guarded prefix must pass the corresponding role/permission check before
// it is proxied.
package gateway
