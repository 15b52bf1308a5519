// Package auth provides pluggable authentication and authorization for torwart.
//
// Authentication uses a chain-of-responsibility pattern with three-outcome
// voting: each authenticator returns Yes (identity found), No (credentials
// invalid), or Abstain (can't handle). A configurable default voter decides
// when all authenticators abstain.
//
// Auth is implemented as HTTP middleware, keeping it decoupled from the
// gateway logic. The middleware attaches the resolved identity to the
// request context; per-route guards (PermissionGuard, AdminGuard) check
// that identity after authentication has run.
package auth
