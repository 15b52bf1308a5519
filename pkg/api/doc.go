// Package api defines the wire-level error envelope and response helpers
// shared by the torwart middleware, guards, and gateway handlers.
//
// Every failed request is answered with the same JSON shape:
//
//	{"success": false, "error": "<message>"}
//
// Messages are fixed, caller-safe strings; diagnostic detail is logged
// server-side only.
package api
