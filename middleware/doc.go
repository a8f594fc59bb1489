// Package middleware binds the navigation guard to net/http.
//
// [RequireSession] reads the session token from the request, asks the engine to
// navigate to the request path and either forwards to the next handler with the
// navigation in the context or answers with a 302 redirect to the login path.
//
// The package translates HTTP semantics into Engine calls. It does not parse
// tokens or touch Redis itself.
package middleware
