package goGate

import "errors"

var (
	// ErrUnauthorized is returned when a request carries no usable session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned for an unknown identifier or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a session references a user the provider no longer knows.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned when the session behind a token is missing or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTokenInvalid is returned for a missing, malformed, expired or foreign session token.
	ErrTokenInvalid = errors.New("invalid session token")
	// ErrSessionCreationFailed is returned when a login cannot persist or sign its session.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrSessionInvalidationFailed is returned when logout cannot reach the session store.
	ErrSessionInvalidationFailed = errors.New("session invalidation failed")
	// ErrLoginRateLimited is returned when the per-identifier or per-IP budget is spent.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRouteNotFound is returned by Navigate when no route matches the path.
	ErrRouteNotFound = errors.New("route not found")
	// ErrLoginRouteInvalid is returned by Build when the login path does not
	// match an unguarded route of the table.
	ErrLoginRouteInvalid = errors.New("login path must match an unguarded route")
	// ErrUserProviderMissing is returned by Build without a UserProvider.
	ErrUserProviderMissing = errors.New("user provider is required")
	// ErrRedisMissing is returned by Build without a Redis client.
	ErrRedisMissing = errors.New("redis client is required")
	// ErrEngineNotReady is returned by calls on a nil or closed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
