package goGate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goGate/guard"
	"github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/jwt"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/route"
	"github.com/MrEthical07/goGate/session"
)

// Engine resolves navigations and owns the login lifecycle. It is safe for
// concurrent use once returned by [Builder.Build].
type Engine struct {
	config  Config
	users   UserProvider
	routes  *route.Table
	guard   *guard.Guard
	store   *session.Store
	tokens  *jwt.Manager
	hasher  *password.Hasher
	limiter *rate.Limiter
	metrics *Metrics
	audit   *audit.Dispatcher
	closed  atomic.Bool
}

// Navigation is the outcome of [Engine.Navigate].
type Navigation struct {
	Route    route.Route
	Params   route.Params
	Decision guard.Decision
	// User is set when a guarded navigation was allowed.
	User *User
	// FetchErr is the cause recorded by the session fetch, if any. The guard
	// does not act on it; it is exposed for logging.
	FetchErr error
}

// Location is where the navigation ends up.
func (n Navigation) Location() string {
	return n.Decision.Location
}

// Allowed reports whether the navigation reaches its target.
func (n Navigation) Allowed() bool {
	return n.Decision.Allowed()
}

// PasswordUpgrader is optionally implemented by a [UserProvider] to persist
// rehashed passwords after a successful login.
type PasswordUpgrader interface {
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// Routes returns the route table.
func (e *Engine) Routes() *route.Table {
	return e.routes
}

// Guard returns the navigation guard.
func (e *Engine) Guard() *guard.Guard {
	return e.guard
}

// LoginPath returns the redirect target for unauthenticated navigations.
func (e *Engine) LoginPath() string {
	return e.guard.LoginPath()
}

// SessionTTL returns the lifetime of newly issued tokens.
func (e *Engine) SessionTTL() time.Duration {
	return e.tokens.TTL()
}

// NewUserState returns a fresh, unauthenticated session handle for token.
func (e *Engine) NewUserState(token string) *UserState {
	return &UserState{engine: e, token: strings.TrimSpace(token)}
}

// Navigate resolves path against the route table and, for guarded routes,
// runs the guard against a fresh [UserState] built from token. Unguarded
// routes are allowed without touching the session. path is in escaped form,
// as returned by [net/url.URL.EscapedPath].
func (e *Engine) Navigate(ctx context.Context, token, path string) (Navigation, error) {
	if e == nil || e.closed.Load() {
		return Navigation{}, ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m, err := e.routes.Match(path)
	if err != nil {
		e.metrics.Inc(MetricNavigationNotFound)
		return Navigation{}, fmt.Errorf("%w: %w", ErrRouteNotFound, err)
	}

	nav := Navigation{Route: m.Route, Params: m.Params}
	if !m.Route.Guarded {
		e.metrics.Inc(MetricNavigationUnguarded)
		nav.Decision = guard.Decision{State: guard.StateAllowed, Target: path, Location: path}
		return nav, nil
	}

	state := e.NewUserState(token)
	nav.Decision = e.guard.Evaluate(ctx, state, path)
	nav.FetchErr = state.Err()

	if nav.Decision.Allowed() {
		nav.User = state.User()
	}
	e.recordNavigation(ctx, nav)
	return nav, nil
}

// Logout deletes the session referenced by token. Unknown, expired or
// malformed tokens are not an error.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.closed.Load() {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.ParseSession(strings.TrimSpace(token))
	if err != nil {
		return nil
	}

	if err := e.store.Delete(ctx, claims.SID); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionInvalidationFailed, err)
	}

	e.metrics.Inc(MetricLogout)
	e.record(ctx, AuditEvent{Kind: AuditLogout, UserID: claims.UID, SessionID: claims.SID}, nil)
	return nil
}

// LogoutAll deletes every session of userID and returns how many were removed.
func (e *Engine) LogoutAll(ctx context.Context, userID string) (int, error) {
	if e == nil || e.closed.Load() {
		return 0, ErrEngineNotReady
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrUserNotFound
	}

	n, err := e.store.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSessionInvalidationFailed, err)
	}

	e.metrics.Inc(MetricLogoutAll)
	e.record(ctx, AuditEvent{Kind: AuditLogoutAll, UserID: userID, Sessions: n}, nil)
	return n, nil
}

// ActiveSessions returns the session ids currently indexed for userID.
func (e *Engine) ActiveSessions(ctx context.Context, userID string) ([]string, error) {
	if e == nil || e.closed.Load() {
		return nil, ErrEngineNotReady
	}
	return e.store.ActiveSessionIDs(ctx, userID)
}

// Health pings Redis and returns the round-trip latency.
func (e *Engine) Health(ctx context.Context) (time.Duration, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	return e.store.Ping(ctx)
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return NewMetrics(MetricsConfig{}).Snapshot()
	}
	return e.metrics.Snapshot()
}

// AuditDropped returns the number of audit events lost to backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Stats().Dropped
}

// Close flushes the audit dispatcher. The Redis client is owned by the caller
// and stays open.
func (e *Engine) Close() {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.audit.Close()
}

// resolveSession turns a cookie token into a user. Every failure maps onto one
// of the package sentinels or session.ErrRedisUnavailable.
func (e *Engine) resolveSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims, err := e.tokens.ParseSession(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	sess, err := e.store.Get(ctx, claims.SID, e.config.Session.AbsoluteSessionLifetime)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRedisUnavailable):
			return nil, err
		case errors.Is(err, session.ErrNotFound):
			return nil, ErrSessionNotFound
		default:
			return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, err)
		}
	}
	if sess.UserID != claims.UID {
		return nil, fmt.Errorf("%w: subject does not own session", ErrTokenInvalid)
	}

	rec, err := e.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}

	return userFromRecord(rec, sess.SessionID), nil
}
