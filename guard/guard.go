package guard

import (
	"context"
	"strings"
)

// DefaultLoginPath is the redirect target for unauthenticated navigations.
const DefaultLoginPath = "/login"

// Session is the user-session capability the guard depends on.
//
// IsAuthenticated is a synchronous read of the current flag. FetchUser resolves
// the session; its error is ignored by the guard, which only re-reads the flag.
type Session interface {
	IsAuthenticated() bool
	FetchUser(ctx context.Context) error
}

// State is a step of a single guard evaluation.
type State uint8

const (
	// StateIdle is the state before evaluation starts.
	StateIdle State = iota
	// StateCheckingSession is entered while the session is being resolved.
	StateCheckingSession
	// StateAllowed is terminal: the navigation proceeds to its target.
	StateAllowed
	// StateRedirecting is terminal: the navigation is sent to the login path.
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckingSession:
		return "checking_session"
	case StateAllowed:
		return "allowed"
	case StateRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// Decision is the outcome of one evaluation.
type Decision struct {
	// State is either StateAllowed or StateRedirecting.
	State State
	// Target is the originally requested location.
	Target string
	// Location is where the navigation ends up.
	Location string
	// Fetched reports whether FetchUser was called.
	Fetched bool
}

// Allowed reports whether the navigation may proceed to its target.
func (d Decision) Allowed() bool {
	return d.State == StateAllowed
}

// Option configures a [Guard].
type Option func(*Guard)

// WithLoginPath overrides the redirect target.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path = strings.TrimSpace(path); path != "" {
			g.loginPath = path
		}
	}
}

// WithObserver registers a callback that receives every transition of every
// evaluation, including the terminal one.
func WithObserver(fn func(from, to State)) Option {
	return func(g *Guard) {
		g.observer = fn
	}
}

// Guard decides whether a navigation to a guarded route may proceed. A Guard is
// immutable after construction and safe for concurrent use.
type Guard struct {
	loginPath string
	observer  func(from, to State)
}

// New returns a [Guard] redirecting to [DefaultLoginPath] unless overridden.
func New(opts ...Option) *Guard {
	g := &Guard{loginPath: DefaultLoginPath}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// LoginPath returns the redirect target.
func (g *Guard) LoginPath() string {
	return g.loginPath
}

// Evaluate runs the decision procedure for a navigation to target. A nil sess is
// treated as unauthenticated without a fetch.
func (g *Guard) Evaluate(ctx context.Context, sess Session, target string) Decision {
	if ctx == nil {
		ctx = context.Background()
	}

	d := Decision{Target: target}
	state := StateIdle

	if sess != nil && !sess.IsAuthenticated() {
		state = g.transition(state, StateCheckingSession)
		_ = sess.FetchUser(ctx)
		d.Fetched = true
	}

	if sess != nil && sess.IsAuthenticated() {
		d.State = g.transition(state, StateAllowed)
		d.Location = target
		return d
	}

	d.State = g.transition(state, StateRedirecting)
	d.Location = g.loginPath
	return d
}

func (g *Guard) transition(from, to State) State {
	if g.observer != nil {
		g.observer(from, to)
	}
	return to
}
