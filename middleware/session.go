package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/route"
)

type navigationContextKey struct{}

// Navigator is the part of *goGate.Engine the middleware needs.
type Navigator interface {
	Navigate(ctx context.Context, token, path string) (goGate.Navigation, error)
}

// Option configures [RequireSession].
type Option func(*options)

type options struct {
	cookieName string
	onRedirect func(*http.Request, goGate.Navigation)
}

// WithCookieName reads the token from the named cookie.
func WithCookieName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.cookieName = name
		}
	}
}

// WithRedirectHook is called before every guard redirect, typically to log
// Navigation.FetchErr.
func WithRedirectHook(fn func(*http.Request, goGate.Navigation)) Option {
	return func(o *options) {
		o.onRedirect = fn
	}
}

// NavigationFromContext returns the navigation stored by [RequireSession].
func NavigationFromContext(ctx context.Context) (goGate.Navigation, bool) {
	nav, ok := ctx.Value(navigationContextKey{}).(goGate.Navigation)
	return nav, ok
}

// UserFromContext returns the user of an allowed guarded navigation.
func UserFromContext(ctx context.Context) (*goGate.User, bool) {
	nav, ok := NavigationFromContext(ctx)
	if !ok || nav.User == nil {
		return nil, false
	}
	return nav.User, true
}

// ParamsFromContext returns the route parameters of the current navigation.
func ParamsFromContext(ctx context.Context) route.Params {
	nav, _ := NavigationFromContext(ctx)
	return nav.Params
}

// RequireSession runs every request through the engine's navigation guard.
// Allowed requests reach next with the navigation in their context; redirected
// ones get 302 Found to the login path. Unknown paths answer 404. The engine
// sees the escaped path so each segment is decoded exactly once.
func RequireSession(engine Navigator, opts ...Option) func(http.Handler) http.Handler {
	o := options{cookieName: DefaultCookieName}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := WithRequestContext(r)
			nav, err := engine.Navigate(ctx, TokenFromRequest(r, o.cookieName), r.URL.EscapedPath())
			if err != nil {
				if errors.Is(err, goGate.ErrRouteNotFound) {
					http.NotFound(w, r)
					return
				}
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			if !nav.Allowed() {
				if o.onRedirect != nil {
					o.onRedirect(r, nav)
				}
				http.Redirect(w, r, nav.Location(), http.StatusFound)
				return
			}

			ctx = context.WithValue(ctx, navigationContextKey{}, nav)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithRequestContext copies the client address and user agent of r into its
// context for throttling and audit.
func WithRequestContext(r *http.Request) context.Context {
	ctx := r.Context()
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if ip != "" {
		ctx = goGate.WithClientIP(ctx, ip)
	}
	if ua := r.UserAgent(); ua != "" {
		ctx = goGate.WithUserAgent(ctx, ua)
	}
	return ctx
}
