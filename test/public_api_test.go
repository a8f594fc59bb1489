package test

import (
	"context"
	"net/http"
	"testing"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/guard"
	"github.com/MrEthical07/goGate/middleware"
	"github.com/MrEthical07/goGate/route"
)

// Guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goGate.New
	_ = goGate.DefaultConfig
	_ = route.Default
	_ = guard.New

	var _ *goGate.Engine
	var _ *goGate.UserState
	var _ goGate.Config
	var _ goGate.Navigation
	var _ goGate.UserProvider
	var _ goGate.AuditSink
	var _ guard.Session = (*goGate.UserState)(nil)
	var _ middleware.Navigator = (*goGate.Engine)(nil)

	var _ error = goGate.ErrTokenInvalid
	var _ error = goGate.ErrSessionNotFound
	var _ error = goGate.ErrUserNotFound
	var _ error = goGate.ErrInvalidCredentials
	var _ error = goGate.ErrLoginRateLimited
	var _ error = goGate.ErrRouteNotFound

	var _ func(middleware.Navigator, ...middleware.Option) func(http.Handler) http.Handler = middleware.RequireSession

	var _ func(*goGate.Engine, context.Context, string, string) (goGate.Navigation, error) = (*goGate.Engine).Navigate
	var _ func(*goGate.Engine, context.Context, string, string) (string, *goGate.User, error) = (*goGate.Engine).Login
	var _ func(*goGate.Engine, context.Context, string) error = (*goGate.Engine).Logout
	var _ func(*goGate.Engine, context.Context, string) (int, error) = (*goGate.Engine).LogoutAll
	var _ func(*goGate.UserState, context.Context) error = (*goGate.UserState).FetchUser
}
