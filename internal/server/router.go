package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/internal/view"
	"github.com/MrEthical07/goGate/metrics/export/prometheus"
	gatemw "github.com/MrEthical07/goGate/middleware"
)

// DefaultRequestTimeout bounds a request when RouterOptions leaves it unset.
const DefaultRequestTimeout = 10 * time.Second

// Engine is the subset of *goGate.Engine the router drives.
type Engine interface {
	gatemw.Navigator
	prometheus.Source
	Login(ctx context.Context, identifier, password string) (string, *goGate.User, error)
	Logout(ctx context.Context, token string) error
	Health(ctx context.Context) (time.Duration, error)
	LoginPath() string
	SessionTTL() time.Duration
}

// RouterOptions controls the construction of the gogate router. Engine and
// Views are required.
type RouterOptions struct {
	Engine         Engine
	Views          *view.Renderer
	Logger         *zap.Logger
	Cookie         gatemw.CookieConfig
	RequestTimeout time.Duration
	// CORSOptions enables cross-origin access when set.
	CORSOptions *cors.Options
	Middleware  []func(http.Handler) http.Handler
}

// CORSOptions returns a policy admitting origins with credentials, for front
// ends served from another host.
func CORSOptions(origins []string) *cors.Options {
	if len(origins) == 0 {
		return nil
	}
	return &cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// NewRouter mounts every table route behind the navigation guard. Matching is
// left to the engine's route table, so chi only sees a catch-all GET.
func NewRouter(opts RouterOptions) chi.Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if opts.CORSOptions != nil {
		r.Use(cors.Handler(*opts.CORSOptions))
	}
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	h := &handlers{
		engine: opts.Engine,
		views:  opts.Views,
		cookie: opts.Cookie,
		logger: logger,
	}

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", prometheus.NewExporter(opts.Engine).Handler())
	r.Post(opts.Engine.LoginPath(), h.login)
	r.Post("/logout", h.logout)

	guard := gatemw.RequireSession(opts.Engine,
		gatemw.WithCookieName(opts.Cookie.Name),
		gatemw.WithRedirectHook(h.logRedirect),
	)
	r.With(guard).Get("/*", h.view)

	return r
}
