package goGate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/goGate/guard"
	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/jwt"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/route"
	"github.com/MrEthical07/goGate/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. It is single-use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	userProvider UserProvider
	auditSink    AuditSink
	routes       *route.Table

	built bool
}

// New returns a [Builder] seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration with a deep copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client used for sessions and throttling.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the user directory.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the audit destination. It only takes effect when
// Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithRoutes sets the route table. Without it the engine uses
// route.DefaultAt the configured login path with no views attached.
func (b *Builder) WithRoutes(t *route.Table) *Builder {
	b.routes = t
	return b
}

// WithMetricsEnabled toggles counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the fetch latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, ErrRedisMissing
	}
	if b.userProvider == nil {
		return nil, ErrUserProviderMissing
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	cfg := cloneConfig(b.config)

	tokens, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.Token.TTL,
		SigningMethod: jwt.SigningMethod(strings.ToLower(cfg.Token.SigningMethod)),
		PrivateKey:    cfg.Token.PrivateKey,
		PublicKey:     cfg.Token.PublicKey,
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
		Leeway:        cfg.Token.Leeway,
		RequireIAT:    true,
		KeyID:         cfg.Token.KeyID,
		VerifyKeys:    cfg.Token.VerifyKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	hasher, err := password.NewHasher(cfg.Password.HasherConfig())
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	routes := b.routes
	if routes == nil {
		routes, err = route.DefaultAt(cfg.Routes.LoginPath, route.Views{})
		if err != nil {
			return nil, err
		}
	}
	if err := checkLoginRoute(routes, cfg.Routes.LoginPath); err != nil {
		return nil, err
	}

	metrics := NewMetrics(cfg.Metrics)

	e := &Engine{
		config:  cfg,
		users:   b.userProvider,
		routes:  routes,
		tokens:  tokens,
		hasher:  hasher,
		metrics: metrics,
		store: session.NewStore(
			b.redis,
			cfg.Session.RedisPrefix,
			cfg.Session.SlidingExpiration,
			cfg.Session.JitterEnabled,
			cfg.Session.JitterRange,
		),
		limiter: rate.New(b.redis, rate.Config{
			Enabled:          cfg.Security.EnableLoginThrottle,
			EnableIPThrottle: cfg.Security.EnableIPThrottle,
			MaxAttempts:      cfg.Security.MaxLoginAttempts,
			Window:           cfg.Security.LoginWindow,
			Prefix:           cfg.Session.RedisPrefix,
		}),
		guard: guard.New(
			guard.WithLoginPath(cfg.Routes.LoginPath),
			guard.WithObserver(func(_, to guard.State) {
				switch to {
				case guard.StateAllowed:
					metrics.Inc(MetricNavigationAllowed)
				case guard.StateRedirecting:
					metrics.Inc(MetricNavigationRedirected)
				}
			}),
		),
		audit: newAuditDispatcher(cfg.Audit, b.auditSink),
	}

	b.built = true
	return e, nil
}

// checkLoginRoute rejects tables where the redirect target would 404 or
// redirect to itself.
func checkLoginRoute(routes *route.Table, loginPath string) error {
	m, err := routes.Match(loginPath)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrLoginRouteInvalid, loginPath, err)
	}
	if m.Route.Guarded {
		return fmt.Errorf("%w: %q resolves to guarded route %s", ErrLoginRouteInvalid, loginPath, m.Route.Name)
	}
	return nil
}
