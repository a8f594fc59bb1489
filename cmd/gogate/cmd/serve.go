package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/internal/server"
	"github.com/MrEthical07/goGate/internal/users"
	"github.com/MrEthical07/goGate/internal/view"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/route"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gogate HTTP server",
		Long: `Starts the HTTP server. Without --redis-addr an embedded in-memory Redis
is started, which is only suitable for local development.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			s, err := loadSettings(v)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger, err := newLogger(s.Debug)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, s, logger)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// app is everything a running server owns.
type app struct {
	engine  *goGate.Engine
	handler http.Handler
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(s Settings, logger *zap.Logger) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	cfg, generated, err := s.engineConfig()
	if err != nil {
		return nil, err
	}
	if generated {
		logger.Warn("no signing key configured, generated an ephemeral one")
	}

	redisAddr := s.RedisAddr
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start embedded redis: %w", err)
		}
		a.closers = append(a.closers, mr.Close)
		redisAddr = mr.Addr()
		logger.Warn("using embedded redis, sessions are lost on exit", zap.String("addr", redisAddr))
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	a.closers = append(a.closers, func() { _ = rdb.Close() })

	dir := users.NewDirectory()
	if s.DemoUser != "" {
		hasher, err := password.NewHasher(cfg.Password.HasherConfig())
		if err != nil {
			return nil, err
		}
		rec, err := dir.Register(hasher, s.DemoUser, "", "learner", s.DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("register demo user: %w", err)
		}
		logger.Info("demo user registered", zap.String("identifier", rec.Identifier), zap.String("user_id", rec.UserID))
	}

	views, err := view.New(cfg.Routes.LoginPath)
	if err != nil {
		return nil, err
	}
	table, err := route.DefaultAt(cfg.Routes.LoginPath, views.Views())
	if err != nil {
		return nil, err
	}

	engine, err := goGate.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(dir).
		WithRoutes(table).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	a.engine = engine
	a.closers = append(a.closers, engine.Close)

	a.handler = server.NewRouter(server.RouterOptions{
		Engine:         engine,
		Views:          views,
		Logger:         logger,
		Cookie:         s.cookie(),
		RequestTimeout: s.RequestTimeout,
		CORSOptions:    server.CORSOptions(s.CORSOrigins),
	})
	ok = true
	return a, nil
}

func serve(ctx context.Context, s Settings, logger *zap.Logger) error {
	a, err := newApp(s, logger)
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", s.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}
