//go:build integration

package test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/internal/users"
	"github.com/MrEthical07/goGate/password"
)

const testPassword = "correct-password-123"

// redisMode describes which Redis backend a suite is running against.
type redisMode struct {
	name  string
	setup func(t *testing.T) redis.UniversalClient
}

// redisModes returns the Redis backends to test. miniredis is always
// available; a real standalone Redis is added when REDIS_ADDR is set.
func redisModes(t *testing.T) []redisMode {
	t.Helper()
	modes := []redisMode{{
		name: "miniredis",
		setup: func(t *testing.T) redis.UniversalClient {
			t.Helper()
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = rdb.Close() })
			return rdb
		},
	}}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, redisMode{
			name: "standalone:" + addr,
			setup: func(t *testing.T) redis.UniversalClient {
				t.Helper()
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				pingOrSkip(t, rdb)
				rdb.FlushDB(context.Background())
				t.Cleanup(func() {
					rdb.FlushDB(context.Background())
					_ = rdb.Close()
				})
				return rdb
			},
		})
	}

	return modes
}

func pingOrSkip(t *testing.T, rdb redis.UniversalClient) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("cannot connect to Redis: %v", err)
	}
}

// newIntegrationEngine builds an engine over client with two learners,
// alice and bob, both using testPassword.
func newIntegrationEngine(t *testing.T, client redis.UniversalClient, mutate func(*goGate.Config)) (*goGate.Engine, *users.Directory) {
	t.Helper()

	cfg := goGate.DefaultConfig()
	cfg.Token.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Session.RedisPrefix = "ggit"
	cfg.Session.JitterEnabled = false
	cfg.Session.JitterRange = 0
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Security.EnableLoginThrottle = false
	cfg.Security.EnableIPThrottle = false
	if mutate != nil {
		mutate(&cfg)
	}

	hasher, err := password.NewHasher(cfg.Password.HasherConfig())
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	dir := users.NewDirectory()
	for _, name := range []string{"alice", "bob"} {
		if _, err := dir.Register(hasher, name, "", "learner", testPassword); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}

	engine, err := goGate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserProvider(dir).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, dir
}

func mustLogin(t *testing.T, engine *goGate.Engine, identifier string) (string, *goGate.User) {
	t.Helper()
	token, user, err := engine.Login(context.Background(), identifier, testPassword)
	if err != nil {
		t.Fatalf("Login %s failed: %v", identifier, err)
	}
	return token, user
}
