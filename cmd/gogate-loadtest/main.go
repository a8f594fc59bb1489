// Command gogate-loadtest measures guarded navigation throughput against a
// Redis instance (or an embedded one).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/internal/users"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/session"
)

const loadPassword = "load-test-password"

var guardedPaths = []string{
	"/",
	"/module/42",
	"/session/7/do/3",
	"/session/7/edit",
	"/session/7/edit/9",
}

type loadUser struct {
	token     string
	sessionID string
}

func main() {
	var (
		userCount   = flag.Int("users", 64, "number of users to log in")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gg", "session key prefix")
	)
	flag.Parse()

	if *userCount <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	var client redis.UniversalClient
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	engine, logins, err := setup(ctx, client, *prefix, *userCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	store := session.NewStore(client, *prefix, false, false, 0)

	navigateStats := runPhase(*ops, *concurrency, func(r *rand.Rand) bool {
		u := logins[r.Intn(len(logins))]
		nav, err := engine.Navigate(ctx, u.token, guardedPaths[r.Intn(len(guardedPaths))])
		return err == nil && nav.Allowed()
	})
	anonymousStats := runPhase(*ops, *concurrency, func(r *rand.Rand) bool {
		nav, err := engine.Navigate(ctx, "", guardedPaths[r.Intn(len(guardedPaths))])
		return err == nil && !nav.Allowed()
	})
	storeStats := runPhase(*ops, *concurrency, func(r *rand.Rand) bool {
		_, err := store.GetReadOnly(ctx, logins[r.Intn(len(logins))].sessionID)
		return err == nil
	})

	fmt.Println("---- results ----")
	printStats("navigate", navigateStats)
	printStats("anonymous", anonymousStats)
	printStats("store-get", storeStats)
}

// setup registers and logs in n users with cheap argon2 parameters.
func setup(ctx context.Context, client redis.UniversalClient, prefix string, n int) (*goGate.Engine, []loadUser, error) {
	cfg := goGate.DefaultConfig()
	cfg.Token.PrivateKey = []byte("gogate-loadtest-signing-key-0123456789")
	cfg.Session.RedisPrefix = prefix
	cfg.Session.SlidingExpiration = false
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Security.EnableLoginThrottle = false
	cfg.Security.EnableIPThrottle = false
	cfg.Metrics.Enabled = false

	hasher, err := password.NewHasher(cfg.Password.HasherConfig())
	if err != nil {
		return nil, nil, err
	}
	hash, err := hasher.Hash(loadPassword)
	if err != nil {
		return nil, nil, err
	}

	dir := users.NewDirectory()
	for i := 0; i < n; i++ {
		rec := goGate.UserRecord{
			Identifier:   fmt.Sprintf("user-%d", i),
			PasswordHash: hash,
			Role:         "learner",
		}
		if _, err := dir.Add(rec); err != nil {
			return nil, nil, err
		}
	}

	engine, err := goGate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserProvider(dir).
		Build()
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("logging in %d users...\n", n)
	start := time.Now()
	logins := make([]loadUser, 0, n)
	for i := 0; i < n; i++ {
		token, user, err := engine.Login(ctx, fmt.Sprintf("user-%d", i), loadPassword)
		if err != nil {
			engine.Close()
			return nil, nil, fmt.Errorf("login user-%d: %w", i, err)
		}
		logins = append(logins, loadUser{token: token, sessionID: user.SessionID})
	}
	fmt.Printf("logged in in %s\n", time.Since(start).Round(time.Millisecond))
	return engine, logins, nil
}

// runPhase calls op ops times across concurrency workers. op reports whether
// the call produced the expected outcome.
func runPhase(ops, concurrency int, op func(*rand.Rand) bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				ok := op(r)
				d := time.Since(t0)
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
