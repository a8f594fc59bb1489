//go:build integration

package test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goGate "github.com/MrEthical07/goGate"
)

// cmdCounter is a go-redis Hook that counts Redis round-trips (individual
// commands and pipeline calls).
type cmdCounter struct {
	commands  atomic.Int64
	pipelines atomic.Int64
}

func (h *cmdCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *cmdCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.commands.Add(1)
		return next(ctx, cmd)
	}
}

func (h *cmdCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		// One network round-trip regardless of command count.
		h.pipelines.Add(1)
		h.commands.Add(int64(len(cmds)))
		return next(ctx, cmds)
	}
}

func (h *cmdCounter) Reset() {
	h.commands.Store(0)
	h.pipelines.Store(0)
}

func (h *cmdCounter) Commands() int64  { return h.commands.Load() }
func (h *cmdCounter) Pipelines() int64 { return h.pipelines.Load() }

// newCountedEngine returns an engine over miniredis with a cmdCounter
// installed. Reset the counter before each measured operation.
func newCountedEngine(t *testing.T, sliding bool) (*goGate.Engine, *cmdCounter) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	counter := &cmdCounter{}
	rdb.AddHook(counter)

	// go-redis may emit extra commands on first use; warm the connection.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("warmup ping: %v", err)
	}

	engine, _ := newIntegrationEngine(t, rdb, func(cfg *goGate.Config) {
		cfg.Session.SlidingExpiration = sliding
	})
	counter.Reset()
	return engine, counter
}

func TestAnonymousNavigationRedisBudget(t *testing.T) {
	engine, counter := newCountedEngine(t, true)

	nav, err := engine.Navigate(context.Background(), "", "/module/1")
	if err != nil || nav.Allowed() {
		t.Fatalf("expected redirect, got %+v err=%v", nav.Decision, err)
	}
	if got := counter.Commands(); got != 0 {
		t.Fatalf("anonymous navigation issued %d redis commands, want 0", got)
	}

	if _, err := engine.Navigate(context.Background(), "not-a-token", "/module/1"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if got := counter.Commands(); got != 0 {
		t.Fatalf("malformed token issued %d redis commands, want 0", got)
	}
}

func TestUnguardedNavigationRedisBudget(t *testing.T) {
	engine, counter := newCountedEngine(t, true)

	if _, err := engine.Navigate(context.Background(), "whatever", "/login"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if got := counter.Commands(); got != 0 {
		t.Fatalf("login page issued %d redis commands, want 0", got)
	}
}

func TestGuardedNavigationRedisBudget(t *testing.T) {
	tests := []struct {
		name    string
		sliding bool
		want    int64
	}{
		{name: "sliding", sliding: true, want: 2},
		{name: "fixed", sliding: false, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, counter := newCountedEngine(t, tt.sliding)
			token, _ := mustLogin(t, engine, "alice")

			counter.Reset()
			nav, err := engine.Navigate(context.Background(), token, "/session/1/do/2")
			if err != nil || !nav.Allowed() {
				t.Fatalf("expected allowed navigation, got %+v err=%v", nav.Decision, err)
			}
			if got := counter.Commands(); got > tt.want {
				t.Fatalf("guarded navigation used %d commands, budget %d", got, tt.want)
			}
			if got := counter.Pipelines(); got != 0 {
				t.Fatalf("guarded navigation used %d pipelines, want 0", got)
			}
		})
	}
}

func TestLoginSessionSaveRedisBudget(t *testing.T) {
	engine, counter := newCountedEngine(t, true)

	mustLogin(t, engine, "alice")
	if got := counter.Pipelines(); got != 1 {
		t.Fatalf("login used %d pipelines, want 1", got)
	}
}
