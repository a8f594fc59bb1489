package goGate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goGate/password"
)

func TestLoginIssuesSessionToken(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	token, user, err := env.engine.Login(context.Background(), "Alice", testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" || user == nil || user.UserID != "u1" || user.SessionID == "" {
		t.Fatalf("unexpected login result token=%q user=%+v", token, user)
	}

	ids, err := env.engine.ActiveSessions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ActiveSessions failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != user.SessionID {
		t.Fatalf("active sessions = %v, want [%s]", ids, user.SessionID)
	}

	ttl := env.mr.TTL("gg:s:" + user.SessionID)
	if ttl <= 0 || ttl > env.engine.SessionTTL() {
		t.Fatalf("session ttl = %v, want within (0, %v]", ttl, env.engine.SessionTTL())
	}

	c := env.engine.MetricsSnapshot().Counters
	if c[MetricLoginSuccess] != 1 || c[MetricSessionCreated] != 1 {
		t.Fatalf("unexpected counters %+v", c)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{name: "wrong password", identifier: "alice", password: "wrong-password-123"},
		{name: "unknown user", identifier: "bob", password: testPassword},
		{name: "empty password", identifier: "alice", password: ""},
		{name: "empty identifier", identifier: "  ", password: testPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.engine.Login(context.Background(), tt.identifier, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginThrottleLocksIdentifier(t *testing.T) {
	cfg := testConfig()
	cfg.Security.MaxLoginAttempts = 3
	cfg.Security.LoginWindow = time.Minute
	env := newTestEnv(t, cfg, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := env.engine.Login(ctx, "alice", "wrong-password-123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if _, _, err := env.engine.Login(ctx, "alice", "wrong-password-123"); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("budget-exhausting attempt: expected ErrLoginRateLimited, got %v", err)
	}
	if _, _, err := env.engine.Login(ctx, "alice", testPassword); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("correct password while locked: expected ErrLoginRateLimited, got %v", err)
	}

	env.mr.FastForward(2 * time.Minute)
	if _, _, err := env.engine.Login(ctx, "alice", testPassword); err != nil {
		t.Fatalf("login after window failed: %v", err)
	}

	if got := env.engine.MetricsSnapshot().Counters[MetricLoginRateLimited]; got != 2 {
		t.Fatalf("rate limited counter = %d, want 2", got)
	}
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.Security.MaxLoginAttempts = 3
	env := newTestEnv(t, cfg, nil)
	ctx := context.Background()

	_, _, _ = env.engine.Login(ctx, "alice", "wrong-password-123")
	_, _, _ = env.engine.Login(ctx, "alice", "wrong-password-123")
	if _, _, err := env.engine.Login(ctx, "alice", testPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, _, err := env.engine.Login(ctx, "alice", "wrong-password-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("counter should have been reset, got %v", err)
	}
}

func TestLoginPerIPThrottle(t *testing.T) {
	cfg := testConfig()
	cfg.Security.MaxLoginAttempts = 2
	env := newTestEnv(t, cfg, nil)
	ctx := WithClientIP(context.Background(), "203.0.113.7")

	_, _, _ = env.engine.Login(ctx, "mallory-1", testPassword)
	_, _, _ = env.engine.Login(ctx, "mallory-2", testPassword)

	if _, _, err := env.engine.Login(ctx, "alice", testPassword); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected IP lockout, got %v", err)
	}
	if _, _, err := env.engine.Login(context.Background(), "alice", testPassword); err != nil {
		t.Fatalf("login from another client failed: %v", err)
	}
}

func TestLoginRedisDownFailsClosed(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.mr.Close()

	if _, _, err := env.engine.Login(context.Background(), "alice", testPassword); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected ErrLoginRateLimited with throttle backend down, got %v", err)
	}
}

func TestLoginSessionCreationFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableLoginThrottle = false
	env := newTestEnv(t, cfg, nil)
	env.mr.Close()

	if _, _, err := env.engine.Login(context.Background(), "alice", testPassword); !errors.Is(err, ErrSessionCreationFailed) {
		t.Fatalf("expected ErrSessionCreationFailed, got %v", err)
	}
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	cfg := testConfig()
	env := newTestEnv(t, cfg, nil)

	weak := cfg.Password.HasherConfig()
	weak.Time = 1
	rec := env.users.users["u1"]
	rec.PasswordHash = hashFor(t, weak, testPassword)
	env.users.users["u1"] = rec

	if _, _, err := env.engine.Login(context.Background(), "alice", testPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	upgraded, ok := env.users.upgraded["u1"]
	if !ok {
		t.Fatal("expected hash to be upgraded")
	}

	h, err := password.NewHasher(cfg.Password.HasherConfig())
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	if needs, err := h.NeedsRehash(upgraded); err != nil || needs {
		t.Fatalf("upgraded hash still weak: needs=%v err=%v", needs, err)
	}
	if got := env.engine.MetricsSnapshot().Counters[MetricPasswordRehashed]; got != 1 {
		t.Fatalf("rehash counter = %d, want 1", got)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	token := env.login(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := env.engine.Logout(ctx, token); err != nil {
			t.Fatalf("Logout #%d failed: %v", i+1, err)
		}
	}
	if err := env.engine.Logout(ctx, "not-a-token"); err != nil {
		t.Fatalf("Logout with garbage token failed: %v", err)
	}
	if err := env.engine.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout with empty token failed: %v", err)
	}
}

func TestLogoutAllRemovesEverySession(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	first := env.login(t)
	second := env.login(t)

	n, err := env.engine.LogoutAll(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LogoutAll failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed %d sessions, want 2", n)
	}

	for _, token := range []string{first, second} {
		nav, err := env.engine.Navigate(context.Background(), token, "/")
		if err != nil {
			t.Fatalf("Navigate failed: %v", err)
		}
		if nav.Allowed() {
			t.Fatal("session survived LogoutAll")
		}
	}

	if _, err := env.engine.LogoutAll(context.Background(), " "); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for blank user, got %v", err)
	}
}

func TestTokenForDeletedSessionOfOtherUserIsRejected(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	token := env.login(t)

	claims, err := env.engine.tokens.ParseSession(token)
	if err != nil {
		t.Fatalf("ParseSession failed: %v", err)
	}
	forged, err := env.engine.tokens.CreateSession("u2", claims.SID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	state := env.engine.NewUserState(forged)
	if err := state.FetchUser(context.Background()); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for mismatched subject, got %v", err)
	}
}
