package goGate

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/MrEthical07/goGate/password"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testPassword = "correct-password-123"

type mockUserProvider struct {
	mu           sync.Mutex
	users        map[string]UserRecord
	byIdentifier map[string]string
	lookups      int
	upgraded     map[string]string
}

func (m *mockUserProvider) GetUserByIdentifier(_ context.Context, identifier string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byIdentifier[strings.ToLower(identifier)]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return m.users[id], nil
}

func (m *mockUserProvider) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	rec, ok := m.users[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return rec, nil
}

func (m *mockUserProvider) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upgraded == nil {
		m.upgraded = map[string]string{}
	}
	m.upgraded[userID] = hash
	rec := m.users[userID]
	rec.PasswordHash = hash
	m.users[userID] = rec
	return nil
}

func (m *mockUserProvider) remove(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Session.JitterEnabled = false
	cfg.Session.JitterRange = 0
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 2
	cfg.Password.Parallelism = 1
	return cfg
}

func hashFor(t *testing.T, cfg password.Config, plain string) string {
	t.Helper()

	h, err := password.NewHasher(cfg)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	hash, err := h.Hash(plain)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	return hash
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func newAliceProvider(t *testing.T, cfg Config) *mockUserProvider {
	t.Helper()

	return &mockUserProvider{
		users: map[string]UserRecord{
			"u1": {
				UserID:       "u1",
				Identifier:   "alice",
				DisplayName:  "Alice",
				PasswordHash: hashFor(t, cfg.Password.HasherConfig(), testPassword),
				Role:         "learner",
			},
		},
		byIdentifier: map[string]string{"alice": "u1"},
	}
}

type testEnv struct {
	engine *Engine
	mr     *miniredis.Miniredis
	redis  *redis.Client
	users  *mockUserProvider
}

func newTestEnv(t *testing.T, cfg Config, sink AuditSink) *testEnv {
	t.Helper()

	mr, rdb := newTestRedis(t)
	up := newAliceProvider(t, cfg)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(up).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{engine: engine, mr: mr, redis: rdb, users: up}
}

func (env *testEnv) login(t *testing.T) string {
	t.Helper()

	token, _, err := env.engine.Login(context.Background(), "alice", testPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return token
}
