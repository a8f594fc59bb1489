package goGate

import (
	"context"
	"sync"
	"time"
)

// UserState is the per-navigation session handle handed to the guard. It starts
// unauthenticated; [UserState.FetchUser] resolves the cookie token into a user.
// It is safe for concurrent use.
type UserState struct {
	engine *Engine
	token  string

	mu   sync.Mutex
	user *User
	err  error
}

// IsAuthenticated reports whether a user has been resolved.
func (s *UserState) IsAuthenticated() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// FetchUser resolves the session behind the token. Concurrent callers are
// serialized; once authenticated further calls return nil without I/O.
//
// Failures leave the state unauthenticated and return one of [ErrTokenInvalid],
// [ErrSessionNotFound], [ErrUserNotFound] or session.ErrRedisUnavailable.
func (s *UserState) FetchUser(ctx context.Context) error {
	if s == nil || s.engine == nil {
		return ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		return nil
	}

	m := s.engine.metrics
	m.Inc(MetricSessionFetch)
	start := time.Now()

	user, err := s.engine.resolveSession(ctx, s.token)
	m.Observe(MetricFetchLatency, time.Since(start))

	s.err = err
	if err != nil {
		m.Inc(MetricSessionFetchFailure)
		return err
	}
	s.user = user
	return nil
}

// User returns the resolved user, or nil.
func (s *UserState) User() *User {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err returns the error of the last fetch, or nil.
func (s *UserState) Err() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
