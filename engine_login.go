package goGate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goGate/session"
	"github.com/google/uuid"
)

// Login verifies credentials, persists a new session and returns its signed
// token. Throttle failures of any kind refuse the login.
func (e *Engine) Login(ctx context.Context, identifier, plain string) (string, *User, error) {
	if e == nil || e.closed.Load() {
		return "", nil, ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	identifier = strings.TrimSpace(identifier)
	ip := clientIPFromContext(ctx)

	if err := e.limiter.CheckLogin(ctx, identifier, ip); err != nil {
		return "", nil, e.loginRateLimited(ctx, identifier, "")
	}

	if identifier == "" || plain == "" {
		return "", nil, e.loginFailed(ctx, identifier, ip, "", "empty_credentials")
	}

	rec, err := e.users.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		return "", nil, e.loginFailed(ctx, identifier, ip, "", "user_not_found")
	}

	ok, err := e.hasher.Verify(plain, rec.PasswordHash)
	if err != nil || !ok {
		return "", nil, e.loginFailed(ctx, identifier, ip, rec.UserID, "password_mismatch")
	}

	if e.config.Password.UpgradeOnLogin {
		e.upgradePassword(ctx, rec, plain)
	}
	plain = ""

	// A failed reset only leaves a stale counter behind.
	_ = e.limiter.Reset(ctx, identifier, ip)

	sessionID := uuid.NewString()
	now := time.Now()
	ttl := e.tokens.TTL()
	sess := &session.Session{
		SessionID: sessionID,
		UserID:    rec.UserID,
		Role:      rec.Role,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	token, err := e.tokens.CreateSession(rec.UserID, sessionID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
	}
	if err := e.store.Save(ctx, sess, ttl); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrSessionCreationFailed, err)
	}

	e.metrics.Inc(MetricSessionCreated)
	e.metrics.Inc(MetricLoginSuccess)
	e.record(ctx, AuditEvent{
		Kind:      AuditLoginSuccess,
		UserID:    rec.UserID,
		SessionID: sessionID,
		Login:     &AuditLogin{Identifier: identifier},
	}, nil)

	return token, userFromRecord(rec, sessionID), nil
}

func (e *Engine) loginFailed(ctx context.Context, identifier, ip, userID, reason string) error {
	if err := e.limiter.RecordFailure(ctx, identifier, ip); err != nil {
		return e.loginRateLimited(ctx, identifier, userID)
	}

	e.metrics.Inc(MetricLoginFailure)
	e.recordLogin(ctx, AuditLoginFailure, userID, identifier, reason, ErrInvalidCredentials)
	return ErrInvalidCredentials
}

func (e *Engine) loginRateLimited(ctx context.Context, identifier, userID string) error {
	e.metrics.Inc(MetricLoginRateLimited)
	e.recordLogin(ctx, AuditLoginRateLimited, userID, identifier, "", ErrLoginRateLimited)
	return ErrLoginRateLimited
}

func (e *Engine) upgradePassword(ctx context.Context, rec UserRecord, plain string) {
	upgrader, ok := e.users.(PasswordUpgrader)
	if !ok {
		return
	}
	needs, err := e.hasher.NeedsRehash(rec.PasswordHash)
	if err != nil || !needs {
		return
	}
	hash, err := e.hasher.Hash(plain)
	if err != nil {
		return
	}
	if err := upgrader.UpdatePasswordHash(ctx, rec.UserID, hash); err != nil {
		return
	}
	e.metrics.Inc(MetricPasswordRehashed)
}
