//go:build integration

package test

import (
	"context"
	"testing"
)

func TestRedisCompat_NavigateAfterLogin(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			engine, _ := newIntegrationEngine(t, mode.setup(t), nil)
			token, user := mustLogin(t, engine, "alice")

			nav, err := engine.Navigate(ctx, token, "/session/7/edit/3")
			if err != nil {
				t.Fatalf("Navigate failed: %v", err)
			}
			if !nav.Allowed() || nav.Location() != "/session/7/edit/3" {
				t.Fatalf("expected allowed navigation, got %+v", nav.Decision)
			}
			if nav.User == nil || nav.User.SessionID != user.SessionID {
				t.Fatalf("unexpected navigation user %+v", nav.User)
			}
		})
	}
}

func TestRedisCompat_LogoutIdempotent(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			engine, _ := newIntegrationEngine(t, mode.setup(t), nil)
			token, _ := mustLogin(t, engine, "alice")

			if err := engine.Logout(ctx, token); err != nil {
				t.Fatalf("first Logout failed: %v", err)
			}
			if err := engine.Logout(ctx, token); err != nil {
				t.Fatalf("second Logout failed: %v", err)
			}

			nav, err := engine.Navigate(ctx, token, "/")
			if err != nil {
				t.Fatalf("Navigate failed: %v", err)
			}
			if nav.Allowed() || nav.Location() != "/login" {
				t.Fatalf("logged out token still navigates: %+v", nav.Decision)
			}
		})
	}
}

func TestRedisCompat_LogoutAllIsolatesUsers(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			engine, _ := newIntegrationEngine(t, mode.setup(t), nil)

			first, alice := mustLogin(t, engine, "alice")
			second, _ := mustLogin(t, engine, "alice")
			other, _ := mustLogin(t, engine, "bob")

			n, err := engine.LogoutAll(ctx, alice.UserID)
			if err != nil {
				t.Fatalf("LogoutAll failed: %v", err)
			}
			if n != 2 {
				t.Fatalf("expected 2 sessions removed, got %d", n)
			}

			for _, tok := range []string{first, second} {
				nav, _ := engine.Navigate(ctx, tok, "/module/1")
				if nav.Allowed() {
					t.Fatal("alice session survived LogoutAll")
				}
			}
			nav, _ := engine.Navigate(ctx, other, "/module/1")
			if !nav.Allowed() {
				t.Fatal("bob session must not be affected")
			}

			if n, err := engine.LogoutAll(ctx, alice.UserID); err != nil || n != 0 {
				t.Fatalf("second LogoutAll: n=%d err=%v", n, err)
			}
		})
	}
}

func TestRedisCompat_RemovedUserIsRedirected(t *testing.T) {
	for _, mode := range redisModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			engine, dir := newIntegrationEngine(t, mode.setup(t), nil)
			token, user := mustLogin(t, engine, "bob")

			dir.Remove(user.UserID)

			nav, err := engine.Navigate(ctx, token, "/module/9")
			if err != nil {
				t.Fatalf("Navigate failed: %v", err)
			}
			if nav.Allowed() || nav.FetchErr == nil {
				t.Fatalf("expected redirect with a fetch error, got %+v (err=%v)", nav.Decision, nav.FetchErr)
			}
		})
	}
}
