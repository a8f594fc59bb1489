package users

import (
	"context"
	"errors"
	"testing"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/password"
)

func newTestHasher(t *testing.T) *password.Hasher {
	t.Helper()

	h, err := password.NewHasher(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func TestRegisterAndLookup(t *testing.T) {
	d := NewDirectory()
	h := newTestHasher(t)

	rec, err := d.Register(h, "  Alice@Example.com ", "", "learner", "correct-password-123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if rec.UserID == "" || rec.DisplayName != "Alice@Example.com" {
		t.Fatalf("unexpected record %+v", rec)
	}

	got, err := d.GetUserByIdentifier(context.Background(), "alice@example.COM")
	if err != nil {
		t.Fatalf("GetUserByIdentifier failed: %v", err)
	}
	if got.UserID != rec.UserID {
		t.Fatalf("lookup returned %q, want %q", got.UserID, rec.UserID)
	}
	if ok, err := h.Verify("correct-password-123", got.PasswordHash); err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	byID, err := d.GetUserByID(context.Background(), rec.UserID)
	if err != nil || byID.Identifier != "Alice@Example.com" {
		t.Fatalf("GetUserByID = %+v, %v", byID, err)
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	d := NewDirectory()
	if _, err := d.Add(goGate.UserRecord{UserID: "u1", Identifier: "bob"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := d.Add(goGate.UserRecord{Identifier: "BOB"}); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("expected ErrDuplicateIdentifier, got %v", err)
	}
	if _, err := d.Add(goGate.UserRecord{UserID: "u1", Identifier: "carol"}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if _, err := d.Add(goGate.UserRecord{Identifier: " "}); err == nil {
		t.Fatal("expected error for blank identifier")
	}
}

func TestUnknownUsersAreNotFound(t *testing.T) {
	d := NewDirectory()
	if _, err := d.GetUserByIdentifier(context.Background(), "nobody"); !errors.Is(err, goGate.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := d.GetUserByID(context.Background(), "nobody"); !errors.Is(err, goGate.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := d.UpdatePasswordHash(context.Background(), "nobody", "x"); !errors.Is(err, goGate.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateAndRemove(t *testing.T) {
	d := NewDirectory()
	rec, _ := d.Add(goGate.UserRecord{UserID: "u1", Identifier: "dave", PasswordHash: "old"})

	if err := d.UpdatePasswordHash(context.Background(), rec.UserID, "new"); err != nil {
		t.Fatalf("UpdatePasswordHash failed: %v", err)
	}
	got, _ := d.GetUserByID(context.Background(), "u1")
	if got.PasswordHash != "new" {
		t.Fatalf("hash = %q, want new", got.PasswordHash)
	}

	d.Remove("u1")
	d.Remove("u1")
	if d.Len() != 0 {
		t.Fatalf("Len = %d after remove", d.Len())
	}
	if _, err := d.GetUserByIdentifier(context.Background(), "dave"); !errors.Is(err, goGate.ErrUserNotFound) {
		t.Fatalf("removed user still resolvable: %v", err)
	}
}

var (
	_ goGate.UserProvider     = (*Directory)(nil)
	_ goGate.PasswordUpgrader = (*Directory)(nil)
)
