// Package users is an in-memory user directory for development servers and
// tests. Identifiers are matched case-insensitively.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/password"
	"github.com/google/uuid"
)

// ErrDuplicateIdentifier is returned by Add for an identifier already present.
var ErrDuplicateIdentifier = errors.New("identifier already registered")

// Directory implements goGate.UserProvider and goGate.PasswordUpgrader.
type Directory struct {
	mu           sync.RWMutex
	byID         map[string]goGate.UserRecord
	byIdentifier map[string]string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		byID:         make(map[string]goGate.UserRecord),
		byIdentifier: make(map[string]string),
	}
}

func normalize(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Add stores rec. A blank UserID is replaced with a random one.
func (d *Directory) Add(rec goGate.UserRecord) (goGate.UserRecord, error) {
	key := normalize(rec.Identifier)
	if key == "" {
		return goGate.UserRecord{}, errors.New("identifier required")
	}
	if rec.UserID == "" {
		rec.UserID = uuid.NewString()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byIdentifier[key]; exists {
		return goGate.UserRecord{}, fmt.Errorf("%w: %q", ErrDuplicateIdentifier, rec.Identifier)
	}
	if _, exists := d.byID[rec.UserID]; exists {
		return goGate.UserRecord{}, fmt.Errorf("user id %q already registered", rec.UserID)
	}
	d.byID[rec.UserID] = rec
	d.byIdentifier[key] = rec.UserID
	return rec, nil
}

// Register hashes plain with h and adds the resulting user.
func (d *Directory) Register(h *password.Hasher, identifier, displayName, role, plain string) (goGate.UserRecord, error) {
	identifier = strings.TrimSpace(identifier)
	hash, err := h.Hash(plain)
	if err != nil {
		return goGate.UserRecord{}, err
	}
	if displayName == "" {
		displayName = identifier
	}
	return d.Add(goGate.UserRecord{
		Identifier:   identifier,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         role,
	})
}

// GetUserByIdentifier implements goGate.UserProvider.
func (d *Directory) GetUserByIdentifier(_ context.Context, identifier string) (goGate.UserRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byIdentifier[normalize(identifier)]
	if !ok {
		return goGate.UserRecord{}, goGate.ErrUserNotFound
	}
	return d.byID[id], nil
}

// GetUserByID implements goGate.UserProvider.
func (d *Directory) GetUserByID(_ context.Context, userID string) (goGate.UserRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.byID[userID]
	if !ok {
		return goGate.UserRecord{}, goGate.ErrUserNotFound
	}
	return rec, nil
}

// UpdatePasswordHash implements goGate.PasswordUpgrader.
func (d *Directory) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.byID[userID]
	if !ok {
		return goGate.ErrUserNotFound
	}
	rec.PasswordHash = hash
	d.byID[userID] = rec
	return nil
}

// Remove deletes a user. Live sessions of that user stop resolving.
func (d *Directory) Remove(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.byID[userID]
	if !ok {
		return
	}
	delete(d.byID, userID)
	delete(d.byIdentifier, normalize(rec.Identifier))
}

// Len returns the number of users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
