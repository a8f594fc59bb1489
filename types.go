package goGate

import "context"

// UserRecord is what a [UserProvider] returns for login and session resolution.
type UserRecord struct {
	UserID       string
	Identifier   string
	DisplayName  string
	PasswordHash string
	Role         string
}

// User is the resolved identity attached to an allowed navigation. It never
// carries the password hash.
type User struct {
	UserID      string
	Identifier  string
	DisplayName string
	Role        string
	SessionID   string
}

// UserProvider looks users up for the engine.
//
// GetUserByIdentifier must return [ErrUserNotFound] (or an error wrapping it)
// for unknown identifiers so that Login can answer with invalid credentials.
type UserProvider interface {
	GetUserByIdentifier(ctx context.Context, identifier string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
}

func userFromRecord(rec UserRecord, sessionID string) *User {
	return &User{
		UserID:      rec.UserID,
		Identifier:  rec.Identifier,
		DisplayName: rec.DisplayName,
		Role:        rec.Role,
		SessionID:   sessionID,
	}
}
