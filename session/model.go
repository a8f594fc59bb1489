package session

import "time"

// Session is the server-side record behind a session cookie.
type Session struct {
	SessionID string
	UserID    string
	Role      string

	CreatedAt int64
	ExpiresAt int64
}

// Expired reports whether the session's stored expiry is at or before now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || s.ExpiresAt <= now.Unix()
}
