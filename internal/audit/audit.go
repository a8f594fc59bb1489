package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Kind names what an [Event] records.
type Kind string

const (
	KindNavigationAllowed    Kind = "navigation_allowed"
	KindNavigationRedirected Kind = "navigation_redirected"
	KindLoginSuccess         Kind = "login_success"
	KindLoginFailure         Kind = "login_failure"
	KindLoginRateLimited     Kind = "login_rate_limited"
	KindLogout               Kind = "logout"
	KindLogoutAll            Kind = "logout_all"
)

// Denied reports whether k records a refused navigation or login.
func (k Kind) Denied() bool {
	switch k {
	case KindNavigationRedirected, KindLoginFailure, KindLoginRateLimited:
		return true
	}
	return false
}

// Navigation is the guard decision behind a navigation event.
type Navigation struct {
	Route    string `json:"route"`
	Path     string `json:"path"`
	Location string `json:"location"`
	Fetched  bool   `json:"fetched"`
}

// Login is the attempt behind a login event. Reason is set on failures only.
type Login struct {
	Identifier string `json:"identifier"`
	Reason     string `json:"reason,omitempty"`
}

// Event is one audit record. At most one of Navigation and Login is set,
// matching Kind.
type Event struct {
	Time       time.Time   `json:"time"`
	Kind       Kind        `json:"kind"`
	UserID     string      `json:"user_id,omitempty"`
	SessionID  string      `json:"session_id,omitempty"`
	ClientIP   string      `json:"client_ip,omitempty"`
	UserAgent  string      `json:"user_agent,omitempty"`
	Navigation *Navigation `json:"navigation,omitempty"`
	Login      *Login      `json:"login,omitempty"`
	Sessions   int         `json:"sessions,omitempty"`
	Err        string      `json:"error,omitempty"`
}

// Sink receives events on the dispatcher goroutine.
type Sink interface {
	Record(ctx context.Context, event Event)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, event Event)

// Record calls f.
func (f SinkFunc) Record(ctx context.Context, event Event) { f(ctx, event) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) {})

// ChannelSink hands events to a buffered channel.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink returns a [ChannelSink] buffering up to n events (minimum 1).
func NewChannelSink(n int) *ChannelSink {
	return &ChannelSink{events: make(chan Event, max(n, 1))}
}

// Record blocks until the event is buffered or ctx is done.
func (s *ChannelSink) Record(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events is the receive side of the channel.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONSink writes one JSON object per line to an io.Writer.
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONSink returns a sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

// Record encodes event. Encoding or write failures lose the event.
func (s *JSONSink) Record(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(event)
}
