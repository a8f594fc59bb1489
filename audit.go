package goGate

import (
	"context"
	"time"

	"github.com/MrEthical07/goGate/internal/audit"
)

type (
	// AuditKind names what an audit event records.
	AuditKind = audit.Kind
	// AuditEvent is one audit record.
	AuditEvent = audit.Event
	// AuditNavigation is the guard decision carried by navigation events.
	AuditNavigation = audit.Navigation
	// AuditLogin is the attempt carried by login events.
	AuditLogin = audit.Login
	// AuditSink receives audit events from the dispatcher goroutine.
	AuditSink = audit.Sink
	// AuditSinkFunc adapts a function to [AuditSink].
	AuditSinkFunc = audit.SinkFunc
	// ChannelSink buffers events in a channel.
	ChannelSink = audit.ChannelSink
	// JSONSink writes newline-delimited JSON.
	JSONSink = audit.JSONSink
)

// Audit event kinds emitted by the engine.
const (
	AuditNavigationAllowed    = audit.KindNavigationAllowed
	AuditNavigationRedirected = audit.KindNavigationRedirected
	AuditLoginSuccess         = audit.KindLoginSuccess
	AuditLoginFailure         = audit.KindLoginFailure
	AuditLoginRateLimited     = audit.KindLoginRateLimited
	AuditLogout               = audit.KindLogout
	AuditLogoutAll            = audit.KindLogoutAll
)

var (
	// NewChannelSink returns a [ChannelSink] with the given buffer.
	NewChannelSink = audit.NewChannelSink
	// NewJSONSink returns a [JSONSink] writing to w.
	NewJSONSink = audit.NewJSONSink
	// DiscardAudit drops every event.
	DiscardAudit = audit.Discard
)

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *audit.Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	overflow := audit.Block
	if cfg.DropIfFull {
		overflow = audit.Drop
	}
	return audit.NewDispatcher(cfg.BufferSize, overflow, sink)
}

// record stamps ev with the time and the request values of ctx and queues it.
func (e *Engine) record(ctx context.Context, ev AuditEvent, err error) {
	if e == nil || e.audit == nil {
		return
	}
	ev.Time = time.Now().UTC()
	ev.ClientIP = clientIPFromContext(ctx)
	ev.UserAgent = userAgentFromContext(ctx)
	if err != nil {
		ev.Err = err.Error()
	}
	e.audit.Record(ctx, ev)
}

func (e *Engine) recordNavigation(ctx context.Context, nav Navigation) {
	ev := AuditEvent{
		Kind: AuditNavigationRedirected,
		Navigation: &AuditNavigation{
			Route:    nav.Route.Name,
			Path:     nav.Decision.Target,
			Location: nav.Decision.Location,
			Fetched:  nav.Decision.Fetched,
		},
	}
	if nav.Decision.Allowed() && nav.User != nil {
		ev.Kind = AuditNavigationAllowed
		ev.UserID = nav.User.UserID
		ev.SessionID = nav.User.SessionID
		e.record(ctx, ev, nil)
		return
	}
	e.record(ctx, ev, nav.FetchErr)
}

func (e *Engine) recordLogin(ctx context.Context, kind AuditKind, userID, identifier, reason string, err error) {
	e.record(ctx, AuditEvent{
		Kind:   kind,
		UserID: userID,
		Login:  &AuditLogin{Identifier: identifier, Reason: reason},
	}, err)
}
