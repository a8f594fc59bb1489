// Package goGate resolves navigations against a static route table and gates
// protected routes behind a Redis-backed user session.
//
// An [Engine] is assembled once through [Builder.Build] and is safe for
// concurrent use afterwards. Every navigation gets a fresh [UserState]; the
// guard reads and resolves it but never mutates session state itself.
//
// # Architecture boundaries
//
// goGate is the public surface. Route matching lives in route, the decision
// procedure in guard, persistence in session, token signing in jwt. Throttling
// and audit dispatch live under internal/.
//
// Library packages do not log. Outcomes are reported through metrics and audit
// events; the HTTP layer decides what to write to its logger.
package goGate
