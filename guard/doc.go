// Package guard implements the navigation guard that runs before a guarded route
// is entered.
//
// # Decision procedure
//
// For each navigation the guard reads [Session.IsAuthenticated]. When it is false
// the guard calls [Session.FetchUser] exactly once and waits for it to settle, then
// reads the flag again. An authenticated session allows the transition to the
// requested location; anything else redirects to the login path and discards the
// original target. A failed fetch and an unauthenticated result are handled the
// same way.
//
// # Architecture boundaries
//
// The session handle is passed to every evaluation; the guard holds no session
// state of its own and never writes to it. It does not log, retry, or impose a
// timeout: cancellation comes from the caller's context through FetchUser.
package guard
