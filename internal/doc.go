// Package internal holds the goGate packages that are private to this module.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - rate: Redis-backed login throttle
//   - users: in-memory user directory for development and tests
//   - view: html/template pages for the route table
//   - server: chi router wiring the guard, login and logout
package internal
