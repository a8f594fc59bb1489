// Package session provides Redis-backed persistence for browser sessions and their
// compact binary encoding.
//
// # Binary encoding
//
// A stored session is a version byte followed by length-prefixed user and role
// strings and two big-endian unix timestamps. [Decode] rejects unknown versions and
// truncated blobs with [ErrCorruptSession].
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Session] model. It does
// NOT parse tokens, look up users, or decide whether a navigation is allowed; those
// belong to the root package and the guard.
package session
