// Package rate provides the Redis-backed fixed-window counters that throttle
// failed login attempts.
//
// # Window semantics
//
// INCR + EXPIRE on the first hit of a window. Keys:
//   - <prefix>:li:<identifier>: failed logins per identifier
//   - <prefix>:lp:<ip>: failed logins per client IP
package rate
