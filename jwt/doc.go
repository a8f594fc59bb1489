// Package jwt signs and verifies the session token carried in the browser cookie.
//
// A session token names the server-side session (sid) and its user (uid). The token
// alone never authenticates a navigation: the session it names must still exist in
// the session store.
package jwt
