// Package auth implements the authentication and session lifecycle:
// Basic-credential decoding, password verification, signed-token
// issuance, refresh rotation with reuse detection and server-side
// revocation. Handlers translate the sentinel errors below into HTTP
// responses; none of them are retried by this package.
package auth

import "errors"

// ErrMalformedCredential is returned when a Basic authorization header
// is structurally invalid. It says nothing about whether the account
// exists.
var ErrMalformedCredential = errors.New("malformed credential")

// ErrNotFound is returned by Authenticate when no account matches the
// presented email.
var ErrNotFound = errors.New("account not found")

// ErrInvalidCredential is returned when the account exists but the
// secret does not match its stored hash.
var ErrInvalidCredential = errors.New("invalid credential")

// ErrConflict is returned by Register when the email is already taken.
var ErrConflict = errors.New("email already registered")

// ErrUnauthenticated is returned when a route requires a token and the
// request carries none.
var ErrUnauthenticated = errors.New("authentication required")

// ErrUnauthorized is returned for any token that is present but not
// acceptable: expired, bad signature, wrong kind, or a refresh token
// that fails the session match. The underlying cause is kept for logs
// only, so a caller cannot distinguish a forged token from an expired
// one.
var ErrUnauthorized = errors.New("invalid token")

// ErrForbidden is returned when a valid principal lacks the role a
// route requires.
var ErrForbidden = errors.New("insufficient role")

// ErrNoSession is returned by the session store when a subject has no
// live refresh token. The service surfaces it to clients as
// ErrUnauthorized.
var ErrNoSession = errors.New("no active session")
