// Package auth issues and verifies the bearer tokens used by the
// API. Access tokens are stateless HS256 JWTs checked by signature
// and expiry alone; refresh tokens are also signed JWTs but are
// additionally tracked in the refresh_tokens table so they can be
// revoked and rotated.
package auth

import "fmt"

// Reason classifies why a token was rejected.
type Reason string

const (
	// ReasonExpired means the token's exp claim has passed.
	ReasonExpired Reason = "expired"
	// ReasonInvalid means the signature did not verify, the claims
	// were malformed, or the token does not match any stored row.
	ReasonInvalid Reason = "invalid"
	// ReasonRevoked means a matching refresh row exists but has
	// already been consumed or revoked.
	ReasonRevoked Reason = "revoked"
)

// Error is the typed authentication failure surfaced by every
// token operation. All auth failures are terminal for the request;
// nothing retries them.
type Error struct {
	Reason Reason
}

func (e *Error) Error() string { return fmt.Sprintf("auth: token %s", e.Reason) }

// ErrExpired, ErrInvalid and ErrRevoked are the three failure
// values handlers map to HTTP 401.
var (
	ErrExpired = &Error{Reason: ReasonExpired}
	ErrInvalid = &Error{Reason: ReasonInvalid}
	ErrRevoked = &Error{Reason: ReasonRevoked}
)
