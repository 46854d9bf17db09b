package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries a revocation flag.
// The signed token string is not stored; only its SHA-256 hash.
// Expiry is derived from the token's own exp claim at verification
// time, so the stored ExpiresAt is bookkeeping, not the source of
// truth.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the signed token string.
//  Revoked   – true once the token has been rotated or revoked.
//  CreatedAt – timestamp of creation.
//  ExpiresAt – expiration timestamp recorded at issuance.
type RefreshToken struct {
	ID        uint64    // refresh_tokens.id
	UserID    uint64    // refresh_tokens.user_id
	TokenHash string    // refresh_tokens.token_hash
	Revoked   bool      // refresh_tokens.revoked
	CreatedAt time.Time // refresh_tokens.created_at
	ExpiresAt time.Time // refresh_tokens.expires_at
}

// APIKey represents a row in the `api_keys` table. Keys are UUID
// strings; deactivation flips IsActive rather than deleting the
// row. The number of active keys per user is bounded by the user's
// service plan.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the key.
//  Key       – UUID key string handed to the client.
//  IsActive  – false once the key has been revoked.
//  CreatedAt – timestamp of creation.
//  ExpiresAt – optional expiry (null means no expiry).
type APIKey struct {
	ID        uint64     // api_keys.id
	UserID    uint64     // api_keys.user_id
	Key       string     // api_keys.api_key
	IsActive  bool       // api_keys.is_active
	CreatedAt time.Time  // api_keys.created_at
	ExpiresAt *time.Time // api_keys.expires_at (nullable)
}

// UserSession models a row in the `user_sessions` table. Sessions
// are revoked logically by forcing expires_at to the current time;
// rows are never deleted.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owner of the session.
//  SessionToken   – opaque session token string.
//  CreatedAt      – when the session started.
//  LastActivityAt – last request seen on this session.
//  ExpiresAt      – when the session expires (forced to now on revoke).
type UserSession struct {
	ID             uint64    // user_sessions.id
	UserID         uint64    // user_sessions.user_id
	SessionToken   string    // user_sessions.session_token
	CreatedAt      time.Time // user_sessions.created_at
	LastActivityAt time.Time // user_sessions.last_activity_at
	ExpiresAt      time.Time // user_sessions.expires_at
}
