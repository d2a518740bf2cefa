package model

import "time"

// SessionTTL is the fixed lifetime of a login session.
const SessionTTL = 24 * time.Hour

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_token"

// Session models a row in the `sessions` table. The token is the only
// credential a client presents; it is opaque and unique.
//
// Fields:
//
//	Token     – random opaque token (UUIDv4 string).
//	UserID    – owner of the session.
//	ExpiresAt – instant after which the session no longer authenticates.
//	CreatedAt – timestamp of creation.
type Session struct {
	Token     string    `json:"-"`              // raw token; sessions stores its SHA-256
	UserID    uint64    `json:"userID"`         // sessions.user_id
	ExpiresAt time.Time `json:"expirationTime"` // sessions.expiration_time
	CreatedAt time.Time `json:"createdAt"`      // sessions.created_at
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
