package model

import "time"

// Role is the closed set of authorization categories a user can hold.
// Values read from storage are parsed with ParseRole so that anything
// outside the set collapses to RoleNone and never satisfies a role check.
type Role string

const (
	RoleNone    Role = ""
	RoleAdmin   Role = "admin"
	RoleVisitor Role = "visitor"
)

// ParseRole maps a stored role string onto the closed Role set.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleVisitor:
		return RoleVisitor
	}
	return RoleNone
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleVisitor }

// User represents an application user record as stored in the
// `users` table. PasswordHash never leaves the server: it is tagged
// out of JSON encoding.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	Pseudo       – public display name.
//	PasswordHash – argon2id (or legacy bcrypt) hash.
//	Role         – admin or visitor.
//	AvatarURL    – optional avatar image URL.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"userID"`    // users.id
	Email        string    `json:"email"`     // users.email
	Pseudo       string    `json:"pseudo"`    // users.pseudo
	PasswordHash string    `json:"-"`         // users.password_hash
	Role         Role      `json:"role"`      // users.role
	AvatarURL    *string   `json:"avatarUrl"` // users.avatar_url (nullable)
	CreatedAt    time.Time `json:"createdAt"` // users.created_at
}
