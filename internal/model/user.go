package model

import "time"

// Role ranks user privileges. The ordering is explicit and fixed:
// a numerically lower rank is more privileged. Guards must compare
// ranks through Role.AtLeast instead of relying on declaration order.
type Role uint8

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
)

// AtLeast reports whether r is at least as privileged as required.
func (r Role) AtLeast(required Role) bool { return r <= required }

// String returns the stable wire name of the role as stored in the
// users table and embedded in token claims.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	}
	return "UNKNOWN"
}

// ParseRole maps a wire name back to a Role. Unknown names fall back
// to the least privileged role so a corrupted claim can never widen
// access.
func ParseRole(s string) Role {
	if s == "ADMIN" {
		return RoleAdmin
	}
	return RoleUser
}

// User mirrors the `users` table. PasswordHash holds the bcrypt hash;
// the plaintext secret is never stored or logged.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
