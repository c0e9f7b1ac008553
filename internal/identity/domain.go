package identity

import "time"

// User represents an account in the identity store. Role is kept as
// the raw stored string here; it is parsed into the closed role enum
// when a principal is resolved.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionRecord is the durable session row backing an opaque token.
type SessionRecord struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}
