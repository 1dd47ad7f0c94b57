package users

import "time"

// User is one account record. Exactly one reserved "guest" record may exist.
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   []byte
	LastAccessedAt time.Time
	CreatedAt      time.Time
}
