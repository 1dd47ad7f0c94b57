package users

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	TouchLastAccess(ctx context.Context, userID int64) error
}
