package auth

import (
	"context"

	"stockledger/internal/core/id"
)

// UserRepository persists API accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	RecordLogin(ctx context.Context, userID id.ID) error
}
