package user

import (
	"context"

	"family-dues-go/internal/domain/access"
)

type Repository interface {
	// List returns users matching scope, a role filter over users columns.
	List(ctx context.Context, scope access.Filter) ([]User, error)
	GetByID(ctx context.Context, id string, scope access.Filter) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}
