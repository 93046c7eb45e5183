package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// ListActive returns active users ordered by name; a nil role means all roles.
	ListActive(ctx context.Context, role *Role) ([]User, error)
}
