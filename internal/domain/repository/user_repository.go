package repository

import (
	"context"
	"errors"

	"github.com/moneta-app/moneta-server/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations.
var (
	// ErrNotFound is returned when no row matches the lookup predicate.
	// Ownership-scoped lookups return it both for absent rows and rows
	// owned by another user; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned on a unique violation of users.email.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
