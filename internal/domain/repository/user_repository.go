package repository

import (
	"context"

	"patrol/internal/domain/entity"
	"patrol/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserDuplicate is returned when creating a user with an email that already exists.
	ErrUserDuplicate = errors.New("user already exists")
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	// Create persists a new user account.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Delete removes a user account. Scans, credentials, refresh tokens and the
	// guard location row cascade at the database level.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByRole returns the number of accounts holding the given role.
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
