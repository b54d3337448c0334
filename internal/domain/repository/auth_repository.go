package repository

import (
	"context"

	"patrol/internal/domain/entity"
	"patrol/internal/errors"

	"github.com/google/uuid"
)

// ErrAuthenticationNotFound is returned when a user has no credential of the requested provider.
var ErrAuthenticationNotFound = errors.New("authentication not found")

// AuthRepository defines the interface for credential persistence.
type AuthRepository interface {
	// CreateAuthentication persists a new login credential for a user.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthenticationByUser retrieves a user's credential for the given provider.
	FindAuthenticationByUser(ctx context.Context, userID uuid.UUID, provider string) (*entity.Authentication, error)
}
