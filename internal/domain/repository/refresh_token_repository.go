package repository

import (
	"context"

	"patrol/internal/domain/entity"
	"patrol/internal/errors"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a refresh token is not found.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the interface for session persistence.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new session record.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a session record by its token hash.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshToken removes a session record by its ID.
	DeleteRefreshToken(ctx context.Context, id uuid.UUID) error

	// DeleteRefreshTokensByUser removes all session records for a user (logout everywhere).
	DeleteRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error
}
