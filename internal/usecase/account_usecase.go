package usecase

import (
	"context"

	"patrol/internal/domain/entity"

	"github.com/google/uuid"
)

// LoginInput represents the credentials presented at login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is an issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProvisionGuardInput represents the input for provisioning a guard account.
type ProvisionGuardInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AccountUsecase defines authentication and account administration use cases.
type AccountUsecase interface {
	// Login verifies credentials and issues a token pair.
	Login(ctx context.Context, input *LoginInput) (*entity.User, *TokenPair, error)

	// Refresh exchanges a valid refresh token for a new token pair. The old
	// session record is rotated out.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the session behind the given refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// ProvisionGuard creates a guard account with an email credential. The user
	// and credential rows are written in one transaction. Admin only.
	ProvisionGuard(ctx context.Context, input *ProvisionGuardInput) (*entity.User, error)

	// RemoveGuard deletes a guard account. Scans, credentials, sessions and the
	// location row cascade. Admin only.
	RemoveGuard(ctx context.Context, guardID uuid.UUID) error

	// GetUser retrieves an account by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
