package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"patrol/config"
	"patrol/internal/domain/entity"
	domainerrors "patrol/internal/domain/errors"
	"patrol/internal/domain/repository"
	"patrol/internal/domain/service"
	"patrol/internal/errors"
	"patrol/internal/usecase"

	"github.com/google/uuid"
)

const emailProvider = "email"

type accountService struct {
	userRepo    repository.UserRepository
	authRepo    repository.AuthRepository
	refreshRepo repository.RefreshTokenRepository
	txManager   repository.TransactionManager
	hasher      service.PasswordHasher
	tokens      service.TokenService
	config      *config.Config
	logger      *slog.Logger
}

// NewAccountService creates the authentication and account administration service.
func NewAccountService(
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	refreshRepo repository.RefreshTokenRepository,
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	tokens service.TokenService,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.AccountUsecase {
	return &accountService{
		userRepo:    userRepo,
		authRepo:    authRepo,
		refreshRepo: refreshRepo,
		txManager:   txManager,
		hasher:      hasher,
		tokens:      tokens,
		config:      cfg,
		logger:      logger,
	}
}

// Login verifies credentials and issues a token pair. Every failure path collapses
// to ErrInvalidCredentials so the response never reveals which part was wrong.
func (s *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*entity.User, *usecase.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}

		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	auth, err := s.authRepo.FindAuthenticationByUser(ctx, user.ID, emailProvider)
	if err != nil {
		if errors.Is(err, repository.ErrAuthenticationNotFound) {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}

		return nil, nil, fmt.Errorf("failed to find authentication: %w", err)
	}

	if !s.hasher.Check(input.Password, auth.PasswordHash) {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the session record.
func (s *accountService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	if _, err := s.tokens.ValidateToken(refreshToken, s.config.SecretKey.Refresh); err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	record, err := s.refreshRepo.FindRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Rotate: the presented token is spent whether or not issuing succeeds.
	if err := s.refreshRepo.DeleteRefreshToken(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the session behind the given refresh token. Revoking an unknown
// token is a no-op so repeated logouts stay idempotent.
func (s *accountService) Logout(ctx context.Context, refreshToken string) error {
	record, err := s.refreshRepo.FindRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil
		}

		return fmt.Errorf("failed to find refresh token: %w", err)
	}

	if err := s.refreshRepo.DeleteRefreshToken(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// ProvisionGuard creates a guard account with an email credential in one transaction.
func (s *accountService) ProvisionGuard(ctx context.Context, input *usecase.ProvisionGuardInput) (*entity.User, error) {
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := &entity.User{
		Email: input.Email,
		Name:  input.Name,
		Role:  entity.RoleGuard,
	}

	err = s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.NewUserRepository().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUserDuplicate) {
				return domainerrors.ErrUserAlreadyExists
			}

			return err
		}

		auth := &entity.Authentication{
			UserID:       user.ID,
			Provider:     emailProvider,
			PasswordHash: passwordHash,
		}

		return factory.NewAuthRepository().CreateAuthentication(ctx, auth)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("guard provisioned",
		slog.String("guard_id", user.ID.String()),
		slog.String("email", user.Email),
	)

	return user, nil
}

// RemoveGuard deletes a guard account. The database cascades scans, credentials,
// sessions and the location row. Admin accounts cannot be removed through this path.
func (s *accountService) RemoveGuard(ctx context.Context, guardID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, guardID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.Role != entity.RoleGuard {
		return domainerrors.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, guardID); err != nil {
		return fmt.Errorf("failed to delete guard: %w", err)
	}

	s.logger.Info("guard removed",
		slog.String("guard_id", guardID.String()),
	)

	return nil
}

// GetUser retrieves an account by ID.
func (s *accountService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// issueTokens generates a token pair and persists the refresh session.
func (s *accountService) issueTokens(ctx context.Context, user *entity.User) (*usecase.TokenPair, error) {
	accessToken, refreshToken, err := s.tokens.GenerateTokens(user.ID, user.Name, []string{user.Role.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	record := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.tokens.GetRefreshTokenDuration()),
	}
	if err := s.refreshRepo.CreateRefreshToken(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &usecase.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// hashToken derives the stored SHA-256 digest of a raw refresh token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}
