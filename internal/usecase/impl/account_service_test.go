package impl

import (
	"context"
	"testing"
	"time"

	"patrol/internal/domain/entity"
	domainerrors "patrol/internal/domain/errors"
	"patrol/internal/domain/repository"
	"patrol/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountServiceMocks struct {
	users   *mockUserRepo
	auths   *mockAuthRepo
	refresh *mockRefreshTokenRepo
	hasher  *mockPasswordHasher
	tokens  *mockTokenService
}

func newAccountServiceForTest(t *testing.T) (usecase.AccountUsecase, *accountServiceMocks) {
	t.Helper()

	mocks := &accountServiceMocks{
		users:   &mockUserRepo{},
		auths:   &mockAuthRepo{},
		refresh: &mockRefreshTokenRepo{},
		hasher:  &mockPasswordHasher{},
		tokens:  &mockTokenService{},
	}
	txManager := &fakeTxManager{factory: &fakeRepoFactory{
		users:   mocks.users,
		auths:   mocks.auths,
		refresh: mocks.refresh,
	}}

	cfg := newTestConfig()
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	svc := NewAccountService(
		mocks.users,
		mocks.auths,
		mocks.refresh,
		txManager,
		mocks.hasher,
		mocks.tokens,
		cfg,
		testLogger(),
	)

	return svc, mocks
}

func TestAccountService_Login_Success(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "guard@example.com", Name: "Asha Patel", Role: entity.RoleGuard}
	auth := &entity.Authentication{UserID: user.ID, Provider: "email", PasswordHash: "hashed"}

	mocks.users.On("FindByEmail", ctx, "guard@example.com").Return(user, nil)
	mocks.auths.On("FindAuthenticationByUser", ctx, user.ID, "email").Return(auth, nil)
	mocks.hasher.On("Check", "secret-password", "hashed").Return(true)
	mocks.tokens.On("GenerateTokens", user.ID, "Asha Patel", []string{"guard"}).
		Return("access-token", "refresh-token", nil)
	mocks.tokens.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	mocks.refresh.On("CreateRefreshToken", ctx, mock.MatchedBy(func(record *entity.RefreshToken) bool {
		// The raw token is never stored, only its digest.
		return record.UserID == user.ID && record.TokenHash != "refresh-token" && len(record.TokenHash) == 64
	})).Return(nil)

	loggedIn, pair, err := svc.Login(ctx, &usecase.LoginInput{Email: "guard@example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, user, loggedIn)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "refresh-token", pair.RefreshToken)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "guard@example.com", Role: entity.RoleGuard}
	auth := &entity.Authentication{UserID: user.ID, Provider: "email", PasswordHash: "hashed"}

	mocks.users.On("FindByEmail", ctx, "guard@example.com").Return(user, nil)
	mocks.auths.On("FindAuthenticationByUser", ctx, user.ID, "email").Return(auth, nil)
	mocks.hasher.On("Check", "wrong", "hashed").Return(false)

	_, _, err := svc.Login(ctx, &usecase.LoginInput{Email: "guard@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	mocks.users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	_, _, err := svc.Login(ctx, &usecase.LoginInput{Email: "nobody@example.com", Password: "whatever"})
	// Same error as a wrong password: the response never reveals which part failed.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Refresh_RotatesSession(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Name: "Asha Patel", Role: entity.RoleGuard}
	record := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken("old-refresh-token"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	mocks.tokens.On("ValidateToken", "old-refresh-token", "refresh-secret").Return(nil, nil)
	mocks.refresh.On("FindRefreshTokenByHash", ctx, hashToken("old-refresh-token")).Return(record, nil)
	mocks.users.On("FindByID", ctx, user.ID).Return(user, nil)
	mocks.refresh.On("DeleteRefreshToken", ctx, record.ID).Return(nil)
	mocks.tokens.On("GenerateTokens", user.ID, "Asha Patel", []string{"guard"}).
		Return("new-access", "new-refresh", nil)
	mocks.tokens.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	mocks.refresh.On("CreateRefreshToken", ctx, mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	pair, err := svc.Refresh(ctx, "old-refresh-token")
	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	assert.Equal(t, "new-refresh", pair.RefreshToken)
	mocks.refresh.AssertCalled(t, "DeleteRefreshToken", ctx, record.ID)
}

func TestAccountService_Refresh_ExpiredSession(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	record := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: hashToken("stale-token"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	mocks.tokens.On("ValidateToken", "stale-token", "refresh-secret").Return(nil, nil)
	mocks.refresh.On("FindRefreshTokenByHash", ctx, hashToken("stale-token")).Return(record, nil)

	_, err := svc.Refresh(ctx, "stale-token")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAccountService_Refresh_UnknownToken(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	mocks.tokens.On("ValidateToken", "revoked-token", "refresh-secret").Return(nil, nil)
	mocks.refresh.On("FindRefreshTokenByHash", ctx, hashToken("revoked-token")).
		Return(nil, repository.ErrRefreshTokenNotFound)

	_, err := svc.Refresh(ctx, "revoked-token")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAccountService_Logout_Idempotent(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	mocks.refresh.On("FindRefreshTokenByHash", ctx, hashToken("gone-token")).
		Return(nil, repository.ErrRefreshTokenNotFound)

	require.NoError(t, svc.Logout(ctx, "gone-token"))
}

func TestAccountService_ProvisionGuard(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()

	mocks.hasher.On("Hash", "initial-password").Return("hashed-password", nil)
	mocks.users.On("Create", ctx, mock.MatchedBy(func(user *entity.User) bool {
		return user.Role == entity.RoleGuard && user.Email == "new@example.com"
	})).Return(nil)
	mocks.auths.On("CreateAuthentication", ctx, mock.MatchedBy(func(auth *entity.Authentication) bool {
		return auth.Provider == "email" && auth.PasswordHash == "hashed-password"
	})).Return(nil)

	guard, err := svc.ProvisionGuard(ctx, &usecase.ProvisionGuardInput{
		Email:    "new@example.com",
		Password: "initial-password",
		Name:     "Ravi Kumar",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGuard, guard.Role)
	assert.NotEqual(t, uuid.Nil, guard.ID)
	mocks.auths.AssertExpectations(t)
}

func TestAccountService_ProvisionGuard_DuplicateEmail(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()

	mocks.hasher.On("Hash", "initial-password").Return("hashed-password", nil)
	mocks.users.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(repository.ErrUserDuplicate)

	_, err := svc.ProvisionGuard(ctx, &usecase.ProvisionGuardInput{
		Email:    "taken@example.com",
		Password: "initial-password",
		Name:     "Ravi Kumar",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	mocks.auths.AssertNotCalled(t, "CreateAuthentication", mock.Anything, mock.Anything)
}

func TestAccountService_RemoveGuard(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	guard := &entity.User{ID: uuid.New(), Role: entity.RoleGuard}

	mocks.users.On("FindByID", ctx, guard.ID).Return(guard, nil)
	mocks.users.On("Delete", ctx, guard.ID).Return(nil)

	require.NoError(t, svc.RemoveGuard(ctx, guard.ID))
	mocks.users.AssertExpectations(t)
}

func TestAccountService_RemoveGuard_RefusesAdmins(t *testing.T) {
	svc, mocks := newAccountServiceForTest(t)

	ctx := context.Background()
	admin := &entity.User{ID: uuid.New(), Role: entity.RoleAdmin}

	mocks.users.On("FindByID", ctx, admin.ID).Return(admin, nil)

	err := svc.RemoveGuard(ctx, admin.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	mocks.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
