package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"patrol/config"
	"patrol/internal/domain/entity"
	"patrol/internal/domain/repository"
	"patrol/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Patrol = &config.PatrolConfig{
		DuplicateWindow:     5 * time.Minute,
		DefaultRadiusMeters: 100,
		LocationWait:        50 * time.Millisecond,
		StaleAfter:          90 * time.Second,
		ReportInterval:      30 * time.Second,
	}

	return cfg
}

// --- repository mocks ---

type mockCheckpointRepo struct{ mock.Mock }

func (m *mockCheckpointRepo) CreateCheckpoint(ctx context.Context, checkpoint *entity.Checkpoint) error {
	return m.Called(ctx, checkpoint).Error(0)
}

func (m *mockCheckpointRepo) FindCheckpointByID(ctx context.Context, id uuid.UUID) (*entity.Checkpoint, error) {
	args := m.Called(ctx, id)
	if checkpoint, ok := args.Get(0).(*entity.Checkpoint); ok {
		return checkpoint, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCheckpointRepo) ListCheckpoints(ctx context.Context) ([]*entity.Checkpoint, error) {
	args := m.Called(ctx)
	if checkpoints, ok := args.Get(0).([]*entity.Checkpoint); ok {
		return checkpoints, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCheckpointRepo) DeleteCheckpoint(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCheckpointRepo) CountCheckpoints(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

type mockScanRepo struct{ mock.Mock }

func (m *mockScanRepo) InsertScan(ctx context.Context, scan *entity.Scan) error {
	args := m.Called(ctx, scan)
	if args.Error(0) == nil && scan.ID == uuid.Nil {
		scan.ID = uuid.New()
		scan.ScannedAt = time.Now()
	}

	return args.Error(0)
}

func (m *mockScanRepo) FindScansSince(ctx context.Context, guardID, checkpointID uuid.UUID, since time.Time) ([]*entity.Scan, error) {
	args := m.Called(ctx, guardID, checkpointID, since)
	if scans, ok := args.Get(0).([]*entity.Scan); ok {
		return scans, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockScanRepo) ListScansByGuard(ctx context.Context, guardID uuid.UUID, limit int) ([]*entity.Scan, error) {
	args := m.Called(ctx, guardID, limit)
	if scans, ok := args.Get(0).([]*entity.Scan); ok {
		return scans, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockScanRepo) ListScans(ctx context.Context, limit int) ([]*entity.Scan, error) {
	args := m.Called(ctx, limit)
	if scans, ok := args.Get(0).([]*entity.Scan); ok {
		return scans, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockScanRepo) CountScansSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)

	return args.Get(0).(int64), args.Error(1)
}

func (m *mockScanRepo) CountDistinctCheckpointsSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)

	return args.Get(0).(int64), args.Error(1)
}

type mockGuardLocationRepo struct{ mock.Mock }

func (m *mockGuardLocationRepo) UpsertGuardLocation(ctx context.Context, location *entity.GuardLocation) error {
	args := m.Called(ctx, location)
	if args.Error(0) == nil && location.ID == uuid.Nil {
		location.ID = uuid.New()
		location.UpdatedAt = time.Now()
	}

	return args.Error(0)
}

func (m *mockGuardLocationRepo) SetGuardStatus(ctx context.Context, guardID uuid.UUID, status entity.PatrolStatus) error {
	return m.Called(ctx, guardID, status).Error(0)
}

func (m *mockGuardLocationRepo) ListGuardLocations(ctx context.Context, bound *orb.Bound) ([]*entity.GuardLocation, error) {
	args := m.Called(ctx, bound)
	if locations, ok := args.Get(0).([]*entity.GuardLocation); ok {
		return locations, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockGuardLocationRepo) MarkStaleOffline(ctx context.Context, staleBefore time.Time) (int64, error) {
	args := m.Called(ctx, staleBefore)

	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	args := m.Called(ctx, role)

	return args.Get(0).(int64), args.Error(1)
}

type mockAuthRepo struct{ mock.Mock }

func (m *mockAuthRepo) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *mockAuthRepo) FindAuthenticationByUser(ctx context.Context, userID uuid.UUID, provider string) (*entity.Authentication, error) {
	args := m.Called(ctx, userID, provider)
	if auth, ok := args.Get(0).(*entity.Authentication); ok {
		return auth, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockRefreshTokenRepo struct{ mock.Mock }

func (m *mockRefreshTokenRepo) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockRefreshTokenRepo) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if token, ok := args.Get(0).(*entity.RefreshToken); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockRefreshTokenRepo) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRefreshTokenRepo) DeleteRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// fakeTxManager runs the callback against a fixed factory without a real database.
type fakeTxManager struct {
	factory repository.RepositoryFactory
	err     error
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if f.err != nil {
		return f.err
	}

	return fn(f.factory)
}

type fakeRepoFactory struct {
	users   repository.UserRepository
	auths   repository.AuthRepository
	refresh repository.RefreshTokenRepository
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository { return f.users }

func (f *fakeRepoFactory) NewAuthRepository() repository.AuthRepository { return f.auths }

func (f *fakeRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.refresh
}

// --- domain service mocks ---

type mockLocationSource struct{ mock.Mock }

func (m *mockLocationSource) Current(ctx context.Context) (*service.Coordinates, error) {
	args := m.Called(ctx)
	if coords, ok := args.Get(0).(*service.Coordinates); ok {
		return coords, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) SendTopicNotification(ctx context.Context, topic, title, body string, data map[string]string) error {
	return m.Called(ctx, topic, title, body, data).Error(0)
}

func (m *mockNotificationService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(ctx, token, title, body, data).Error(0)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishLocationEvent(ctx context.Context, event *service.LocationEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type mockPasswordHasher struct{ mock.Mock }

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GenerateTokens(userID uuid.UUID, name string, roles []string) (string, string, error) {
	args := m.Called(userID, name, roles)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateToken(tokenString, secret string) (*jwt.Token, error) {
	args := m.Called(tokenString, secret)
	if token, ok := args.Get(0).(*jwt.Token); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) GetRefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}
