package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"patrol/internal/domain/entity"
	"patrol/internal/domain/repository"
	"patrol/internal/domain/service"
	"patrol/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTelemetryService_ReportLocation(t *testing.T) {
	locationRepo := &mockGuardLocationRepo{}
	publisher := &mockEventPublisher{}
	svc := NewTelemetryService(locationRepo, publisher, newTestConfig(), testLogger())

	ctx := context.Background()
	guardID := uuid.New()

	locationRepo.On("UpsertGuardLocation", ctx, mock.MatchedBy(func(loc *entity.GuardLocation) bool {
		return loc.GuardID == guardID && loc.Status == entity.PatrolStatusOnPatrol
	})).Return(nil)
	publisher.On("PublishLocationEvent", ctx, mock.MatchedBy(func(event *service.LocationEvent) bool {
		return event.GuardID == guardID.String() && event.Status == "on_patrol"
	})).Return(nil)

	location, err := svc.ReportLocation(ctx, &usecase.ReportLocationInput{
		GuardID:   guardID,
		GuardName: "Asha Patel",
		Latitude:  19.0760,
		Longitude: 72.8777,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PatrolStatusOnPatrol, location.Status)
	publisher.AssertExpectations(t)
}

func TestTelemetryService_ReportLocation_PublishFailureIsSwallowed(t *testing.T) {
	locationRepo := &mockGuardLocationRepo{}
	publisher := &mockEventPublisher{}
	svc := NewTelemetryService(locationRepo, publisher, newTestConfig(), testLogger())

	ctx := context.Background()

	locationRepo.On("UpsertGuardLocation", ctx, mock.AnythingOfType("*entity.GuardLocation")).Return(nil)
	publisher.On("PublishLocationEvent", ctx, mock.AnythingOfType("*service.LocationEvent")).
		Return(errors.New("broker unavailable"))

	_, err := svc.ReportLocation(ctx, &usecase.ReportLocationInput{
		GuardID:   uuid.New(),
		GuardName: "Asha Patel",
		Latitude:  19.0760,
		Longitude: 72.8777,
	})
	// The row is the source of truth; a dead broker never fails the tick.
	require.NoError(t, err)
}

func TestTelemetryService_MarkOffline(t *testing.T) {
	locationRepo := &mockGuardLocationRepo{}
	svc := NewTelemetryService(locationRepo, nil, newTestConfig(), testLogger())

	ctx := context.Background()
	guardID := uuid.New()

	locationRepo.On("SetGuardStatus", ctx, guardID, entity.PatrolStatusOffline).Return(nil)

	require.NoError(t, svc.MarkOffline(ctx, guardID))
	locationRepo.AssertExpectations(t)
}

func TestTelemetryService_MarkOffline_NeverReportedIsNoop(t *testing.T) {
	locationRepo := &mockGuardLocationRepo{}
	svc := NewTelemetryService(locationRepo, nil, newTestConfig(), testLogger())

	ctx := context.Background()
	guardID := uuid.New()

	locationRepo.On("SetGuardStatus", ctx, guardID, entity.PatrolStatusOffline).
		Return(repository.ErrGuardLocationNotFound)

	require.NoError(t, svc.MarkOffline(ctx, guardID))
}

func TestTelemetryService_LivePositions_StaleRowsPresentedOffline(t *testing.T) {
	locationRepo := &mockGuardLocationRepo{}
	svc := NewTelemetryService(locationRepo, nil, newTestConfig(), testLogger())

	ctx := context.Background()
	fresh := &entity.GuardLocation{
		GuardID:   uuid.New(),
		Status:    entity.PatrolStatusOnPatrol,
		UpdatedAt: time.Now(),
	}
	stale := &entity.GuardLocation{
		GuardID:   uuid.New(),
		Status:    entity.PatrolStatusOnPatrol,
		UpdatedAt: time.Now().Add(-10 * time.Minute),
	}

	locationRepo.On("ListGuardLocations", ctx, (*orb.Bound)(nil)).
		Return([]*entity.GuardLocation{fresh, stale}, nil)

	locations, err := svc.LivePositions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, entity.PatrolStatusOnPatrol, locations[0].Status)
	assert.Equal(t, entity.PatrolStatusOffline, locations[1].Status)
}

func TestTelemetryService_LivePositions_ViewportPassedThrough(t *testing.T) {
	locationRepo := &mockGuardLocationRepo{}
	svc := NewTelemetryService(locationRepo, nil, newTestConfig(), testLogger())

	ctx := context.Background()
	bound := &orb.Bound{
		Min: orb.Point{72.8, 19.0},
		Max: orb.Point{72.9, 19.1},
	}

	locationRepo.On("ListGuardLocations", ctx, bound).Return([]*entity.GuardLocation{}, nil)

	_, err := svc.LivePositions(ctx, bound)
	require.NoError(t, err)
	locationRepo.AssertExpectations(t)
}

func TestTelemetryService_SweepStale(t *testing.T) {
	locationRepo := &mockGuardLocationRepo{}
	svc := NewTelemetryService(locationRepo, nil, newTestConfig(), testLogger())

	ctx := context.Background()

	locationRepo.On("MarkStaleOffline", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		// Cutoff sits one staleness window in the past.
		elapsed := time.Since(cutoff)

		return elapsed > 89*time.Second && elapsed < 91*time.Second
	})).Return(int64(3), nil)

	flipped, err := svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), flipped)
}
