package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"patrol/config"
	deliverycontext "patrol/internal/delivery/context"
	"patrol/internal/domain/entity"
	"patrol/internal/domain/repository"
	"patrol/internal/domain/service"
	"patrol/internal/errors"
	"patrol/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

const defaultStaleAfter = 90 * time.Second

type telemetryService struct {
	locationRepo repository.GuardLocationRepository
	publisher    service.EventPublisher
	config       *config.Config
	logger       *slog.Logger
}

// NewTelemetryService creates the guard position telemetry service.
func NewTelemetryService(
	locationRepo repository.GuardLocationRepository,
	publisher service.EventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.TelemetryUsecase {
	return &telemetryService{
		locationRepo: locationRepo,
		publisher:    publisher,
		config:       cfg,
		logger:       logger,
	}
}

// ReportLocation refreshes the guard's position row and publishes a location event.
// A failed publish is logged but never fails the tick; the row is the source of truth.
func (s *telemetryService) ReportLocation(ctx context.Context, input *usecase.ReportLocationInput) (*entity.GuardLocation, error) {
	location := &entity.GuardLocation{
		GuardID:   input.GuardID,
		GuardName: input.GuardName,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Status:    entity.PatrolStatusOnPatrol,
	}

	if err := s.locationRepo.UpsertGuardLocation(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to upsert guard location: %w", err)
	}

	if s.publisher != nil {
		event := &service.LocationEvent{
			RequestID: deliverycontext.GetRequestIDFromContext(ctx),
			GuardID:   location.GuardID.String(),
			GuardName: location.GuardName,
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
			Status:    location.Status.String(),
			UpdatedAt: location.UpdatedAt,
		}
		if err := s.publisher.PublishLocationEvent(ctx, event); err != nil {
			s.logger.Warn("failed to publish location event",
				slog.String("guard_id", event.GuardID),
				slog.String("error", err.Error()),
			)
		}
	}

	return location, nil
}

// MarkOffline flips the guard's row to offline on session teardown. A guard who
// never reported has no row; that teardown is a no-op.
func (s *telemetryService) MarkOffline(ctx context.Context, guardID uuid.UUID) error {
	err := s.locationRepo.SetGuardStatus(ctx, guardID, entity.PatrolStatusOffline)
	if err != nil {
		if errors.Is(err, repository.ErrGuardLocationNotFound) {
			return nil
		}

		return fmt.Errorf("failed to mark guard offline: %w", err)
	}

	return nil
}

// LivePositions returns last-known positions for the admin map. Rows past the
// staleness window are presented as offline even before the sweeper persists it.
func (s *telemetryService) LivePositions(ctx context.Context, bound *orb.Bound) ([]*entity.GuardLocation, error) {
	locations, err := s.locationRepo.ListGuardLocations(ctx, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to list guard locations: %w", err)
	}

	cutoff := time.Now().Add(-s.staleAfter())
	for _, location := range locations {
		if location.Status != entity.PatrolStatusOffline && location.UpdatedAt.Before(cutoff) {
			location.Status = entity.PatrolStatusOffline
		}
	}

	return locations, nil
}

// SweepStale persists the offline flip for rows not refreshed within the window.
func (s *telemetryService) SweepStale(ctx context.Context) (int64, error) {
	flipped, err := s.locationRepo.MarkStaleOffline(ctx, time.Now().Add(-s.staleAfter()))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale guard locations: %w", err)
	}

	if flipped > 0 {
		s.logger.Info("stale guard locations marked offline",
			slog.Int64("count", flipped),
		)
	}

	return flipped, nil
}

func (s *telemetryService) staleAfter() time.Duration {
	if s.config.Patrol != nil && s.config.Patrol.StaleAfter > 0 {
		return s.config.Patrol.StaleAfter
	}

	return defaultStaleAfter
}
