package usecase

import (
	"context"

	"patrol/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ReportLocationInput is one telemetry tick from a guard's device.
type ReportLocationInput struct {
	GuardID   uuid.UUID
	GuardName string
	Latitude  float64
	Longitude float64
}

// TelemetryUsecase maintains the live last-known-position view of guards on duty.
type TelemetryUsecase interface {
	// ReportLocation refreshes the guard's position row with status on_patrol
	// and publishes a location event for downstream consumers.
	ReportLocation(ctx context.Context, input *ReportLocationInput) (*entity.GuardLocation, error)

	// MarkOffline flips the guard's row to offline on session teardown.
	MarkOffline(ctx context.Context, guardID uuid.UUID) error

	// LivePositions returns last-known positions for the admin map, optionally
	// restricted to a viewport bounding box. Rows older than the staleness
	// window are reported as offline even before the sweeper persists the flip.
	LivePositions(ctx context.Context, bound *orb.Bound) ([]*entity.GuardLocation, error)

	// SweepStale persists the offline flip for rows not refreshed within the
	// staleness window. Returns the number of rows changed.
	SweepStale(ctx context.Context) (int64, error)
}
