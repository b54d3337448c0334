package repository

import (
	"context"
	"time"

	"patrol/internal/domain/entity"
	"patrol/internal/errors"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ErrGuardLocationNotFound is returned when a guard has never reported a position.
var ErrGuardLocationNotFound = errors.New("guard location not found")

// GuardLocationRepository maintains the single mutable last-known-position slot per
// guard. Writes are last-write-wins upserts keyed by guard ID; there is no history.
type GuardLocationRepository interface {
	// UpsertGuardLocation inserts or refreshes the guard's position row.
	// The row is keyed uniquely by guard ID; concurrent writers simply overwrite.
	UpsertGuardLocation(ctx context.Context, location *entity.GuardLocation) error

	// SetGuardStatus updates only the status of the guard's row (e.g. offline on
	// session teardown). Returns ErrGuardLocationNotFound if the guard never reported.
	SetGuardStatus(ctx context.Context, guardID uuid.UUID, status entity.PatrolStatus) error

	// ListGuardLocations retrieves all last-known positions. When bound is non-nil
	// only positions inside the bounding box are returned (admin map viewport).
	ListGuardLocations(ctx context.Context, bound *orb.Bound) ([]*entity.GuardLocation, error)

	// MarkStaleOffline flips rows not refreshed since the given instant to offline.
	// Returns the number of rows changed.
	MarkStaleOffline(ctx context.Context, staleBefore time.Time) (int64, error)
}
