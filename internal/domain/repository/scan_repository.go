package repository

import (
	"context"
	"time"

	"patrol/internal/domain/entity"

	"github.com/google/uuid"
)

// ScanRepository is the append-only scan ledger. Scans are inserted by the scan
// decision engine and queried for duplicate detection, history views, exports and
// dashboard aggregation; they are never updated.
type ScanRepository interface {
	// InsertScan appends a scan record. The ScannedAt timestamp is assigned by the
	// store; the entity is updated in place with the generated ID and timestamp.
	InsertScan(ctx context.Context, scan *entity.Scan) error

	// FindScansSince retrieves scans by a guard for a checkpoint with
	// scanned_at strictly after the given instant. Used for the duplicate window:
	// a prior scan exactly at the window boundary does not count as a duplicate.
	FindScansSince(ctx context.Context, guardID, checkpointID uuid.UUID, since time.Time) ([]*entity.Scan, error)

	// ListScansByGuard retrieves a guard's scans, newest first, up to limit.
	ListScansByGuard(ctx context.Context, guardID uuid.UUID, limit int) ([]*entity.Scan, error)

	// ListScans retrieves scans across all guards, newest first, up to limit.
	// A limit of 0 means no limit; used by the CSV export.
	ListScans(ctx context.Context, limit int) ([]*entity.Scan, error)

	// CountScansSince returns the number of scans recorded after the given instant.
	CountScansSince(ctx context.Context, since time.Time) (int64, error)

	// CountDistinctCheckpointsSince returns how many distinct checkpoints have been
	// scanned after the given instant. Used for the dashboard coverage figure.
	CountDistinctCheckpointsSince(ctx context.Context, since time.Time) (int64, error)
}
