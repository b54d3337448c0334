// Package usecase defines the application's use case interfaces and their input/output types.
package usecase

import (
	"context"

	"patrol/internal/domain/entity"
	"patrol/internal/domain/service"
	"patrol/internal/errors"

	"github.com/google/uuid"
)

// Scan outcomes. Every evaluated scan resolves to exactly one of these.
const (
	// ScanOutcomeSuccess records a verified scan (within radius, or GPS verification inactive).
	ScanOutcomeSuccess = "success"
	// ScanOutcomeLocationWarning records the scan but flags the device as outside the allowed radius.
	ScanOutcomeLocationWarning = "location_warning"
	// ScanOutcomeDuplicate rejects a repeat scan of the same checkpoint inside the trailing window.
	ScanOutcomeDuplicate = "duplicate"
	// ScanOutcomeInvalidCheckpoint rejects a payload that resolves to no known checkpoint.
	ScanOutcomeInvalidCheckpoint = "invalid_checkpoint"
	// ScanOutcomeError reports an infrastructure failure; nothing reliable was decided.
	ScanOutcomeError = "error"
)

// ErrScanInFlight is returned when a scanning session already holds an evaluation
// (in progress or terminal and not yet reset). The attempt is discarded entirely.
var ErrScanInFlight = errors.New("scan already in flight for this session")

// ScanInput carries one decoded QR presentation through the decision procedure.
type ScanInput struct {
	// SessionID identifies the scanning session for the single-flight latch.
	// Empty falls back to the guard ID (one session per guard).
	SessionID string

	GuardID   uuid.UUID
	GuardName string

	// Payload is the decoded QR content: a bare checkpoint ID or one
	// prefixed with "checkpoint:".
	Payload string

	// Location is the device position reported with the scan. Nil means the
	// device did not supply one; the engine may still try its own source.
	Location *service.Coordinates
}

// ScanResult is the terminal outcome of one evaluation.
type ScanResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	// Scan is the persisted record; nil for duplicate, invalid_checkpoint and error.
	Scan *entity.Scan `json:"scan,omitempty"`

	// DistanceMeters and AllowedRadiusMeters are set when GPS verification ran.
	DistanceMeters      *float64 `json:"distance_meters,omitempty"`
	AllowedRadiusMeters *float64 `json:"allowed_radius_meters,omitempty"`
}

// ScanUsecase is the scan decision engine.
type ScanUsecase interface {
	// Evaluate runs the five-outcome decision procedure for a presented QR payload.
	// It returns ErrScanInFlight when the session latch rejects the attempt;
	// every other failure mode is folded into the result's status.
	Evaluate(ctx context.Context, input *ScanInput) (*ScanResult, error)

	// Reset re-arms a scanning session so the next Evaluate is accepted.
	Reset(sessionID string)

	// GetGuardScans returns a guard's scans, newest first, up to limit.
	GetGuardScans(ctx context.Context, guardID uuid.UUID, limit int) ([]*entity.Scan, error)
}
