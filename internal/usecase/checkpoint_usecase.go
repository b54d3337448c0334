package usecase

import (
	"context"

	"patrol/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCheckpointInput represents the input for creating a checkpoint.
// Coordinates are optional; omitting them disables GPS verification for the checkpoint.
type CreateCheckpointInput struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *float64 `json:"radius_meters,omitempty"`
}

// CheckpointUsecase defines checkpoint administration use cases.
// Checkpoints are immutable once created; there is no update operation.
type CheckpointUsecase interface {
	// CreateCheckpoint registers a new checkpoint on behalf of an administrator.
	CreateCheckpoint(ctx context.Context, adminID uuid.UUID, input *CreateCheckpointInput) (*entity.Checkpoint, error)

	// GetCheckpoint retrieves a single checkpoint.
	GetCheckpoint(ctx context.Context, id uuid.UUID) (*entity.Checkpoint, error)

	// ListCheckpoints retrieves all checkpoints, newest first.
	ListCheckpoints(ctx context.Context) ([]*entity.Checkpoint, error)

	// DeleteCheckpoint removes a checkpoint. Existing scans keep its denormalized name.
	DeleteCheckpoint(ctx context.Context, id uuid.UUID) error

	// CheckpointQR renders the checkpoint's QR code as a PNG.
	CheckpointQR(ctx context.Context, id uuid.UUID) ([]byte, error)
}
