// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"patrol/internal/domain/entity"
	"patrol/internal/errors"

	"github.com/google/uuid"
)

// ErrCheckpointNotFound is returned when a checkpoint is not found.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// CheckpointRepository is the checkpoint directory: read-mostly lookup of the fixed
// locations guards must visit. Checkpoints are immutable, so there is no update method.
type CheckpointRepository interface {
	// CreateCheckpoint persists a new checkpoint.
	CreateCheckpoint(ctx context.Context, checkpoint *entity.Checkpoint) error

	// FindCheckpointByID retrieves a checkpoint by its unique ID.
	// Returns ErrCheckpointNotFound when no such checkpoint exists.
	FindCheckpointByID(ctx context.Context, id uuid.UUID) (*entity.Checkpoint, error)

	// ListCheckpoints retrieves all checkpoints, newest first.
	ListCheckpoints(ctx context.Context) ([]*entity.Checkpoint, error)

	// DeleteCheckpoint removes a checkpoint by its ID.
	DeleteCheckpoint(ctx context.Context, id uuid.UUID) error

	// CountCheckpoints returns the total number of checkpoints.
	CountCheckpoints(ctx context.Context) (int64, error)
}
