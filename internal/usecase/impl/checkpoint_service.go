package impl

import (
	"context"
	"fmt"

	"patrol/internal/domain/entity"
	"patrol/internal/domain/repository"
	"patrol/internal/domain/service"
	"patrol/internal/usecase"

	"github.com/google/uuid"
)

type checkpointService struct {
	checkpointRepo repository.CheckpointRepository
	qrcodes        service.QRCodeService
}

// NewCheckpointService creates a new checkpoint administration service.
func NewCheckpointService(checkpointRepo repository.CheckpointRepository, qrcodes service.QRCodeService) usecase.CheckpointUsecase {
	return &checkpointService{
		checkpointRepo: checkpointRepo,
		qrcodes:        qrcodes,
	}
}

// CreateCheckpoint registers a new checkpoint on behalf of an administrator.
func (s *checkpointService) CreateCheckpoint(ctx context.Context, adminID uuid.UUID, input *usecase.CreateCheckpointInput) (*entity.Checkpoint, error) {
	checkpoint := &entity.Checkpoint{
		Name:         input.Name,
		Location:     input.Location,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		RadiusMeters: input.RadiusMeters,
		CreatedBy:    adminID,
	}

	if err := s.checkpointRepo.CreateCheckpoint(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}

	return checkpoint, nil
}

// GetCheckpoint retrieves a single checkpoint.
func (s *checkpointService) GetCheckpoint(ctx context.Context, id uuid.UUID) (*entity.Checkpoint, error) {
	checkpoint, err := s.checkpointRepo.FindCheckpointByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return checkpoint, nil
}

// ListCheckpoints retrieves all checkpoints, newest first.
func (s *checkpointService) ListCheckpoints(ctx context.Context) ([]*entity.Checkpoint, error) {
	checkpoints, err := s.checkpointRepo.ListCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	return checkpoints, nil
}

// DeleteCheckpoint removes a checkpoint. Existing scans keep its denormalized name.
func (s *checkpointService) DeleteCheckpoint(ctx context.Context, id uuid.UUID) error {
	return s.checkpointRepo.DeleteCheckpoint(ctx, id)
}

// CheckpointQR renders the checkpoint's QR code as a PNG. The checkpoint must exist;
// handing out codes for unknown IDs would only produce invalid_checkpoint scans.
func (s *checkpointService) CheckpointQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	checkpoint, err := s.checkpointRepo.FindCheckpointByID(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := s.qrcodes.GenerateCheckpointQR(checkpoint.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate checkpoint QR: %w", err)
	}

	return png, nil
}
