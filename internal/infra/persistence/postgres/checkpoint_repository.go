package postgres

import (
	"context"

	"patrol/internal/domain/entity"
	domainerrors "patrol/internal/domain/errors"
	"patrol/internal/domain/repository"
	"patrol/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// checkpointRepository implements the domain.CheckpointRepository interface using GORM.
type checkpointRepository struct {
	db *gorm.DB
}

// NewCheckpointRepository is the constructor for checkpointRepository.
func NewCheckpointRepository(db *gorm.DB) repository.CheckpointRepository {
	return &checkpointRepository{db: db}
}

// CreateCheckpoint persists a new checkpoint.
func (repo *checkpointRepository) CreateCheckpoint(ctx context.Context, checkpoint *entity.Checkpoint) error {
	checkpointM := fromCheckpointDomain(checkpoint)

	if err := repo.db.WithContext(ctx).Create(checkpointM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrCheckpointCreationFailed.WrapMessage("missing required checkpoint information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create checkpoint")
	}

	checkpoint.ID = checkpointM.ID
	checkpoint.CreatedAt = checkpointM.CreatedAt

	return nil
}

// FindCheckpointByID retrieves a checkpoint by its unique ID.
func (repo *checkpointRepository) FindCheckpointByID(ctx context.Context, id uuid.UUID) (*entity.Checkpoint, error) {
	var checkpointM model.CheckpointModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&checkpointM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCheckpointNotFound
		}

		return nil, errors.Wrap(err, "failed to find checkpoint by id")
	}

	return toCheckpointDomain(&checkpointM), nil
}

// ListCheckpoints retrieves all checkpoints, newest first.
func (repo *checkpointRepository) ListCheckpoints(ctx context.Context) ([]*entity.Checkpoint, error) {
	var checkpointMs []model.CheckpointModel
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&checkpointMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list checkpoints")
	}

	checkpoints := make([]*entity.Checkpoint, 0, len(checkpointMs))
	for i := range checkpointMs {
		checkpoints = append(checkpoints, toCheckpointDomain(&checkpointMs[i]))
	}

	return checkpoints, nil
}

// DeleteCheckpoint removes a checkpoint by its ID. Existing scans keep the
// checkpoint's name; nothing cascades.
func (repo *checkpointRepository) DeleteCheckpoint(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CheckpointModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete checkpoint")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCheckpointNotFound
	}

	return nil
}

// CountCheckpoints returns the total number of checkpoints.
func (repo *checkpointRepository) CountCheckpoints(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.CheckpointModel{}).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count checkpoints")
	}

	return count, nil
}

// toCheckpointDomain converts a GORM CheckpointModel to a domain entity.
func toCheckpointDomain(data *model.CheckpointModel) *entity.Checkpoint {
	if data == nil {
		return nil
	}

	return &entity.Checkpoint{
		ID:           data.ID,
		Name:         data.Name,
		Location:     data.Location,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		RadiusMeters: data.RadiusMeters,
		CreatedBy:    data.CreatedBy,
		CreatedAt:    data.CreatedAt,
	}
}

// fromCheckpointDomain converts a domain entity to a GORM CheckpointModel.
func fromCheckpointDomain(data *entity.Checkpoint) *model.CheckpointModel {
	if data == nil {
		return nil
	}

	return &model.CheckpointModel{
		ID:           data.ID,
		Name:         data.Name,
		Location:     data.Location,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		RadiusMeters: data.RadiusMeters,
		CreatedBy:    data.CreatedBy,
	}
}
