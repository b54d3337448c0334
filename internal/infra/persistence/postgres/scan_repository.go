package postgres

import (
	"context"
	"time"

	"patrol/internal/domain/entity"
	domainerrors "patrol/internal/domain/errors"
	"patrol/internal/domain/repository"
	"patrol/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// scanRepository implements the domain.ScanRepository interface using GORM.
// Scans are append-only; there are no update paths here.
type scanRepository struct {
	db *gorm.DB
}

// NewScanRepository is the constructor for scanRepository.
func NewScanRepository(db *gorm.DB) repository.ScanRepository {
	return &scanRepository{db: db}
}

// InsertScan appends a scan record. ScannedAt is assigned by the store.
func (repo *scanRepository) InsertScan(ctx context.Context, scan *entity.Scan) error {
	scanM := fromScanDomain(scan)

	if err := repo.db.WithContext(ctx).Create(scanM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.ErrScanInsertFailed.WrapMessage(err.Error())
	}

	scan.ID = scanM.ID
	scan.ScannedAt = scanM.ScannedAt

	return nil
}

// FindScansSince retrieves scans by a guard for a checkpoint recorded strictly
// after the given instant. The strict inequality puts a scan exactly at the
// duplicate-window boundary outside the window.
func (repo *scanRepository) FindScansSince(ctx context.Context, guardID, checkpointID uuid.UUID, since time.Time) ([]*entity.Scan, error) {
	var scanMs []model.ScanModel
	err := repo.db.WithContext(ctx).
		Where("guard_id = ? AND checkpoint_id = ? AND scanned_at > ?", guardID, checkpointID, since).
		Order("scanned_at DESC").
		Find(&scanMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find scans since")
	}

	return toScanDomainSlice(scanMs), nil
}

// ListScansByGuard retrieves a guard's scans, newest first, up to limit.
func (repo *scanRepository) ListScansByGuard(ctx context.Context, guardID uuid.UUID, limit int) ([]*entity.Scan, error) {
	query := repo.db.WithContext(ctx).
		Where("guard_id = ?", guardID).
		Order("scanned_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var scanMs []model.ScanModel
	if err := query.Find(&scanMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list scans by guard")
	}

	return toScanDomainSlice(scanMs), nil
}

// ListScans retrieves scans across all guards, newest first. A limit of 0 means
// no limit; the CSV export reads the full ledger.
func (repo *scanRepository) ListScans(ctx context.Context, limit int) ([]*entity.Scan, error) {
	query := repo.db.WithContext(ctx).
		Order("scanned_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var scanMs []model.ScanModel
	if err := query.Find(&scanMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list scans")
	}

	return toScanDomainSlice(scanMs), nil
}

// CountScansSince returns the number of scans recorded after the given instant.
func (repo *scanRepository) CountScansSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ScanModel{}).
		Where("scanned_at > ?", since).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count scans since")
	}

	return count, nil
}

// CountDistinctCheckpointsSince returns how many distinct checkpoints have been
// scanned after the given instant.
func (repo *scanRepository) CountDistinctCheckpointsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ScanModel{}).
		Distinct("checkpoint_id").
		Where("scanned_at > ?", since).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count distinct checkpoints since")
	}

	return count, nil
}

// toScanDomain converts a GORM ScanModel to a domain entity.
func toScanDomain(data *model.ScanModel) *entity.Scan {
	if data == nil {
		return nil
	}

	return &entity.Scan{
		ID:             data.ID,
		GuardID:        data.GuardID,
		GuardName:      data.GuardName,
		CheckpointID:   data.CheckpointID,
		CheckpointName: data.CheckpointName,
		Latitude:       data.Latitude,
		Longitude:      data.Longitude,
		ScannedAt:      data.ScannedAt,
	}
}

func toScanDomainSlice(data []model.ScanModel) []*entity.Scan {
	scans := make([]*entity.Scan, 0, len(data))
	for i := range data {
		scans = append(scans, toScanDomain(&data[i]))
	}

	return scans
}

// fromScanDomain converts a domain entity to a GORM ScanModel.
func fromScanDomain(data *entity.Scan) *model.ScanModel {
	if data == nil {
		return nil
	}

	return &model.ScanModel{
		ID:             data.ID,
		GuardID:        data.GuardID,
		GuardName:      data.GuardName,
		CheckpointID:   data.CheckpointID,
		CheckpointName: data.CheckpointName,
		Latitude:       data.Latitude,
		Longitude:      data.Longitude,
	}
}
