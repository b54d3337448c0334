package postgres

import (
	"context"
	"time"

	"patrol/internal/domain/entity"
	domainerrors "patrol/internal/domain/errors"
	"patrol/internal/domain/repository"
	"patrol/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// guardLocationRepository implements the domain.GuardLocationRepository interface using GORM.
type guardLocationRepository struct {
	db *gorm.DB
}

// NewGuardLocationRepository is the constructor for guardLocationRepository.
func NewGuardLocationRepository(db *gorm.DB) repository.GuardLocationRepository {
	return &guardLocationRepository{db: db}
}

// UpsertGuardLocation inserts or refreshes the guard's position row. The conflict
// target is the unique index on guard_id; concurrent writers last-write-win.
func (repo *guardLocationRepository) UpsertGuardLocation(ctx context.Context, location *entity.GuardLocation) error {
	locationM := fromGuardLocationDomain(location)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guard_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"guard_name", "latitude", "longitude", "status", "updated_at"}),
		}).
		Create(locationM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert guard location")
	}

	location.ID = locationM.ID
	location.UpdatedAt = locationM.UpdatedAt

	return nil
}

// SetGuardStatus updates only the status of the guard's row.
func (repo *guardLocationRepository) SetGuardStatus(ctx context.Context, guardID uuid.UUID, status entity.PatrolStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.GuardLocationModel{}).
		Where("guard_id = ?", guardID).
		Update("status", status.String())
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set guard status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrGuardLocationNotFound
	}

	return nil
}

// ListGuardLocations retrieves all last-known positions, optionally restricted to a
// bounding box (the admin map viewport).
func (repo *guardLocationRepository) ListGuardLocations(ctx context.Context, bound *orb.Bound) ([]*entity.GuardLocation, error) {
	query := repo.db.WithContext(ctx).Order("updated_at DESC")
	if bound != nil {
		query = query.Where(
			"latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			bound.Min.Lat(), bound.Max.Lat(), bound.Min.Lon(), bound.Max.Lon(),
		)
	}

	var locationMs []model.GuardLocationModel
	if err := query.Find(&locationMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list guard locations")
	}

	locations := make([]*entity.GuardLocation, 0, len(locationMs))
	for i := range locationMs {
		locations = append(locations, toGuardLocationDomain(&locationMs[i]))
	}

	return locations, nil
}

// MarkStaleOffline flips rows not refreshed since the given instant to offline.
func (repo *guardLocationRepository) MarkStaleOffline(ctx context.Context, staleBefore time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.GuardLocationModel{}).
		Where("updated_at < ? AND status <> ?", staleBefore, entity.PatrolStatusOffline.String()).
		UpdateColumn("status", entity.PatrolStatusOffline.String())
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark stale guards offline")
	}

	return result.RowsAffected, nil
}

// toGuardLocationDomain converts a GORM GuardLocationModel to a domain entity.
func toGuardLocationDomain(data *model.GuardLocationModel) *entity.GuardLocation {
	if data == nil {
		return nil
	}

	return &entity.GuardLocation{
		ID:        data.ID,
		GuardID:   data.GuardID,
		GuardName: data.GuardName,
		Latitude:  data.Latitude,
		Longitude: data.Longitude,
		Status:    entity.PatrolStatus(data.Status),
		UpdatedAt: data.UpdatedAt,
	}
}

// fromGuardLocationDomain converts a domain entity to a GORM GuardLocationModel.
func fromGuardLocationDomain(data *entity.GuardLocation) *model.GuardLocationModel {
	if data == nil {
		return nil
	}

	return &model.GuardLocationModel{
		ID:        data.ID,
		GuardID:   data.GuardID,
		GuardName: data.GuardName,
		Latitude:  data.Latitude,
		Longitude: data.Longitude,
		Status:    data.Status.String(),
	}
}
