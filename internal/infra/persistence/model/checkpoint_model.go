package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckpointModel mirrors the 'checkpoints' table. Coordinates are nullable: a
// checkpoint without them skips GPS verification entirely.
type CheckpointModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Location     string    `gorm:"type:varchar(255);not null"`
	Latitude     *float64  `gorm:"type:double precision"`
	Longitude    *float64  `gorm:"type:double precision"`
	RadiusMeters *float64  `gorm:"type:double precision"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CheckpointModel) TableName() string {
	return "checkpoints"
}
