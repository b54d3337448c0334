package model

import (
	"time"

	"github.com/google/uuid"
)

// GuardLocationModel mirrors the 'guard_locations' table: exactly one row per guard,
// refreshed in place on every telemetry tick. The unique index on GuardID is what the
// upsert conflicts against.
type GuardLocationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GuardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	GuardName string    `gorm:"type:varchar(100);not null"`
	Latitude  float64   `gorm:"type:double precision;not null"`
	Longitude float64   `gorm:"type:double precision;not null"`
	Status    string    `gorm:"type:varchar(20);not null"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (GuardLocationModel) TableName() string {
	return "guard_locations"
}
