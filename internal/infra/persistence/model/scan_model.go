package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanModel mirrors the 'scans' table: an append-only event log. Guard and checkpoint
// names are captured at scan time, so rows stay readable after the referenced rows
// change or disappear. There is deliberately no FK to checkpoints.
type ScanModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GuardID        uuid.UUID `gorm:"type:uuid;not null;index:idx_scans_guard_checkpoint_time,priority:1"`
	GuardName      string    `gorm:"type:varchar(100);not null"`
	CheckpointID   uuid.UUID `gorm:"type:uuid;not null;index:idx_scans_guard_checkpoint_time,priority:2"`
	CheckpointName string    `gorm:"type:varchar(100);not null"`
	Latitude       *float64  `gorm:"type:double precision"`
	Longitude      *float64  `gorm:"type:double precision"`
	ScannedAt      time.Time `gorm:"not null;autoCreateTime;index:idx_scans_guard_checkpoint_time,priority:3;index:idx_scans_scanned_at"`
}

// TableName explicitly sets the table name for GORM.
func (ScanModel) TableName() string {
	return "scans"
}
