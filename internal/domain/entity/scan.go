// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Scan is an immutable event recording a guard's presentation of a checkpoint's QR code.
// Guard and checkpoint display names are captured at scan time and never re-joined, so the
// record stays meaningful even after the referenced rows change or disappear.
// Scans are never mutated; they are deleted only as a cascade of guard removal.
type Scan struct {
	ID             uuid.UUID `json:"id"`                  // The unique identifier of this scan event.
	GuardID        uuid.UUID `json:"guard_id"`            // The guard who performed the scan.
	GuardName      string    `json:"guard_name"`          // Guard display name at scan time.
	CheckpointID   uuid.UUID `json:"checkpoint_id"`       // The checkpoint that was scanned.
	CheckpointName string    `json:"checkpoint_name"`     // Checkpoint name at scan time.
	Latitude       *float64  `json:"latitude,omitempty"`  // Device latitude; nil when the device denied or lacked location.
	Longitude      *float64  `json:"longitude,omitempty"` // Device longitude; nil when the device denied or lacked location.
	ScannedAt      time.Time `json:"scanned_at"`          // Server-assigned timestamp of the scan.
}
