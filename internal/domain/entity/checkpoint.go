// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Checkpoint is a fixed physical location guards must visit and scan.
// Checkpoints are immutable once created: administrators create and delete them,
// there is no update path.
type Checkpoint struct {
	ID           uuid.UUID `json:"id"`                      // The unique identifier; also the value encoded in the checkpoint's QR code.
	Name         string    `json:"name"`                    // Human-readable checkpoint name, denormalized into scan records.
	Location     string    `json:"location"`                // Free-text location label ("North gate", "Basement level 2").
	Latitude     *float64  `json:"latitude,omitempty"`      // Nil disables GPS verification for this checkpoint.
	Longitude    *float64  `json:"longitude,omitempty"`     // Nil disables GPS verification for this checkpoint.
	RadiusMeters *float64  `json:"radius_meters,omitempty"` // Allowed distance from the checkpoint; nil means the policy default.
	CreatedBy    uuid.UUID `json:"created_by"`              // The administrator who created this checkpoint.
	CreatedAt    time.Time `json:"created_at"`              // When this checkpoint was created.
}

// HasCoordinates reports whether GPS verification is active for this checkpoint.
// Both coordinates must be present; a half-set pair behaves as if unset.
func (c *Checkpoint) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}
