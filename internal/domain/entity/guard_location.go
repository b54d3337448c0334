// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatrolStatus is the reported duty state of a guard.
type PatrolStatus string

const (
	// PatrolStatusOnPatrol indicates the guard session is active and reporting positions.
	PatrolStatusOnPatrol PatrolStatus = "on_patrol"
	// PatrolStatusIdle indicates the guard is signed in but not actively patrolling.
	PatrolStatusIdle PatrolStatus = "idle"
	// PatrolStatusOffline indicates the guard session has ended or gone stale.
	PatrolStatusOffline PatrolStatus = "offline"
)

// String returns the string representation of the PatrolStatus.
func (s PatrolStatus) String() string {
	return string(s)
}

// IsValid checks if the PatrolStatus is a valid value.
func (s PatrolStatus) IsValid() bool {
	switch s {
	case PatrolStatusOnPatrol, PatrolStatusIdle, PatrolStatusOffline:
		return true
	default:
		return false
	}
}

// GuardLocation is the latest known position of a guard: a mutable last-write-wins
// projection with exactly one row per guard, not a movement log.
type GuardLocation struct {
	ID        uuid.UUID    `json:"id"`         // Row identifier.
	GuardID   uuid.UUID    `json:"guard_id"`   // The guard this position belongs to; unique.
	GuardName string       `json:"guard_name"` // Guard display name for the admin map.
	Latitude  float64      `json:"latitude"`   // Last reported latitude.
	Longitude float64      `json:"longitude"`  // Last reported longitude.
	Status    PatrolStatus `json:"status"`     // Reported duty state.
	UpdatedAt time.Time    `json:"updated_at"` // When this position was last refreshed.
}
