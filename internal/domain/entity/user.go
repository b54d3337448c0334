// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system: a guard on patrol or an administrator.
// Role-specific behavior hangs off the Role field; there is no per-role profile table
// because guards carry no extra attributes beyond their display name.
type User struct {
	ID        uuid.UUID // The unique identifier for this account.
	Email     string    // Primary contact email, used as the login identifier.
	Name      string    // Display name, denormalized into scan records at scan time.
	Role      Role      // Either RoleGuard or RoleAdmin.
	CreatedAt time.Time // When this account was provisioned.
	UpdatedAt time.Time // Last modification to this account.
}
