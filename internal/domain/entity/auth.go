// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Authentication represents a single method of logging in (a credential).
// Guards are provisioned with an email/password credential by an administrator.
type Authentication struct {
	ID           uuid.UUID // The unique ID for this specific authentication record itself.
	UserID       uuid.UUID // Links this authentication method to the User it belongs to.
	Provider     string    // The authentication provider; only "email" is issued today.
	PasswordHash string    // Stores the bcrypt-hashed password.
	CreatedAt    time.Time // When this credential was created.
}

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new access token after the old one expires, without requiring credentials.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token for secure comparison in the database.
	ExpiresAt time.Time // When this refresh token becomes invalid.
	CreatedAt time.Time // When this session was created (i.e., when the user logged in).
}
