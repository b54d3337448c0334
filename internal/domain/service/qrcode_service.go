package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for checkpoint QR code generation and payload parsing.
type QRCodeService interface {
	// GenerateCheckpointQR renders the checkpoint's QR code as a PNG image.
	// The encoded value is "checkpoint:<id>".
	GenerateCheckpointQR(checkpointID uuid.UUID) ([]byte, error)

	// ParseCheckpointPayload resolves a decoded QR payload to a checkpoint ID.
	// Accepted forms are a bare identifier or one prefixed with "checkpoint:".
	// Any other form is an unparseable identifier and returns an error; callers
	// treat that the same as a failed directory lookup.
	ParseCheckpointPayload(payload string) (uuid.UUID, error)
}
