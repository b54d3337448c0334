// Package qrcode renders and decodes checkpoint QR payloads.
package qrcode

import (
	"fmt"
	"strings"

	"patrol/internal/domain/constants"
	"patrol/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateCheckpointQR renders the checkpoint's QR code as a PNG image.
// The encoded payload is "checkpoint:<id>", the same form the scan endpoint accepts.
func (s *qrcodeService) GenerateCheckpointQR(checkpointID uuid.UUID) ([]byte, error) {
	payload := constants.QRPayloadPrefix + checkpointID.String()

	qrCode, err := qrcode.New(payload, s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseCheckpointPayload resolves a decoded QR payload to a checkpoint ID.
// A bare identifier and one carrying the "checkpoint:" prefix are equivalent.
func (s *qrcodeService) ParseCheckpointPayload(payload string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(payload)
	trimmed = strings.TrimPrefix(trimmed, constants.QRPayloadPrefix)

	checkpointID, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse checkpoint ID from payload: %w", err)
	}

	return checkpointID, nil
}
