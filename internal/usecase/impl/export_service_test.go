package impl

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"patrol/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService_WriteScansCSV(t *testing.T) {
	scanRepo := &mockScanRepo{}
	svc := NewExportService(scanRepo)

	ctx := context.Background()
	scannedAt := time.Date(2026, 8, 28, 21, 5, 9, 0, time.UTC)

	scans := []*entity.Scan{
		{
			ID:             uuid.New(),
			GuardName:      "Asha Patel",
			CheckpointName: "North Gate",
			Latitude:       ptr(19.0760),
			Longitude:      ptr(72.8777),
			ScannedAt:      scannedAt,
		},
		{
			ID:             uuid.New(),
			GuardName:      "Ravi Kumar",
			CheckpointName: "Basement, Level 2",
			ScannedAt:      scannedAt.Add(-time.Hour),
		},
	}

	scanRepo.On("ListScans", ctx, 0).Return(scans, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteScansCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Guard Name", "Checkpoint", "Date/Time", "Latitude", "Longitude"}, records[0])
	assert.Equal(t, []string{"Asha Patel", "North Gate", "2026-08-28 21:05:09", "19.076", "72.8777"}, records[1])
	// Missing coordinates are written as empty fields; the comma in the
	// checkpoint name survives the round trip.
	assert.Equal(t, []string{"Ravi Kumar", "Basement, Level 2", "2026-08-28 20:05:09", "", ""}, records[2])
}

func TestExportService_WriteScansCSV_EmptyLedger(t *testing.T) {
	scanRepo := &mockScanRepo{}
	svc := NewExportService(scanRepo)

	ctx := context.Background()
	scanRepo.On("ListScans", ctx, 0).Return([]*entity.Scan{}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteScansCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestExportService_WriteScansCSV_RepoFailure(t *testing.T) {
	scanRepo := &mockScanRepo{}
	svc := NewExportService(scanRepo)

	ctx := context.Background()
	scanRepo.On("ListScans", ctx, 0).Return(nil, errors.New("connection refused"))

	var buf bytes.Buffer
	err := svc.WriteScansCSV(ctx, &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
