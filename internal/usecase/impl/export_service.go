package impl

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"patrol/internal/domain/entity"
	"patrol/internal/domain/repository"
	"patrol/internal/usecase"
)

// exportTimeLayout renders scan timestamps as "yyyy-MM-dd HH:mm:ss".
const exportTimeLayout = "2006-01-02 15:04:05"

type exportService struct {
	scanRepo repository.ScanRepository
}

// NewExportService creates the scan ledger export service.
func NewExportService(scanRepo repository.ScanRepository) usecase.ExportUsecase {
	return &exportService{scanRepo: scanRepo}
}

// WriteScansCSV streams the full scan ledger as CSV, newest first.
func (s *exportService) WriteScansCSV(ctx context.Context, w io.Writer) error {
	scans, err := s.scanRepo.ListScans(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list scans for export: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Guard Name", "Checkpoint", "Date/Time", "Latitude", "Longitude"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, scan := range scans {
		if err := writer.Write(exportRow(scan)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// exportRow formats one scan. Missing coordinates become empty fields.
func exportRow(scan *entity.Scan) []string {
	return []string{
		scan.GuardName,
		scan.CheckpointName,
		scan.ScannedAt.Format(exportTimeLayout),
		formatCoordinate(scan.Latitude),
		formatCoordinate(scan.Longitude),
	}
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}

	return strconv.FormatFloat(*v, 'f', -1, 64)
}
