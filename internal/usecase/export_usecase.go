package usecase

import (
	"context"
	"io"
)

// ExportUsecase produces downloadable reports of the scan ledger.
type ExportUsecase interface {
	// WriteScansCSV streams the full scan ledger as CSV with columns
	// "Guard Name, Checkpoint, Date/Time, Latitude, Longitude", newest first.
	// Missing coordinates are written as empty fields.
	WriteScansCSV(ctx context.Context, w io.Writer) error
}
