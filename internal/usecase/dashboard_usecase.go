package usecase

import "context"

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalGuards      int64 `json:"total_guards"`
	TotalCheckpoints int64 `json:"total_checkpoints"`
	ScansToday       int64 `json:"scans_today"`
	// CoveragePercent is round(distinct checkpoints scanned today / total * 100);
	// 0 when there are no checkpoints.
	CoveragePercent int `json:"coverage_percent"`
}

// DashboardUsecase aggregates operational statistics for administrators.
type DashboardUsecase interface {
	// Stats computes the dashboard summary. "Today" starts at local midnight.
	Stats(ctx context.Context) (*DashboardStats, error)
}
