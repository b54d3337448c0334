package impl

import (
	"context"
	"fmt"
	"math"
	"time"

	"patrol/internal/domain/entity"
	"patrol/internal/domain/repository"
	"patrol/internal/usecase"
)

type dashboardService struct {
	userRepo       repository.UserRepository
	checkpointRepo repository.CheckpointRepository
	scanRepo       repository.ScanRepository
}

// NewDashboardService creates the admin dashboard aggregation service.
func NewDashboardService(
	userRepo repository.UserRepository,
	checkpointRepo repository.CheckpointRepository,
	scanRepo repository.ScanRepository,
) usecase.DashboardUsecase {
	return &dashboardService{
		userRepo:       userRepo,
		checkpointRepo: checkpointRepo,
		scanRepo:       scanRepo,
	}
}

// Stats computes the dashboard summary. "Today" starts at the server's local midnight.
func (s *dashboardService) Stats(ctx context.Context) (*usecase.DashboardStats, error) {
	totalGuards, err := s.userRepo.CountByRole(ctx, entity.RoleGuard)
	if err != nil {
		return nil, fmt.Errorf("failed to count guards: %w", err)
	}

	totalCheckpoints, err := s.checkpointRepo.CountCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count checkpoints: %w", err)
	}

	midnight := localMidnight(time.Now())

	scansToday, err := s.scanRepo.CountScansSince(ctx, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to count scans today: %w", err)
	}

	distinctToday, err := s.scanRepo.CountDistinctCheckpointsSince(ctx, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to count distinct checkpoints today: %w", err)
	}

	return &usecase.DashboardStats{
		TotalGuards:      totalGuards,
		TotalCheckpoints: totalCheckpoints,
		ScansToday:       scansToday,
		CoveragePercent:  coveragePercent(distinctToday, totalCheckpoints),
	}, nil
}

// coveragePercent is round(distinct / total * 100); 0 when there are no checkpoints.
func coveragePercent(distinct, total int64) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(float64(distinct) / float64(total) * 100))
}

func localMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
