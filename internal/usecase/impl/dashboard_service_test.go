package impl

import (
	"context"
	"testing"
	"time"

	"patrol/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Stats(t *testing.T) {
	userRepo := &mockUserRepo{}
	checkpointRepo := &mockCheckpointRepo{}
	scanRepo := &mockScanRepo{}
	svc := NewDashboardService(userRepo, checkpointRepo, scanRepo)

	ctx := context.Background()

	isLocalMidnight := mock.MatchedBy(func(ts time.Time) bool {
		return ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && time.Since(ts) < 24*time.Hour
	})

	userRepo.On("CountByRole", ctx, entity.RoleGuard).Return(int64(4), nil)
	checkpointRepo.On("CountCheckpoints", ctx).Return(int64(3), nil)
	scanRepo.On("CountScansSince", ctx, isLocalMidnight).Return(int64(12), nil)
	scanRepo.On("CountDistinctCheckpointsSince", ctx, isLocalMidnight).Return(int64(2), nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalGuards)
	assert.Equal(t, int64(3), stats.TotalCheckpoints)
	assert.Equal(t, int64(12), stats.ScansToday)
	// round(2/3 * 100) = 67
	assert.Equal(t, 67, stats.CoveragePercent)
}

func TestDashboardService_Stats_NoCheckpoints(t *testing.T) {
	userRepo := &mockUserRepo{}
	checkpointRepo := &mockCheckpointRepo{}
	scanRepo := &mockScanRepo{}
	svc := NewDashboardService(userRepo, checkpointRepo, scanRepo)

	ctx := context.Background()

	userRepo.On("CountByRole", ctx, entity.RoleGuard).Return(int64(2), nil)
	checkpointRepo.On("CountCheckpoints", ctx).Return(int64(0), nil)
	scanRepo.On("CountScansSince", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	scanRepo.On("CountDistinctCheckpointsSince", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CoveragePercent)
}

func TestCoveragePercent(t *testing.T) {
	tests := []struct {
		name     string
		distinct int64
		total    int64
		want     int
	}{
		{"no checkpoints", 0, 0, 0},
		{"nothing scanned", 0, 5, 0},
		{"full coverage", 5, 5, 100},
		{"two thirds rounds up", 2, 3, 67},
		{"one third rounds down", 1, 3, 33},
		{"half", 1, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coveragePercent(tt.distinct, tt.total))
		})
	}
}
