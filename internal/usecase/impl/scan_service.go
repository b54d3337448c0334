// Package impl contains the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"patrol/config"
	"patrol/internal/domain/entity"
	"patrol/internal/domain/repository"
	"patrol/internal/domain/service"
	"patrol/internal/geo"
	"patrol/internal/usecase"

	"github.com/google/uuid"
)

const (
	defaultDuplicateWindow = 5 * time.Minute
	defaultRadiusMeters    = 100.0
	defaultLocationWait    = 10 * time.Second
)

// scanService is the scan decision engine. Each scanning session is single-flight:
// one evaluation at a time, and a terminal outcome holds the session until Reset.
type scanService struct {
	checkpointRepo repository.CheckpointRepository
	scanRepo       repository.ScanRepository
	qrcodes        service.QRCodeService
	locations      service.LocationSource
	notifier       service.NotificationService
	config         *config.Config
	logger         *slog.Logger

	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewScanService creates the scan decision engine.
func NewScanService(
	checkpointRepo repository.CheckpointRepository,
	scanRepo repository.ScanRepository,
	qrcodes service.QRCodeService,
	locations service.LocationSource,
	notifier service.NotificationService,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.ScanUsecase {
	if cfg.Patrol == nil {
		cfg.Patrol = &config.PatrolConfig{
			DuplicateWindow:     defaultDuplicateWindow,
			DefaultRadiusMeters: defaultRadiusMeters,
			LocationWait:        defaultLocationWait,
		}
	}

	return &scanService{
		checkpointRepo: checkpointRepo,
		scanRepo:       scanRepo,
		qrcodes:        qrcodes,
		locations:      locations,
		notifier:       notifier,
		config:         cfg,
		logger:         logger,
		sessions:       make(map[string]struct{}),
	}
}

// Evaluate runs the five-outcome decision procedure for one presented QR payload.
// A rejected attempt (latch held) returns ErrScanInFlight and leaves no trace;
// every other failure mode is folded into the result's status.
func (s *scanService) Evaluate(ctx context.Context, input *usecase.ScanInput) (*usecase.ScanResult, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = input.GuardID.String()
	}

	if !s.acquire(sessionID) {
		return nil, usecase.ErrScanInFlight
	}

	// The session stays held after a terminal outcome; only Reset re-arms it.
	return s.evaluate(ctx, input), nil
}

// Reset re-arms a scanning session so the next Evaluate is accepted.
func (s *scanService) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// GetGuardScans returns a guard's scans, newest first, up to limit.
func (s *scanService) GetGuardScans(ctx context.Context, guardID uuid.UUID, limit int) ([]*entity.Scan, error) {
	scans, err := s.scanRepo.ListScansByGuard(ctx, guardID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans by guard: %w", err)
	}

	return scans, nil
}

// acquire claims the session latch. It fails while an evaluation is in progress
// or a terminal outcome has not been reset yet.
func (s *scanService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.sessions[sessionID]; held {
		return false
	}
	s.sessions[sessionID] = struct{}{}

	return true
}

func (s *scanService) evaluate(ctx context.Context, input *usecase.ScanInput) *usecase.ScanResult {
	// Resolve the payload to a checkpoint ID. An unparseable identifier behaves
	// exactly like an unknown one.
	checkpointID, err := s.qrcodes.ParseCheckpointPayload(input.Payload)
	if err != nil {
		return &usecase.ScanResult{
			Status:  usecase.ScanOutcomeInvalidCheckpoint,
			Message: "Invalid checkpoint code",
		}
	}

	checkpoint, err := s.checkpointRepo.FindCheckpointByID(ctx, checkpointID)
	if err != nil {
		if errors.Is(err, repository.ErrCheckpointNotFound) {
			return &usecase.ScanResult{
				Status:  usecase.ScanOutcomeInvalidCheckpoint,
				Message: "Invalid checkpoint code",
			}
		}

		return s.errorResult(err, "checkpoint lookup failed")
	}

	// Duplicate window: a prior scan strictly after now-window blocks this one.
	// A scan exactly at the boundary (window fully elapsed) does not.
	window := s.config.Patrol.DuplicateWindow
	since := time.Now().Add(-window)
	prior, err := s.scanRepo.FindScansSince(ctx, input.GuardID, checkpoint.ID, since)
	if err != nil {
		return s.errorResult(err, "duplicate check failed")
	}
	if len(prior) > 0 {
		return &usecase.ScanResult{
			Status:  usecase.ScanOutcomeDuplicate,
			Message: fmt.Sprintf("%s was already scanned within the last %s", checkpoint.Name, window),
		}
	}

	location := s.resolveLocation(ctx, input)

	// The scan is recorded regardless of where the device was. Distance only
	// decides how the record is classified.
	scan := &entity.Scan{
		GuardID:        input.GuardID,
		GuardName:      input.GuardName,
		CheckpointID:   checkpoint.ID,
		CheckpointName: checkpoint.Name,
	}
	if location != nil {
		lat, lng := location.Latitude, location.Longitude
		scan.Latitude = &lat
		scan.Longitude = &lng
	}
	if err := s.scanRepo.InsertScan(ctx, scan); err != nil {
		return s.errorResult(err, "failed to record scan")
	}

	return s.classify(ctx, checkpoint, scan, location)
}

// resolveLocation prefers the position reported with the scan and falls back to a
// bounded wait on the engine's own source. Failure means scanning without location.
func (s *scanService) resolveLocation(ctx context.Context, input *usecase.ScanInput) *service.Coordinates {
	if input.Location != nil {
		return input.Location
	}
	if s.locations == nil {
		return nil
	}

	wait := s.config.Patrol.LocationWait
	if wait <= 0 {
		wait = defaultLocationWait
	}
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	location, err := s.locations.Current(waitCtx)
	if err != nil {
		s.logger.Debug("scan proceeding without device location",
			slog.String("guard_id", input.GuardID.String()),
			slog.String("error", err.Error()),
		)

		return nil
	}

	return location
}

// classify decides between success and location_warning for an inserted scan.
func (s *scanService) classify(ctx context.Context, checkpoint *entity.Checkpoint, scan *entity.Scan, location *service.Coordinates) *usecase.ScanResult {
	if location == nil || !checkpoint.HasCoordinates() {
		return &usecase.ScanResult{
			Status:  usecase.ScanOutcomeSuccess,
			Message: fmt.Sprintf("%s scanned", checkpoint.Name),
			Scan:    scan,
		}
	}

	distance := geo.HaversineDistance(location.Latitude, location.Longitude, *checkpoint.Latitude, *checkpoint.Longitude)
	allowed := s.config.Patrol.DefaultRadiusMeters
	if allowed <= 0 {
		allowed = defaultRadiusMeters
	}
	if checkpoint.RadiusMeters != nil {
		allowed = *checkpoint.RadiusMeters
	}

	if distance <= allowed {
		return &usecase.ScanResult{
			Status:              usecase.ScanOutcomeSuccess,
			Message:             fmt.Sprintf("%s scanned", checkpoint.Name),
			Scan:                scan,
			DistanceMeters:      &distance,
			AllowedRadiusMeters: &allowed,
		}
	}

	s.sendLocationWarningAlert(ctx, scan, distance)

	return &usecase.ScanResult{
		Status:              usecase.ScanOutcomeLocationWarning,
		Message:             fmt.Sprintf("%s scanned %.0f m from the checkpoint (allowed %.0f m)", checkpoint.Name, distance, allowed),
		Scan:                scan,
		DistanceMeters:      &distance,
		AllowedRadiusMeters: &allowed,
	}
}

// sendLocationWarningAlert flags the scan for admin review. Best effort: a failed
// push never changes the scan outcome.
func (s *scanService) sendLocationWarningAlert(ctx context.Context, scan *entity.Scan, distance float64) {
	if s.notifier == nil || s.config.Firebase == nil || s.config.Firebase.AlertTopic == "" {
		return
	}

	err := s.notifier.SendTopicNotification(ctx,
		s.config.Firebase.AlertTopic,
		"Location warning",
		fmt.Sprintf("%s scanned %s %.0f m outside the allowed radius", scan.GuardName, scan.CheckpointName, distance),
		map[string]string{
			"scan_id":       scan.ID.String(),
			"guard_id":      scan.GuardID.String(),
			"checkpoint_id": scan.CheckpointID.String(),
		},
	)
	if err != nil {
		s.logger.Warn("failed to send location warning alert",
			slog.String("scan_id", scan.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *scanService) errorResult(err error, message string) *usecase.ScanResult {
	s.logger.Error("scan evaluation failed",
		slog.String("error", err.Error()),
	)

	return &usecase.ScanResult{
		Status:  usecase.ScanOutcomeError,
		Message: message,
	}
}
