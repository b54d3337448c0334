package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"patrol/internal/delivery/http/response"
	"patrol/internal/domain/service"
	"patrol/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultScanHistoryLimit = 50

// ScanHandlerParams holds dependencies for ScanHandler, injected by Fx.
type ScanHandlerParams struct {
	fx.In

	ScanUC   usecase.ScanUsecase
	ExportUC usecase.ExportUsecase
	Logger   *slog.Logger
}

// ScanHandler holds dependencies for scan-related handlers.
type ScanHandler struct {
	scanUC   usecase.ScanUsecase
	exportUC usecase.ExportUsecase
	logger   *slog.Logger
}

// NewScanHandler is the constructor for ScanHandler.
func NewScanHandler(params ScanHandlerParams) *ScanHandler {
	return &ScanHandler{
		scanUC:   params.ScanUC,
		exportUC: params.ExportUC,
		logger:   params.Logger,
	}
}

// EvaluateScanRequest represents one decoded QR presentation.
type EvaluateScanRequest struct {
	// SessionID identifies the scanning session; empty means one session per guard.
	SessionID string `json:"session_id"`

	// Payload is the decoded QR content.
	Payload string `json:"payload" validate:"required"`

	// Latitude and Longitude are the device position at scan time. Both must be
	// present or both absent.
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

// ResetScanRequest re-arms a scanning session.
type ResetScanRequest struct {
	SessionID string `json:"session_id"`
}

// Evaluate handles a presented QR payload. Every decided outcome, including
// duplicate and invalid_checkpoint, is a 200 with the outcome in the body; only
// a latched session is a 409.
func (h *ScanHandler) Evaluate(c echo.Context) error {
	guardID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req EvaluateScanRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid scan input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return response.BadRequest(c, "VALIDATION_ERROR", "latitude and longitude must be supplied together")
	}

	input := &usecase.ScanInput{
		SessionID: req.SessionID,
		GuardID:   guardID,
		GuardName: getUserName(c),
		Payload:   req.Payload,
	}
	if req.Latitude != nil && req.Longitude != nil {
		input.Location = &service.Coordinates{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		}
	}

	result, err := h.scanUC.Evaluate(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, usecase.ErrScanInFlight) {
			return response.Conflict(c, "SCAN_IN_FLIGHT", "A scan is already in progress for this session")
		}

		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Scan evaluated")
}

// Reset re-arms a scanning session so its next scan is accepted.
func (h *ScanHandler) Reset(c echo.Context) error {
	guardID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req ResetScanRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = guardID.String()
	}
	h.scanUC.Reset(sessionID)

	return response.Success(c, http.StatusOK, map[string]string{"message": "Session reset"}, "Session reset")
}

// History returns scans newest first: the caller's own, or any guard's when an
// administrator passes guard_id.
func (h *ScanHandler) History(c echo.Context) error {
	guardID, err := getUserID(c)
	if err != nil {
		return err
	}

	if raw := c.QueryParam("guard_id"); raw != "" {
		target, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_ID", "Invalid guard ID")
		}
		if target != guardID {
			roles, _ := c.Get("roles").([]string)
			if !slices.Contains(roles, "admin") {
				return response.Forbidden(c, "FORBIDDEN", "Only administrators may view other guards' scans")
			}
			guardID = target
		}
	}

	limit := defaultScanHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return response.BadRequest(c, "INVALID_LIMIT", "Limit must be a positive integer")
		}
		limit = parsed
	}

	scans, err := h.scanUC.GetGuardScans(c.Request().Context(), guardID, limit)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, scans, "Scans retrieved successfully")
}

// Export streams the full scan ledger as a CSV download. Admin only.
func (h *ScanHandler) Export(c echo.Context) error {
	filename := "scans-" + time.Now().Format("2006-01-02") + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.exportUC.WriteScansCSV(c.Request().Context(), c.Response()); err != nil {
		// Headers are already out; all we can do is log and cut the stream.
		h.logger.Error("failed to stream scan export", slog.Any("error", err))

		return errors.WithStack(err)
	}

	return nil
}
