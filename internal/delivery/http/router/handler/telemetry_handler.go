package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"patrol/internal/delivery/http/response"
	"patrol/internal/errors"
	"patrol/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"go.uber.org/fx"
)

var (
	errViewportIncomplete = errors.New("viewport requires min_lat, min_lng, max_lat and max_lng together")
	errViewportMalformed  = errors.New("viewport coordinates must be decimal degrees")
	errViewportInverted   = errors.New("viewport minimum corner must not exceed the maximum corner")
)

// TelemetryHandlerParams holds dependencies for TelemetryHandler, injected by Fx.
type TelemetryHandlerParams struct {
	fx.In

	TelemetryUC usecase.TelemetryUsecase
	Logger      *slog.Logger
}

// TelemetryHandler holds dependencies for guard position telemetry handlers.
type TelemetryHandler struct {
	telemetryUC usecase.TelemetryUsecase
	logger      *slog.Logger
}

// NewTelemetryHandler is the constructor for TelemetryHandler.
func NewTelemetryHandler(params TelemetryHandlerParams) *TelemetryHandler {
	return &TelemetryHandler{
		telemetryUC: params.TelemetryUC,
		logger:      params.Logger,
	}
}

// ReportLocationRequest is one telemetry tick from a guard's device.
type ReportLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// ReportLocation refreshes the guard's last-known position.
func (h *TelemetryHandler) ReportLocation(c echo.Context) error {
	guardID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req ReportLocationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	location, err := h.telemetryUC.ReportLocation(c.Request().Context(), &usecase.ReportLocationInput{
		GuardID:   guardID,
		GuardName: getUserName(c),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, location, "Location reported successfully")
}

// MarkOffline flips the guard's row to offline on session teardown.
func (h *TelemetryHandler) MarkOffline(c echo.Context) error {
	guardID, err := getUserID(c)
	if err != nil {
		return err
	}

	if err := h.telemetryUC.MarkOffline(c.Request().Context(), guardID); err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Marked offline"}, "Marked offline")
}

// LivePositions returns last-known guard positions for the admin map. The
// viewport can be narrowed with min_lat/min_lng/max_lat/max_lng query
// parameters; all four must be present to take effect. Admin only.
func (h *TelemetryHandler) LivePositions(c echo.Context) error {
	bound, err := parseViewport(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_VIEWPORT", err.Error())
	}

	locations, err := h.telemetryUC.LivePositions(c.Request().Context(), bound)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, locations, "Guard positions retrieved successfully")
}

// parseViewport builds a bounding box from query parameters. No parameters means
// no viewport restriction; a partial set is rejected.
func parseViewport(c echo.Context) (*orb.Bound, error) {
	raw := map[string]string{
		"min_lat": c.QueryParam("min_lat"),
		"min_lng": c.QueryParam("min_lng"),
		"max_lat": c.QueryParam("max_lat"),
		"max_lng": c.QueryParam("max_lng"),
	}

	present := 0
	for _, v := range raw {
		if v != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(raw) {
		return nil, errViewportIncomplete
	}

	values := make(map[string]float64, len(raw))
	for key, v := range raw {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errViewportMalformed
		}
		values[key] = parsed
	}

	if values["min_lat"] > values["max_lat"] || values["min_lng"] > values["max_lng"] {
		return nil, errViewportInverted
	}

	bound := orb.Bound{
		Min: orb.Point{values["min_lng"], values["min_lat"]},
		Max: orb.Point{values["max_lng"], values["max_lat"]},
	}

	return &bound, nil
}
