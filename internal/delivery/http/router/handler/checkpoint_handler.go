package handler

import (
	"log/slog"
	"net/http"

	"patrol/internal/delivery/http/response"
	"patrol/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CheckpointHandlerParams holds dependencies for CheckpointHandler, injected by Fx.
type CheckpointHandlerParams struct {
	fx.In

	CheckpointUC usecase.CheckpointUsecase
	Logger       *slog.Logger
}

// CheckpointHandler holds dependencies for checkpoint administration handlers.
type CheckpointHandler struct {
	checkpointUC usecase.CheckpointUsecase
	logger       *slog.Logger
}

// NewCheckpointHandler is the constructor for CheckpointHandler.
func NewCheckpointHandler(params CheckpointHandlerParams) *CheckpointHandler {
	return &CheckpointHandler{
		checkpointUC: params.CheckpointUC,
		logger:       params.Logger,
	}
}

// CreateCheckpointRequest represents the request body for creating a checkpoint.
// Omitting the coordinates disables GPS verification for the checkpoint.
type CreateCheckpointRequest struct {
	Name         string   `json:"name" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	RadiusMeters *float64 `json:"radius_meters,omitempty" validate:"omitempty,gt=0"`
}

// Create handles registering a new checkpoint.
func (h *CheckpointHandler) Create(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req CreateCheckpointRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkpoint input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return response.BadRequest(c, "VALIDATION_ERROR", "latitude and longitude must be supplied together")
	}

	checkpoint, err := h.checkpointUC.CreateCheckpoint(c.Request().Context(), adminID, &usecase.CreateCheckpointInput{
		Name:         req.Name,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, checkpoint, "Checkpoint created successfully")
}

// Get handles retrieving a single checkpoint.
func (h *CheckpointHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid checkpoint ID")
	}

	checkpoint, err := h.checkpointUC.GetCheckpoint(c.Request().Context(), id)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, checkpoint, "Checkpoint retrieved successfully")
}

// List handles retrieving all checkpoints, newest first.
func (h *CheckpointHandler) List(c echo.Context) error {
	checkpoints, err := h.checkpointUC.ListCheckpoints(c.Request().Context())
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, checkpoints, "Checkpoints retrieved successfully")
}

// Delete handles removing a checkpoint. Existing scans keep its denormalized name.
func (h *CheckpointHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid checkpoint ID")
	}

	if err := h.checkpointUC.DeleteCheckpoint(c.Request().Context(), id); err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Checkpoint deleted successfully"}, "Checkpoint deleted successfully")
}

// QR renders the checkpoint's QR code as a PNG for printing.
func (h *CheckpointHandler) QR(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid checkpoint ID")
	}

	png, err := h.checkpointUC.CheckpointQR(c.Request().Context(), id)
	if err != nil {
		return handleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
