package handler

import (
	"net/http"

	"patrol/internal/delivery/http/response"
	"patrol/internal/usecase"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the admin dashboard summary.
type DashboardHandler struct {
	dashboardUC usecase.DashboardUsecase
}

// NewDashboardHandler is the constructor for DashboardHandler.
func NewDashboardHandler(dashboardUC usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC}
}

// Stats returns guard, checkpoint and scan totals plus today's coverage. Admin only.
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.dashboardUC.Stats(c.Request().Context())
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats, "Dashboard statistics retrieved successfully")
}
