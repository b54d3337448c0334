// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"patrol/internal/delivery/http/middleware"
	"patrol/internal/delivery/http/router/handler"
	"patrol/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds every handler the router registers, injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	ScanHandler       *handler.ScanHandler
	CheckpointHandler *handler.CheckpointHandler
	TelemetryHandler  *handler.TelemetryHandler
	DashboardHandler  *handler.DashboardHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	scanHandler       *handler.ScanHandler
	checkpointHandler *handler.CheckpointHandler
	telemetryHandler  *handler.TelemetryHandler
	dashboardHandler  *handler.DashboardHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		scanHandler:       params.ScanHandler,
		checkpointHandler: params.CheckpointHandler,
		telemetryHandler:  params.TelemetryHandler,
		dashboardHandler:  params.DashboardHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Account routes that require authentication
	accountGroup := e.Group("/account")
	accountGroup.Use(r.authMiddleware.Authenticate)
	{
		accountGroup.GET("/me", r.authHandler.Me)
	}

	// Scan routes for authenticated guards; the export download is admin only
	scanGroup := e.Group("/scans")
	scanGroup.Use(r.authMiddleware.Authenticate)
	{
		scanGroup.POST("", r.scanHandler.Evaluate)
		scanGroup.POST("/reset", r.scanHandler.Reset)
		scanGroup.GET("", r.scanHandler.History)
		scanGroup.GET("/export", r.scanHandler.Export, r.authMiddleware.RequireRole(entity.RoleAdmin.String()))
	}

	// Guard telemetry routes
	guardGroup := e.Group("/guard")
	guardGroup.Use(r.authMiddleware.Authenticate)
	{
		guardGroup.POST("/location", r.telemetryHandler.ReportLocation)
		guardGroup.POST("/offline", r.telemetryHandler.MarkOffline)
	}

	// Dashboard summary for administrators
	dashboardGroup := e.Group("/dashboard")
	dashboardGroup.Use(r.authMiddleware.Authenticate)
	dashboardGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin.String()))
	{
		dashboardGroup.GET("/stats", r.dashboardHandler.Stats)
	}

	// Administration routes require authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin.String()))
	{
		adminGroup.POST("/guards", r.authHandler.ProvisionGuard)
		adminGroup.DELETE("/guards/:id", r.authHandler.RemoveGuard)
		adminGroup.GET("/guards/locations", r.telemetryHandler.LivePositions)

		adminGroup.POST("/checkpoints", r.checkpointHandler.Create)
		adminGroup.GET("/checkpoints", r.checkpointHandler.List)
		adminGroup.GET("/checkpoints/:id", r.checkpointHandler.Get)
		adminGroup.DELETE("/checkpoints/:id", r.checkpointHandler.Delete)
		adminGroup.GET("/checkpoints/:id/qr", r.checkpointHandler.QR)
	}
}
