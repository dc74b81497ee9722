// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	api := e.Group("/api")

	// Health check
	api.GET("/health", h.HandleHealth)
	api.GET("/display-types", h.HandleDisplayTypes)

	// Editing sessions
	sessions := api.Group("/sessions")
	sessions.POST("", h.HandleCreateSession)
	sessions.GET("", h.HandleListSessions)
	sessions.GET("/:id", h.HandleGetSession)
	sessions.DELETE("/:id", h.HandleDeleteSession)
	sessions.PUT("/:id/fields", h.HandleUpdateFields)

	// Source document
	sessions.POST("/:id/source", h.HandleUploadSource)
	api.GET("/sources/recent", h.HandleRecentSources)

	// Trend display configuration
	sessions.PUT("/:id/trends/:group", h.HandleSetTrendNames)
	sessions.PUT("/:id/trends/:group/:index", h.HandleSetEntry)
	sessions.POST("/:id/trends/:group/replicate", h.HandleReplicate)
	sessions.POST("/:id/trends/:group/presets", h.HandleApplyPresets)

	// Export
	sessions.GET("/:id/context", h.HandleGetContext)
	sessions.GET("/:id/context/msgpack", h.HandleGetContextMsgpack)
	sessions.POST("/:id/export", h.HandleExport)
	api.GET("/exports/recent", h.HandleRecentExports)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
