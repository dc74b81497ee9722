// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/chart-builder/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// SessionHandler handles editing session lifecycle and fields
type SessionHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleListSessions(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
	HandleUpdateFields(c echo.Context) error
}

// SourceHandler handles source document upload and extraction
type SourceHandler interface {
	HandleUploadSource(c echo.Context) error
	HandleRecentSources(c echo.Context) error
}

// TrendHandler handles per-trend display configuration
type TrendHandler interface {
	HandleSetTrendNames(c echo.Context) error
	HandleSetEntry(c echo.Context) error
	HandleReplicate(c echo.Context) error
	HandleApplyPresets(c echo.Context) error
	HandleDisplayTypes(c echo.Context) error
}

// ExportHandler handles export context assembly and output
type ExportHandler interface {
	HandleGetContext(c echo.Context) error
	HandleGetContextMsgpack(c echo.Context) error
	HandleExport(c echo.Context) error
	HandleRecentExports(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// HistoryStore records export attempts. Implemented by history.DuckStore.
type HistoryStore interface {
	Record(ctx context.Context, rec *models.ExportRecord) error
	Recent(ctx context.Context, limit int) ([]models.ExportRecord, error)
}
