package api

import (
	"github.com/chart-builder/backend/internal/export"
	"github.com/chart-builder/backend/internal/models"
	"github.com/chart-builder/backend/internal/session"
	"github.com/chart-builder/backend/internal/storage"
	"github.com/chart-builder/backend/internal/trend"
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store    storage.Store
	Sessions *session.Manager
	Writer   *export.Writer
	History  HistoryStore        // optional
	Presets  *trend.StylePresets // optional
	Version  string
}

// Handler serves the chart builder API. It implements every handler
// interface of this package.
type Handler struct {
	store    storage.Store
	sessions *session.Manager
	writer   *export.Writer
	history  HistoryStore
	presets  *trend.StylePresets
	version  string
}

var (
	_ SessionHandler = (*Handler)(nil)
	_ SourceHandler  = (*Handler)(nil)
	_ TrendHandler   = (*Handler)(nil)
	_ ExportHandler  = (*Handler)(nil)
	_ HealthHandler  = (*Handler)(nil)
)

// NewHandler creates a new API handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		store:    deps.Store,
		sessions: deps.Sessions,
		writer:   deps.Writer,
		history:  deps.History,
		presets:  deps.Presets,
		version:  deps.Version,
	}
}

// lookup resolves the :id path parameter to a session.
func (h *Handler) lookup(c echo.Context) (*session.EditSession, error) {
	id := c.Param("id")
	s, ok := h.sessions.Get(id)
	if !ok {
		return nil, NewNotFoundError("session", id)
	}
	return s, nil
}

// lookupGroup resolves :id and :group.
func (h *Handler) lookupGroup(c echo.Context) (*session.EditSession, models.TrendGroup, error) {
	s, err := h.lookup(c)
	if err != nil {
		return nil, "", err
	}
	group, err := models.ParseTrendGroup(c.Param("group"))
	if err != nil {
		return nil, "", &APIError{Status: 400, Code: "UNKNOWN_GROUP", Message: err.Error()}
	}
	return s, group, nil
}
