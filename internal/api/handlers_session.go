// handlers_session.go - Editing session handlers
package api

import (
	"net/http"

	"github.com/chart-builder/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// HandleCreateSession starts a new editing session with default fields
func (h *Handler) HandleCreateSession(c echo.Context) error {
	s := h.sessions.Create()
	return c.JSON(http.StatusCreated, s.Snapshot())
}

// HandleListSessions lists all sessions, most recently used first
func (h *Handler) HandleListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.List())
}

// HandleGetSession returns the current state of a session
func (h *Handler) HandleGetSession(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

// HandleDeleteSession discards a session
func (h *Handler) HandleDeleteSession(c echo.Context) error {
	id := c.Param("id")
	if !h.sessions.Delete(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleUpdateFields changes the free-text fields present in the body
func (h *Handler) HandleUpdateFields(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	var req session.FieldsUpdate
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	s.UpdateFields(req)
	return c.JSON(http.StatusOK, s.Snapshot())
}
