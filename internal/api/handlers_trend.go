// handlers_trend.go - Per-trend display configuration handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/chart-builder/backend/internal/models"
	"github.com/chart-builder/backend/internal/trend"
	"github.com/labstack/echo/v4"
)

type setNamesRequest struct {
	Names string `json:"names"` // newline separated
}

// setEntryRequest changes one trend. DisplayType accepts a label or its
// number. Color is either a hex string or an RGB triple; both empty keeps
// the current color.
type setEntryRequest struct {
	DisplayType string `json:"displayType"`
	Color       string `json:"color"`
	RGB         []int  `json:"rgb"`
}

type replicateRequest struct {
	SourceIndex *int `json:"sourceIndex"`
}

// HandleSetTrendNames replaces a group's trend names. Display configs of the
// group are rebuilt with defaults.
func (h *Handler) HandleSetTrendNames(c echo.Context) error {
	s, group, err := h.lookupGroup(c)
	if err != nil {
		return err
	}

	var req setNamesRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if err := s.SetTrendNames(group, req.Names); err != nil {
		return fromDomainError(err)
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

// HandleSetEntry updates display type and/or color of one trend
func (h *Handler) HandleSetEntry(c echo.Context) error {
	s, group, err := h.lookupGroup(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return NewBadRequestError("invalid index", err)
	}

	var req setEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	choice := trend.ColorChoice{Hex: req.Color, RGB: req.RGB}
	if _, err := choice.Resolve(0); err != nil {
		return fromDomainError(err)
	}

	if req.DisplayType != "" {
		dt, err := models.ParseDisplayType(req.DisplayType)
		if err != nil {
			return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: err.Error()}
		}
		if err := s.SetEntryDisplayType(group, index, dt); err != nil {
			return fromDomainError(err)
		}
	}

	if err := s.SetEntryColor(group, index, choice); err != nil {
		return fromDomainError(err)
	}

	return c.JSON(http.StatusOK, s.Snapshot())
}

// HandleReplicate copies one trend's style to every trend of its group
func (h *Handler) HandleReplicate(c echo.Context) error {
	s, group, err := h.lookupGroup(c)
	if err != nil {
		return err
	}

	var req replicateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.SourceIndex == nil {
		return NewValidationError("sourceIndex")
	}

	if err := s.Replicate(group, *req.SourceIndex); err != nil {
		return fromDomainError(err)
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

// HandleApplyPresets styles a group from the loaded style presets
func (h *Handler) HandleApplyPresets(c echo.Context) error {
	s, group, err := h.lookupGroup(c)
	if err != nil {
		return err
	}
	if h.presets == nil {
		return NewServiceUnavailableError("no style presets loaded")
	}

	changed, err := s.ApplyPresets(group, h.presets)
	if err != nil {
		return fromDomainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"changed": changed,
		"session": s.Snapshot(),
	})
}

// HandleDisplayTypes lists the display type labels in numeric order
func (h *Handler) HandleDisplayTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"displayTypes": models.DisplayTypeNames(),
		"defaultColor": trend.DefaultColorHex,
	})
}
