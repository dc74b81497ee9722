// handlers_export.go - Export context and output handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/chart-builder/backend/internal/export"
	"github.com/chart-builder/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// HandleGetContext returns the values the chart template is filled with
func (h *Handler) HandleGetContext(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	ctx, err := s.BuildContext()
	if err != nil {
		return fromDomainError(err)
	}
	return c.JSON(http.StatusOK, ctx)
}

// HandleGetContextMsgpack returns the export context in MessagePack format
func (h *Handler) HandleGetContextMsgpack(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	ctx, err := s.BuildContext()
	if err != nil {
		return fromDomainError(err)
	}

	data, err := msgpack.Marshal(ctx)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleExport renders the session into a chart document in the output
// directory. The attempt is recorded in the export history when enabled.
func (h *Handler) HandleExport(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	fileName, ctx, err := s.Export(h.writer)
	h.record(c, s.ID(), fileName, ctx, err)
	if err != nil {
		return fromDomainError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"fileName": fileName,
		"message":  export.Message(fileName, nil),
		"context":  ctx,
	})
}

func (h *Handler) record(c echo.Context, sessionID, fileName string, ctx models.ExportContext, exportErr error) {
	if h.history == nil {
		return
	}

	rec := &models.ExportRecord{
		SessionID:     sessionID,
		FileName:      fileName,
		BaseNode:      ctx.BaseNode,
		ServerPath:    ctx.ServerPath,
		ServerVersion: ctx.ServerVersion,
		AnalogCount:   len(ctx.TrendNameAnalog),
		BinaryCount:   len(ctx.TrendNameBinary),
		Success:       exportErr == nil,
		Message:       export.Message(fileName, exportErr),
	}
	if err := h.history.Record(c.Request().Context(), rec); err != nil {
		c.Logger().Warnf("failed to record export: %v", err)
	}
}

// HandleRecentExports lists the most recent export attempts
func (h *Handler) HandleRecentExports(c echo.Context) error {
	if h.history == nil {
		return NewServiceUnavailableError("export history is disabled")
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return NewValidationError("limit")
		}
		limit = n
	}

	records, err := h.history.Recent(c.Request().Context(), limit)
	if err != nil {
		return NewInternalError("failed to read export history", err)
	}
	return c.JSON(http.StatusOK, records)
}
