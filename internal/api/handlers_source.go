// handlers_source.go - Source document upload and extraction
package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chart-builder/backend/internal/parser"
	"github.com/chart-builder/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// uploadSourceRequest is the JSON form of a source upload
type uploadSourceRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64 encoded
}

func (r *uploadSourceRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}

// HandleUploadSource stores an uploaded export document, extracts trend
// information from it and loads the result into the session. An unreadable
// document leaves the session unchanged.
func (h *Handler) HandleUploadSource(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}

	name, data, err := readSource(c)
	if err != nil {
		return err
	}

	info, err := h.store.SaveBytes(name, data)
	if err != nil {
		return NewInternalError("failed to save source document", err)
	}

	result, ok := parser.ExtractEBOExport(bytes.NewReader(data))
	if !ok {
		if err := h.store.SetStatus(info.ID, storage.StatusIncompatible); err != nil {
			fmt.Printf("[Source] Failed to mark %s incompatible: %v\n", info.ID, err)
		}
		return NewIncompatibleSourceError()
	}

	if err := h.store.SetStatus(info.ID, storage.StatusExtracted); err != nil {
		fmt.Printf("[Source] Failed to mark %s extracted: %v\n", info.ID, err)
	}
	s.ApplyExtraction(info.ID, result)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"file":       info,
		"extraction": result,
		"session":    s.Snapshot(),
	})
}

// readSource reads the document from a multipart "file" field or from a
// JSON body with base64 data.
func readSource(c echo.Context) (string, []byte, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		file, err := c.FormFile("file")
		if err != nil {
			return "", nil, NewValidationError("file")
		}
		src, err := file.Open()
		if err != nil {
			return "", nil, NewInternalError("failed to open uploaded file", err)
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			return "", nil, NewInternalError("failed to read uploaded file", err)
		}
		return file.Filename, data, nil
	}

	var req uploadSourceRequest
	if err := c.Bind(&req); err != nil {
		return "", nil, NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return "", nil, err
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return "", nil, NewBadRequestError("invalid base64 data", err)
	}
	return req.Name, data, nil
}

// HandleRecentSources lists recently uploaded source documents
func (h *Handler) HandleRecentSources(c echo.Context) error {
	files, err := h.store.List(20)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	return c.JSON(http.StatusOK, files)
}
