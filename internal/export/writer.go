package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chart-builder/backend/internal/models"
)

// FileNameLayout is the default output name: DD-MM-YYYY-HH-MM-SS.
const FileNameLayout = "02-01-2006-15-04-05"

// RenderOrWriteError reports a failure while rendering or writing an export.
type RenderOrWriteError struct {
	Stage string // "render" or "write"
	Err   error
}

func (e *RenderOrWriteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *RenderOrWriteError) Unwrap() error {
	return e.Err
}

// DefaultFileName returns the timestamp name used when none is given.
func DefaultFileName(now time.Time) string {
	return now.Format(FileNameLayout)
}

// Writer renders export contexts into files of one output directory.
type Writer struct {
	outputDir string
	renderer  *Renderer
	now       func() time.Time
}

// NewWriter creates a writer. A nil renderer uses the built-in template.
func NewWriter(outputDir string, renderer *Renderer) *Writer {
	if renderer == nil {
		renderer = NewRenderer()
	}
	return &Writer{
		outputDir: outputDir,
		renderer:  renderer,
		now:       time.Now,
	}
}

// OutputDir returns the directory exports are written to.
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// Write renders ctx and stores it as <name>.xml, returning the file name.
func (w *Writer) Write(ctx models.ExportContext, name string) (string, error) {
	fileName, err := w.fileName(name)
	if err != nil {
		return "", &RenderOrWriteError{Stage: "write", Err: err}
	}

	content, err := w.renderer.Render(ctx)
	if err != nil {
		return "", &RenderOrWriteError{Stage: "render", Err: err}
	}

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", &RenderOrWriteError{Stage: "write", Err: err}
	}

	path := filepath.Join(w.outputDir, fileName)
	if err := writeFile(path, content); err != nil {
		return "", &RenderOrWriteError{Stage: "write", Err: err}
	}

	fmt.Printf("[Export] wrote %s (%d bytes, base node %s)\n", path, len(content), ctx.BaseNode)
	return fileName, nil
}

func (w *Writer) fileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFileName(w.now())
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if !strings.EqualFold(filepath.Ext(name), ".xml") {
		name += ".xml"
	}
	return name, nil
}

func writeFile(path string, content []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return err
	}
	return f.Close()
}

// Message is the operator-facing outcome of an export.
func Message(fileName string, err error) string {
	if err != nil {
		var rw *RenderOrWriteError
		if errors.As(err, &rw) {
			return fmt.Sprintf("ERROR: %v", rw.Err)
		}
		return fmt.Sprintf("ERROR: %v", err)
	}
	return fmt.Sprintf("Saved as: %s", fileName)
}
