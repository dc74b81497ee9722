package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chart-builder/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() models.ExportContext {
	return models.ExportContext{
		ServerPath:      "/Server 1",
		ServerVersion:   "5.0.3.117",
		TrendPathAnalog: "../Trend/Analog Group",
		TrendPathBinary: "../Trend/Binary Group",
		TrendNameAnalog: []models.TrendRow{
			{Name: "AI_1", DisplayType: models.DisplayDiscreteLine, DisplayColor: -11179217},
		},
		TrendNameBinary: []models.TrendRow{
			{Name: "DI <1>", DisplayType: models.DisplayDigital, DisplayColor: -1},
		},
		BaseNode: models.BaseNodeGenericFolder,
	}
}

func TestRenderer_Render(t *testing.T) {
	out, err := NewRenderer().Render(sampleContext())
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, `<RuntimeVersion Value="5.0.3.117" />`)
	assert.Contains(t, doc, `<ServerFullPath Value="/Server 1" />`)
	assert.Contains(t, doc, `TYPE="system.base.Folder"`)
	assert.Contains(t, doc, `<PI Name="DisplayType" Value="1" />`)
	assert.Contains(t, doc, `<PI Name="DisplayColor" Value="-11179217" />`)
	assert.Contains(t, doc, `<Reference Object="../Trend/Analog Group/AI_1" />`)
	// Names are substituted verbatim.
	assert.Contains(t, doc, `NAME="DI <1>"`)
	assert.Contains(t, doc, `<PI Name="DisplayColor" Value="-1" />`)
}

func TestRenderer_SkipsEmptyGroups(t *testing.T) {
	ctx := sampleContext()
	ctx.TrendNameBinary = nil

	out, err := NewRenderer().Render(ctx)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Binary Chart")
	assert.Contains(t, string(out), "Analog Chart")
}

func TestNewRendererFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{.BaseNode}}|{{range .TrendNameAnalog}}{{.Name}}={{int .DisplayType}},{{.DisplayColor}};{{end}}`), 0644))

	r, err := NewRendererFromFile(path)
	require.NoError(t, err)
	out, err := r.Render(sampleContext())
	require.NoError(t, err)
	assert.Equal(t, "system.base.Folder|AI_1=1,-11179217;", string(out))

	_, err = NewRendererFromFile(filepath.Join(dir, "missing.tmpl"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.tmpl")
	require.NoError(t, os.WriteFile(bad, []byte(`{{.BaseNode`), 0644))
	_, err = NewRendererFromFile(bad)
	assert.Error(t, err)
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	w := NewWriter(dir, nil)

	name, err := w.Write(sampleContext(), " chart-a ")
	require.NoError(t, err)
	assert.Equal(t, "chart-a.xml", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="utf-8"?>`))

	name, err = w.Write(sampleContext(), "chart-b.XML")
	require.NoError(t, err)
	assert.Equal(t, "chart-b.XML", name)
}

func TestWriter_DefaultName(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	w.now = func() time.Time { return time.Date(2024, 3, 9, 7, 5, 2, 0, time.UTC) }

	name, err := w.Write(sampleContext(), "")
	require.NoError(t, err)
	assert.Equal(t, "09-03-2024-07-05-02.xml", name)
}

func TestWriter_Failures(t *testing.T) {
	dir := t.TempDir()

	_, err := NewWriter(dir, nil).Write(sampleContext(), "../escape")
	var rw *RenderOrWriteError
	require.True(t, errors.As(err, &rw))
	assert.Equal(t, "write", rw.Stage)

	path := filepath.Join(dir, "fail.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{.Missing}}`), 0644))
	r, err := NewRendererFromFile(path)
	require.NoError(t, err)
	_, err = NewWriter(dir, r).Write(sampleContext(), "x")
	require.True(t, errors.As(err, &rw))
	assert.Equal(t, "render", rw.Stage)

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	_, err = NewWriter(filepath.Join(blocker, "sub"), nil).Write(sampleContext(), "x")
	require.True(t, errors.As(err, &rw))
	assert.Equal(t, "write", rw.Stage)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Saved as: a.xml", Message("a.xml", nil))
	assert.Equal(t, "ERROR: disk full", Message("", &RenderOrWriteError{Stage: "write", Err: errors.New("disk full")}))
	assert.Equal(t, "ERROR: boom", Message("", errors.New("boom")))
}
