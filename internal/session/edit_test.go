package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chart-builder/backend/internal/export"
	"github.com/chart-builder/backend/internal/models"
	"github.com/chart-builder/backend/internal/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{
	ServerVersion:   "5.0.3.117",
	ServerPath:      "/Server 1",
	TrendPathAnalog: "../../../../Trend/Analog Group",
	TrendPathBinary: "../../../../Trend/Binary Group",
}

func strPtr(s string) *string { return &s }

func TestNewEditSession_Defaults(t *testing.T) {
	now := time.Date(2024, 5, 17, 8, 30, 0, 0, time.Local)
	s := NewEditSession("abc", testDefaults, now)

	f := s.Fields()
	assert.Equal(t, "17-05-2024-08-30-00", f.FileName)
	assert.Equal(t, "5.0.3.117", f.ServerVersion)
	assert.Equal(t, "/Server 1", f.ServerPath)
	assert.False(t, f.IsModbus)

	snap := s.Snapshot()
	assert.Equal(t, "abc", snap.ID)
	assert.Empty(t, snap.Analog)
	assert.Empty(t, snap.Binary)
}

func TestEditSession_ApplyExtraction(t *testing.T) {
	s := NewEditSession("abc", testDefaults, time.Now())
	require.NoError(t, s.SetTrendNames(models.GroupBinary, "OLD_1\nOLD_2"))

	s.ApplyExtraction("file-1", &models.ExtractionResult{
		RuntimeVersion: strPtr("6.0.1.2"),
		PathAnalog:     strPtr("/S/Trend"),
		TrendsAnalog:   []string{" AI_1 ", "AI_2"},
		TrendsBinary:   []string{},
		IsModbus:       true,
	})

	snap := s.Snapshot()
	assert.Equal(t, "file-1", snap.SourceFileID)
	assert.Equal(t, "6.0.1.2", snap.Fields.ServerVersion)
	assert.Equal(t, "/Server 1", snap.Fields.ServerPath, "missing value keeps prior")
	assert.Equal(t, "/S/Trend", snap.Fields.TrendPathAnalog)
	assert.Equal(t, "../../../../Trend/Binary Group", snap.Fields.TrendPathBinary)
	assert.True(t, snap.Fields.IsModbus)
	assert.Equal(t, "AI_1\nAI_2", snap.AnalogNames)
	require.Len(t, snap.Analog, 2)
	assert.Equal(t, "AI_1", snap.Analog[0].Name)
	assert.Empty(t, snap.Binary, "binary list replaced by the document's")

	s.ApplyExtraction("file-2", &models.ExtractionResult{IsModbus: false})
	assert.True(t, s.Fields().IsModbus, "modbus flag is only switched on")
}

func TestEditSession_SetTrendNamesRebuilds(t *testing.T) {
	s := NewEditSession("abc", testDefaults, time.Now())
	require.NoError(t, s.SetTrendNames(models.GroupAnalog, "A\nB\n\n"))
	require.NoError(t, s.SetEntry(models.GroupAnalog, 0, models.DisplayBars, "#FF000000"))

	require.NoError(t, s.SetTrendNames(models.GroupAnalog, "A\nB"))
	snap := s.Snapshot()
	require.Len(t, snap.Analog, 2)
	assert.Equal(t, models.DisplayLine, snap.Analog[0].DisplayType)

	err := s.SetTrendNames(models.TrendGroup("digital"), "X")
	assert.True(t, errors.Is(err, ErrUnknownGroup))
}

func TestEditSession_EntryOperations(t *testing.T) {
	s := NewEditSession("abc", testDefaults, time.Now())
	require.NoError(t, s.SetTrendNames(models.GroupBinary, "D1\nD2\nD3"))

	require.NoError(t, s.SetEntryDisplayType(models.GroupBinary, 1, models.DisplayDigital))
	require.NoError(t, s.SetEntryColor(models.GroupBinary, 1, trend.ColorChoice{RGB: []int{0, 0, 255}}))
	require.NoError(t, s.Replicate(models.GroupBinary, 1))

	for _, e := range s.Snapshot().Binary {
		assert.Equal(t, models.DisplayDigital, e.DisplayType)
		assert.Equal(t, "#FF0000FF", trend.SignedArgbToHex(e.Color))
	}

	assert.True(t, errors.Is(s.Replicate(models.GroupBinary, 3), trend.ErrIndexOutOfRange))
	assert.True(t, errors.Is(s.SetEntry(models.GroupAnalog, 0, models.DisplayLine, trend.DefaultColorHex), trend.ErrIndexOutOfRange))
	assert.True(t, errors.Is(s.Replicate(models.TrendGroup("x"), 0), ErrUnknownGroup))
}

func TestEditSession_ApplyPresets(t *testing.T) {
	p, err := trend.ParseStylePresetsFromReader(strings.NewReader("rules:\n  - pattern: \"D*\"\n    display_type: Bars\n"))
	require.NoError(t, err)

	s := NewEditSession("abc", testDefaults, time.Now())
	require.NoError(t, s.SetTrendNames(models.GroupBinary, "D1\nX1"))

	n, err := s.ApplyPresets(models.GroupBinary, p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.DisplayBars, s.Snapshot().Binary[0].DisplayType)
}

func TestEditSession_BuildContext(t *testing.T) {
	s := NewEditSession("abc", testDefaults, time.Now())
	require.NoError(t, s.SetTrendNames(models.GroupAnalog, "AI_1"))
	modbus := true
	s.UpdateFields(FieldsUpdate{IsModbus: &modbus})

	ctx, err := s.BuildContext()
	require.NoError(t, err)
	assert.Equal(t, models.BaseNodeModbusFolder, ctx.BaseNode)
	require.Len(t, ctx.TrendNameAnalog, 1)
	assert.Equal(t, int32(-11179217), ctx.TrendNameAnalog[0].DisplayColor)
	assert.Empty(t, ctx.TrendNameBinary)

	s.UpdateFields(FieldsUpdate{ServerVersion: strPtr("abc.1.2")})
	_, err = s.BuildContext()
	assert.True(t, errors.Is(err, export.ErrVersionParse))
}

func TestEditSession_Export(t *testing.T) {
	dir := t.TempDir()
	w := export.NewWriter(dir, nil)

	s := NewEditSession("abc", testDefaults, time.Now())
	require.NoError(t, s.SetTrendNames(models.GroupAnalog, "AI_1\nAI_2"))
	s.UpdateFields(FieldsUpdate{FileName: strPtr(" plant-a ")})

	name, ctx, err := s.Export(w)
	require.NoError(t, err)
	assert.Equal(t, "plant-a.xml", name)
	assert.Len(t, ctx.TrendNameAnalog, 2)
	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)

	s.UpdateFields(FieldsUpdate{FileName: strPtr("bad/name")})
	_, _, err = s.Export(w)
	var rw *export.RenderOrWriteError
	assert.True(t, errors.As(err, &rw))
	assert.Len(t, s.Snapshot().Analog, 2, "state preserved after a failed export")
}
