package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chart-builder/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportDoc = `<ObjectSet>
  <MetaInformation>
    <RuntimeVersion Value="6.1.0.5" />
    <ServerFullPath Value="/Server 2" />
  </MetaInformation>
  <ExportedObjects>
    <OI NAME="Trend">
      <OI NAME="Analog Group" TYPE="modbus.folder.DeviceFolder">
        <OI NAME="Flow" TYPE="trend.TrendLog">
          <PI Name="Log"><Reference Object="/Server 2/Plant/Data/Flow" /></PI>
        </OI>
      </OI>
      <OI NAME="Binary Group" />
    </OI>
  </ExportedObjects>
</ObjectSet>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func mustParse(t *testing.T, args ...string) *options {
	t.Helper()
	o, err := parseFlags(args, io.Discard)
	require.NoError(t, err)
	return o
}

func TestRun_FromSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "export.xml", exportDoc)
	out := filepath.Join(dir, "out")

	msg, err := run(mustParse(t, "-source", src, "-out", out, "-name", "flow"))
	require.NoError(t, err)
	assert.Equal(t, "Saved as: flow.xml", msg)

	content, err := os.ReadFile(filepath.Join(out, "flow.xml"))
	require.NoError(t, err)
	doc := string(content)
	// Version 6 servers use the generic folder even for Modbus trends.
	assert.Contains(t, doc, models.BaseNodeGenericFolder)
	assert.Contains(t, doc, "/Server 2/Plant/Trend/Flow")
}

func TestRun_FlagsOverrideExtraction(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "export.xml", exportDoc)
	names := writeFile(t, dir, "binary.txt", "Pump1\r\nPump2")
	out := filepath.Join(dir, "out")

	msg, err := run(mustParse(t,
		"-source", src, "-out", out, "-name", "pumps.XML",
		"-version", "5.2", "-binary", names,
	))
	require.NoError(t, err)
	assert.Equal(t, "Saved as: pumps.XML", msg)

	content, err := os.ReadFile(filepath.Join(out, "pumps.XML"))
	require.NoError(t, err)
	doc := string(content)
	assert.Contains(t, doc, models.BaseNodeModbusFolder)
	assert.Contains(t, doc, "Pump2")
}

func TestRun_IncompatibleSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "broken.xml", "<ObjectSet>")

	_, err := run(mustParse(t, "-source", src, "-out", dir))
	assert.ErrorIs(t, err, errIncompatible)
}

func TestRun_VersionParseError(t *testing.T) {
	dir := t.TempDir()

	msg, err := run(mustParse(t, "-out", dir, "-version", "abc"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(msg, "ERROR: "), msg)
}

func TestRun_Presets(t *testing.T) {
	dir := t.TempDir()
	names := writeFile(t, dir, "analog.txt", "Temp1\nFlow1")
	presets := writeFile(t, dir, "presets.yaml", `
rules:
  - pattern: "Temp*"
    display_type: Bars
`)

	_, err := run(mustParse(t, "-out", dir, "-name", "styled", "-analog", names, "-presets", presets))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "styled.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `<PI Name="DisplayType" Value="3" />`)
}

func TestParseFlags_TracksExplicitFlags(t *testing.T) {
	o := mustParse(t, "-modbus=false", "-out", "x")
	assert.True(t, o.set["modbus"])
	assert.True(t, o.set["out"])
	assert.False(t, o.set["version"])
}
