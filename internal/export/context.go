// Package export assembles the chart export context, renders it through the
// chart template and writes the resulting document.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chart-builder/backend/internal/models"
	"github.com/chart-builder/backend/internal/trend"
)

// ModbusSchemaMaxMajor is the first server major version that no longer
// needs the Modbus device folder as base node.
const ModbusSchemaMaxMajor = 6

// ErrVersionParse is returned when the leading segment of a server version
// is not an integer.
var ErrVersionParse = errors.New("cannot parse server version")

// Input is everything needed to build an export context. Analog and Binary
// must already be built; a nil set exports no rows.
type Input struct {
	ServerPath      string
	ServerVersion   string
	TrendPathAnalog string
	TrendPathBinary string
	IsModbus        bool
	Analog          *trend.ConfigSet
	Binary          *trend.ConfigSet
}

// MajorVersion returns the integer before the first '.' of version.
func MajorVersion(version string) (int, error) {
	lead, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	lead = strings.TrimSpace(lead)
	if lead == "" {
		return 0, fmt.Errorf("%w: %q has no leading number", ErrVersionParse, version)
	}
	major, err := strconv.Atoi(lead)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrVersionParse, version)
	}
	return major, nil
}

// SelectBaseNode picks the schema base node. Modbus exports for servers
// older than version 6 are rooted in a Modbus device folder; everything
// else uses the generic folder. The version is validated in both cases.
func SelectBaseNode(isModbus bool, version string) (string, error) {
	major, err := MajorVersion(version)
	if err != nil {
		return "", err
	}
	if isModbus && major < ModbusSchemaMaxMajor {
		return models.BaseNodeModbusFolder, nil
	}
	return models.BaseNodeGenericFolder, nil
}

// Build assembles the export context.
func Build(in Input) (models.ExportContext, error) {
	version := strings.TrimSpace(in.ServerVersion)
	baseNode, err := SelectBaseNode(in.IsModbus, version)
	if err != nil {
		return models.ExportContext{}, err
	}

	return models.ExportContext{
		ServerPath:      strings.TrimSpace(in.ServerPath),
		ServerVersion:   version,
		TrendPathBinary: strings.TrimSpace(in.TrendPathBinary),
		TrendPathAnalog: strings.TrimSpace(in.TrendPathAnalog),
		TrendNameAnalog: rows(in.Analog),
		TrendNameBinary: rows(in.Binary),
		BaseNode:        baseNode,
	}, nil
}

func rows(set *trend.ConfigSet) []models.TrendRow {
	if set == nil {
		return []models.TrendRow{}
	}
	return set.ExportList()
}
