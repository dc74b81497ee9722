package models

import "time"

// Base node schema identifiers used by the chart export.
const (
	BaseNodeModbusFolder  = "modbus.folder.DeviceFolder"
	BaseNodeGenericFolder = "system.base.Folder"
)

// ExportContext is the flat data handed to the output template. Field names
// are the template keys.
type ExportContext struct {
	ServerPath      string     `json:"serverPath" msgpack:"serverPath"`
	ServerVersion   string     `json:"serverVersion" msgpack:"serverVersion"`
	TrendPathBinary string     `json:"trendPathBinary" msgpack:"trendPathBinary"`
	TrendPathAnalog string     `json:"trendPathAnalog" msgpack:"trendPathAnalog"`
	TrendNameAnalog []TrendRow `json:"trendNameAnalog" msgpack:"trendNameAnalog"`
	TrendNameBinary []TrendRow `json:"trendNameBinary" msgpack:"trendNameBinary"`
	BaseNode        string     `json:"baseNode" msgpack:"baseNode"`
}

// ExportRecord is one entry of the export history.
type ExportRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	FileName      string    `json:"fileName"`
	BaseNode      string    `json:"baseNode"`
	ServerPath    string    `json:"serverPath"`
	ServerVersion string    `json:"serverVersion"`
	AnalogCount   int       `json:"analogCount"`
	BinaryCount   int       `json:"binaryCount"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
}
