package models

import (
	"fmt"
	"strings"
	"time"
)

// TrendGroup identifies one of the two trend groups of an export.
type TrendGroup string

const (
	GroupAnalog TrendGroup = "analog"
	GroupBinary TrendGroup = "binary"
)

// ParseTrendGroup maps "analog"/"binary" (any case) to a TrendGroup.
func ParseTrendGroup(s string) (TrendGroup, error) {
	switch TrendGroup(strings.ToLower(strings.TrimSpace(s))) {
	case GroupAnalog:
		return GroupAnalog, nil
	case GroupBinary:
		return GroupBinary, nil
	}
	return "", fmt.Errorf("unknown trend group %q", s)
}

// SessionFields are the free-text values an operator edits next to the
// trend lists.
type SessionFields struct {
	FileName        string `json:"fileName"`
	ServerVersion   string `json:"serverVersion"`
	ServerPath      string `json:"serverPath"`
	TrendPathAnalog string `json:"trendPathAnalog"`
	TrendPathBinary string `json:"trendPathBinary"`
	IsModbus        bool   `json:"isModbus"`
}

// SessionSnapshot is a point-in-time copy of an editing session.
type SessionSnapshot struct {
	ID           string          `json:"id"`
	SourceFileID string          `json:"sourceFileId,omitempty"`
	Fields       SessionFields   `json:"fields"`
	AnalogNames  string          `json:"analogNames"`
	BinaryNames  string          `json:"binaryNames"`
	Analog       []DisplayConfig `json:"analog"`
	Binary       []DisplayConfig `json:"binary"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastAccessed time.Time       `json:"lastAccessed"`
}
