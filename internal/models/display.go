package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DisplayType is the rendering style of a trend's chart line.
type DisplayType int

const (
	DisplayLine         DisplayType = 0
	DisplayDiscreteLine DisplayType = 1
	DisplayDigital      DisplayType = 2
	DisplayBars         DisplayType = 3
)

var displayTypeNames = []string{"Line", "Discrete Line", "Digital", "Bars"}

// DisplayTypeNames returns the display type labels in enum order.
func DisplayTypeNames() []string {
	out := make([]string, len(displayTypeNames))
	copy(out, displayTypeNames)
	return out
}

// Valid reports whether t is one of the four known display types.
func (t DisplayType) Valid() bool {
	return t >= DisplayLine && t <= DisplayBars
}

func (t DisplayType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("DisplayType(%d)", int(t))
	}
	return displayTypeNames[t]
}

// ParseDisplayType accepts a label ("Discrete Line", case-insensitive) or
// the numeric value ("1").
func ParseDisplayType(s string) (DisplayType, error) {
	s = strings.TrimSpace(s)
	for i, name := range displayTypeNames {
		if strings.EqualFold(s, name) {
			return DisplayType(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && DisplayType(n).Valid() {
		return DisplayType(n), nil
	}
	return 0, fmt.Errorf("unknown display type %q", s)
}

// DisplayConfig is the chart style of one trend.
type DisplayConfig struct {
	Name        string      `json:"name"`
	DisplayType DisplayType `json:"displayType"`
	Color       int32       `json:"color"`
}

// TrendRow is one entry of trendNameAnalog / trendNameBinary in the export
// context.
type TrendRow struct {
	Name         string      `json:"name" msgpack:"name"`
	DisplayType  DisplayType `json:"displayType" msgpack:"displayType"`
	DisplayColor int32       `json:"displayColor" msgpack:"displayColor"`
}
