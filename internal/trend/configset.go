package trend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chart-builder/backend/internal/models"
)

var (
	// ErrIndexOutOfRange is returned when a trend index is outside the set.
	ErrIndexOutOfRange = errors.New("trend index out of range")

	// ErrInvalidDisplayType is returned for display types outside the enum.
	ErrInvalidDisplayType = errors.New("invalid display type")
)

// ConfigSet is the ordered list of display configs of one trend group.
// Index order is the input order of the trend names and is used both for
// replication and for the export list.
type ConfigSet struct {
	entries []models.DisplayConfig
}

// NewConfigSet builds a set from names with default styles.
func NewConfigSet(names []string) *ConfigSet {
	s := &ConfigSet{}
	s.Rebuild(names)
	return s
}

// Rebuild discards every entry and creates one default entry per non-blank
// trimmed name.
func (s *ConfigSet) Rebuild(names []string) {
	s.entries = make([]models.DisplayConfig, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s.entries = append(s.entries, models.DisplayConfig{
			Name:        name,
			DisplayType: models.DisplayLine,
			Color:       EncodeDefault(),
		})
	}
}

// RebuildFromText rebuilds the set from newline separated trend names.
func (s *ConfigSet) RebuildFromText(text string) {
	s.Rebuild(SplitNames(text))
}

// SplitNames splits operator text into lines, tolerating CRLF.
func SplitNames(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Len returns the number of entries.
func (s *ConfigSet) Len() int {
	return len(s.entries)
}

// Entry returns the entry at index.
func (s *ConfigSet) Entry(index int) (models.DisplayConfig, error) {
	if err := s.checkIndex(index); err != nil {
		return models.DisplayConfig{}, err
	}
	return s.entries[index], nil
}

// Entries returns a copy of all entries in index order.
func (s *ConfigSet) Entries() []models.DisplayConfig {
	out := make([]models.DisplayConfig, len(s.entries))
	copy(out, s.entries)
	return out
}

// Names returns the trend names in index order.
func (s *ConfigSet) Names() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Name
	}
	return out
}

// SetEntry sets both display type and color of one entry. The entry is left
// untouched if any argument is invalid.
func (s *ConfigSet) SetEntry(index int, displayType models.DisplayType, colorHex string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if !displayType.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDisplayType, int(displayType))
	}
	color, err := HexToSignedArgb(colorHex)
	if err != nil {
		return err
	}
	s.entries[index].DisplayType = displayType
	s.entries[index].Color = color
	return nil
}

// SetDisplayType changes only the display type of one entry.
func (s *ConfigSet) SetDisplayType(index int, displayType models.DisplayType) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if !displayType.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDisplayType, int(displayType))
	}
	s.entries[index].DisplayType = displayType
	return nil
}

// SetColor applies a color picker result to one entry. A cancelled choice
// keeps the current color.
func (s *ConfigSet) SetColor(index int, choice ColorChoice) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	color, err := choice.Resolve(s.entries[index].Color)
	if err != nil {
		return err
	}
	s.entries[index].Color = color
	return nil
}

// Replicate copies display type and color of the entry at sourceIndex to
// every other entry. Names are never touched.
func (s *ConfigSet) Replicate(sourceIndex int) error {
	if err := s.checkIndex(sourceIndex); err != nil {
		return err
	}
	if len(s.entries) < 2 {
		return nil
	}
	src := s.entries[sourceIndex]
	for i := range s.entries {
		if i == sourceIndex {
			continue
		}
		s.entries[i].DisplayType = src.DisplayType
		s.entries[i].Color = src.Color
	}
	return nil
}

// ExportList returns the rows for the export context in index order.
func (s *ConfigSet) ExportList() []models.TrendRow {
	rows := make([]models.TrendRow, len(s.entries))
	for i, e := range s.entries {
		rows[i] = models.TrendRow{
			Name:         e.Name,
			DisplayType:  e.DisplayType,
			DisplayColor: e.Color,
		}
	}
	return rows
}

func (s *ConfigSet) checkIndex(index int) error {
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.entries))
	}
	return nil
}
