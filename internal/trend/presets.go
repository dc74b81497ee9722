package trend

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/chart-builder/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// StylePresets assigns styles to trends by name pattern.
//
//	default:
//	  display_type: Line
//	  color: "#FF556B2F"
//	rules:
//	  - pattern: "AI_*"
//	    display_type: Discrete Line
//	    color: "#FF1E90FF"
//
// Rules are evaluated in file order and the first match wins. The default
// style, when present, applies to trends no rule matches.
type StylePresets struct {
	Default *PresetStyle `yaml:"default"`
	Rules   []PresetRule `yaml:"rules"`
}

// PresetStyle is a display type and color pair as written in the file.
type PresetStyle struct {
	DisplayType string `yaml:"display_type"`
	Color       string `yaml:"color"`

	displayType models.DisplayType
	color       int32
}

// PresetRule applies a style to trend names matching Pattern ('*' and '?'
// wildcards). '/' is an ordinary character in names, so '*' matches across
// it.
type PresetRule struct {
	Pattern     string `yaml:"pattern"`
	PresetStyle `yaml:",inline"`
}

// ParseStylePresets reads presets from a YAML file.
func ParseStylePresets(filePath string) (*StylePresets, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseStylePresetsFromReader(file)
}

// ParseStylePresetsFromReader reads presets from r and validates every
// style and pattern.
func ParseStylePresetsFromReader(r io.Reader) (*StylePresets, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var p StylePresets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	if p.Default != nil {
		if err := p.Default.resolve(); err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
	}
	for i := range p.Rules {
		rule := &p.Rules[i]
		if rule.Pattern == "" {
			return nil, fmt.Errorf("rule %d: pattern is required", i)
		}
		if _, err := path.Match(rule.Pattern, ""); err != nil {
			return nil, fmt.Errorf("rule %d: bad pattern %q: %w", i, rule.Pattern, err)
		}
		if err := rule.resolve(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return &p, nil
}

func (s *PresetStyle) resolve() error {
	dt := models.DisplayLine
	if s.DisplayType != "" {
		parsed, err := models.ParseDisplayType(s.DisplayType)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDisplayType, err)
		}
		dt = parsed
	}
	color := EncodeDefault()
	if s.Color != "" {
		parsed, err := HexToSignedArgb(s.Color)
		if err != nil {
			return err
		}
		color = parsed
	}
	s.displayType = dt
	s.color = color
	return nil
}

// slashFree stands in for '/' so path.Match does not treat it as a
// separator.
const slashFree = "\x00"

func matchName(pattern, name string) bool {
	ok, _ := path.Match(strings.ReplaceAll(pattern, "/", slashFree), strings.ReplaceAll(name, "/", slashFree))
	return ok
}

// Match returns the style for a trend name.
func (p *StylePresets) Match(name string) (models.DisplayType, int32, bool) {
	for _, rule := range p.Rules {
		if matchName(rule.Pattern, name) {
			return rule.displayType, rule.color, true
		}
	}
	if p.Default != nil {
		return p.Default.displayType, p.Default.color, true
	}
	return 0, 0, false
}

// Apply styles every entry of set that has a matching rule and returns the
// number of entries whose style changed.
func (p *StylePresets) Apply(set *ConfigSet) int {
	changed := 0
	for i := range set.entries {
		e := &set.entries[i]
		dt, color, ok := p.Match(e.Name)
		if !ok {
			continue
		}
		if e.DisplayType != dt || e.Color != color {
			e.DisplayType = dt
			e.Color = color
			changed++
		}
	}
	return changed
}
