package trend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chart-builder/backend/internal/models"
)

const samplePresets = `
default:
  display_type: Line
  color: "#FF808080"

rules:
  - pattern: "AI_*"
    display_type: Discrete Line
    color: "#FF1E90FF"
  - pattern: "AI_9*"
    display_type: Bars
  - pattern: "DI_?"
    display_type: "2"
    color: "FF00FF00"
`

func TestParseStylePresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(samplePresets), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := ParseStylePresets(path)
	if err != nil {
		t.Fatalf("ParseStylePresets failed: %v", err)
	}

	if len(p.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(p.Rules))
	}
	if p.Rules[0].Pattern != "AI_*" {
		t.Errorf("expected first pattern AI_*, got %s", p.Rules[0].Pattern)
	}

	tests := []struct {
		name  string
		dt    models.DisplayType
		color string
	}{
		{"AI_1", models.DisplayDiscreteLine, "#FF1E90FF"},
		{"AI_99", models.DisplayDiscreteLine, "#FF1E90FF"}, // first match wins
		{"DI_1", models.DisplayDigital, "#FF00FF00"},
		{"DI_10", models.DisplayLine, "#FF808080"},
		{"Other", models.DisplayLine, "#FF808080"},
	}
	for _, tt := range tests {
		dt, color, ok := p.Match(tt.name)
		if !ok {
			t.Errorf("%s: expected a match", tt.name)
			continue
		}
		if dt != tt.dt {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.dt, dt)
		}
		if SignedArgbToHex(color) != tt.color {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.color, SignedArgbToHex(color))
		}
	}
}

func TestStylePresets_Apply(t *testing.T) {
	p, err := ParseStylePresetsFromReader(strings.NewReader(`
rules:
  - pattern: "AI_*"
    display_type: Bars
    color: "#FFFF0000"
`))
	if err != nil {
		t.Fatal(err)
	}

	set := NewConfigSet([]string{"AI_1", "DI_1", "AI_2"})
	if n := p.Apply(set); n != 2 {
		t.Errorf("expected 2 changed entries, got %d", n)
	}

	entries := set.Entries()
	if entries[0].DisplayType != models.DisplayBars || entries[2].DisplayType != models.DisplayBars {
		t.Errorf("AI_* entries not styled: %+v", entries)
	}
	if entries[1].DisplayType != models.DisplayLine || entries[1].Color != EncodeDefault() {
		t.Errorf("unmatched entry changed: %+v", entries[1])
	}

	if n := p.Apply(set); n != 0 {
		t.Errorf("second apply should change nothing, changed %d", n)
	}
}

func TestParseStylePresets_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad color":   "rules:\n  - pattern: \"A\"\n    color: \"#123\"\n",
		"bad type":    "rules:\n  - pattern: \"A\"\n    display_type: Spline\n",
		"no pattern":  "rules:\n  - display_type: Bars\n",
		"bad default": "default:\n  color: nope\n",
		"bad yaml":    "rules: [",
	}
	for name, content := range cases {
		if _, err := ParseStylePresetsFromReader(strings.NewReader(content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestStylePresets_MatchAcrossSlash(t *testing.T) {
	p, err := ParseStylePresetsFromReader(strings.NewReader(`
rules:
  - pattern: "Plant*"
    display_type: Digital
  - pattern: "*/Flow"
    display_type: Bars
`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want models.DisplayType
		ok   bool
	}{
		{"Plant/Tank1", models.DisplayDigital, true},
		{"Area/Line 2/Flow", models.DisplayBars, true},
		{"Area/Flow2", 0, false},
	}
	for _, tt := range tests {
		dt, _, ok := p.Match(tt.name)
		if ok != tt.ok || dt != tt.want {
			t.Errorf("Match(%q) = %v, %v; want %v, %v", tt.name, dt, ok, tt.want, tt.ok)
		}
	}
}
