// Package trend holds the per-trend chart style model: display configs, the
// ordered config set of a trend group, style presets and the ARGB color codec.
package trend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultColorHex is the dark olive every new trend starts with.
const DefaultColorHex = "#FF556B2F"

// ErrInvalidColor is returned for malformed hex colors or RGB components.
var ErrInvalidColor = errors.New("invalid color")

const defaultARGB uint32 = 0xFF556B2F

// EncodeDefault returns DefaultColorHex as a signed ARGB value (-11179217).
func EncodeDefault() int32 {
	v := defaultARGB
	return int32(v)
}

// HexToSignedArgb parses an 8-digit AARRGGBB string, with or without a
// leading '#', into the signed decimal form the chart schema stores.
func HexToSignedArgb(hex string) (int32, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 8 {
		return 0, fmt.Errorf("%w: %q is not an AARRGGBB value", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidColor, hex, err)
	}
	n := int64(v)
	if n > 0x7FFFFFFF {
		n -= 0x100000000
	}
	return int32(n), nil
}

// SignedArgbToHex formats a signed ARGB value as "#AARRGGBB".
func SignedArgbToHex(v int32) string {
	return fmt.Sprintf("#%08X", uint32(v))
}

// RGBToHex returns an opaque "#FFRRGGBB" color for 0-255 components.
func RGBToHex(r, g, b int) (string, error) {
	for _, c := range [...]int{r, g, b} {
		if c < 0 || c > 255 {
			return "", fmt.Errorf("%w: component %d out of range 0-255", ErrInvalidColor, c)
		}
	}
	return fmt.Sprintf("#FF%02X%02X%02X", r, g, b), nil
}

// ColorChoice is what a color picker hands back: a formatted hex string, an
// RGB triple, or nothing when the picker was cancelled.
type ColorChoice struct {
	Hex string `json:"hex,omitempty"`
	RGB []int  `json:"rgb,omitempty"`
}

// Cancelled reports whether the picker returned no color.
func (c ColorChoice) Cancelled() bool {
	return c.Hex == "" && len(c.RGB) == 0
}

// Resolve returns the chosen color as signed ARGB, or current when the
// choice was cancelled.
func (c ColorChoice) Resolve(current int32) (int32, error) {
	if c.Cancelled() {
		return current, nil
	}
	if len(c.RGB) > 0 {
		if len(c.RGB) != 3 {
			return current, fmt.Errorf("%w: expected 3 RGB components, got %d", ErrInvalidColor, len(c.RGB))
		}
		hex, err := RGBToHex(c.RGB[0], c.RGB[1], c.RGB[2])
		if err != nil {
			return current, err
		}
		return HexToSignedArgb(hex)
	}
	return HexToSignedArgb(c.Hex)
}
