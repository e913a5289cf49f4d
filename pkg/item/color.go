package item

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 32-bit ARGB color.
type Color uint32

var namedColors = map[string]Color{
	"transparent": 0x00000000,
	"black":       0xff000000,
	"white":       0xffffffff,
	"red":         0xffff0000,
	"green":       0xff00ff00,
	"blue":        0xff0000ff,
	"gray":        0xff808080,
}

// ParseColor accepts a color name, "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return Color(0xff000000 | uint32(v)), nil
	}
	// rrggbbaa -> aarrggbb
	return Color(uint32(v)>>8 | uint32(v)<<24), nil
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 {
	return uint8(c >> 24)
}

func (c Color) String() string {
	rgb := uint32(c) & 0x00ffffff
	if c.Alpha() == 0xff {
		return fmt.Sprintf("#%06x", rgb)
	}
	return fmt.Sprintf("#%06x%02x", rgb, c.Alpha())
}
