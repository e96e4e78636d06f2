package export

import (
	"image/color"
	"strconv"
	"strings"
)

// parseHexColor accepts #rgb, #rrggbb and #rrggbbaa.
func parseHexColor(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}) + "ff"
	case 6:
		s += "ff"
	case 8:
	default:
		return color.NRGBA{}, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, true
}

// cssColor returns s when it is a valid hex color and fallback otherwise, so
// stored values never reach a style attribute unchecked.
func cssColor(s, fallback string) string {
	if _, ok := parseHexColor(s); ok {
		return s
	}
	return fallback
}

func colorOr(s string, fallback color.NRGBA) color.NRGBA {
	if c, ok := parseHexColor(s); ok {
		return c
	}
	return fallback
}
