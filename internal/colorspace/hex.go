package colorspace

import (
	"regexp"
	"strconv"
	"strings"
)

var hexPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// HexToRGB parses a 6-digit hex color with an optional leading '#'.
// Shorthand (#fff), alpha (#rrggbbaa) and anything that is not exactly six
// hex digits is rejected rather than partially parsed.
func HexToRGB(text string) (RGB, bool) {
	clean := strings.TrimPrefix(text, "#")
	if !hexPattern.MatchString(clean) {
		return RGB{}, false
	}

	return RGB{
		R: parseHexByte(clean[0:2]),
		G: parseHexByte(clean[2:4]),
		B: parseHexByte(clean[4:6]),
	}, true
}

// parseHexByte parses a 2-digit group already checked by hexPattern.
func parseHexByte(s string) int {
	v, _ := strconv.ParseUint(s, 16, 8)
	return int(v)
}

// RGBToHex formats c as "#rrggbb" in lowercase. Channels are clamped to
// [0, 255] first.
func RGBToHex(c RGB) string {
	var sb strings.Builder
	sb.Grow(7)
	sb.WriteByte('#')
	for _, ch := range [3]int{c.R, c.G, c.B} {
		writeHexByte(&sb, clampChannel(ch))
	}
	return sb.String()
}

const hexDigits = "0123456789abcdef"

func writeHexByte(sb *strings.Builder, v int) {
	sb.WriteByte(hexDigits[v>>4])
	sb.WriteByte(hexDigits[v&0x0f])
}
