package colorspace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	rgbPattern = regexp.MustCompile(`^(\d{1,3}),\s*(\d{1,3}),\s*(\d{1,3})$`)
	hslPattern = regexp.MustCompile(`^(\d{1,3}),\s*(\d{1,3})%,\s*(\d{1,3})%$`)
)

// IsValidRGB reports whether text has the form "r, g, b" with every channel
// in [0, 255]. Whitespace is allowed only after the commas.
func IsValidRGB(text string) bool {
	_, ok := ParseRGB(text)
	return ok
}

// IsValidHSL reports whether text has the form "h, s%, l%" with h <= 360 and
// s, l <= 100. The digit pattern already excludes negative values.
func IsValidHSL(text string) bool {
	_, ok := ParseHSL(text)
	return ok
}

// ParseRGB validates text like IsValidRGB and returns the parsed channels.
func ParseRGB(text string) (RGB, bool) {
	vals, ok := matchTriple(rgbPattern, text)
	if !ok {
		return RGB{}, false
	}
	c := RGB{R: vals[0], G: vals[1], B: vals[2]}
	if !c.InRange() {
		return RGB{}, false
	}
	return c, true
}

// ParseHSL validates text like IsValidHSL and returns the parsed components.
func ParseHSL(text string) (HSL, bool) {
	vals, ok := matchTriple(hslPattern, text)
	if !ok {
		return HSL{}, false
	}
	c := HSL{H: vals[0], S: vals[1], L: vals[2]}
	if !c.InRange() {
		return HSL{}, false
	}
	return c, true
}

// matchTriple extracts the three 1-3 digit groups captured by pattern.
func matchTriple(pattern *regexp.Regexp, text string) ([3]int, bool) {
	var vals [3]int
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return vals, false
	}
	for i := range vals {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return vals, false
		}
		vals[i] = v
	}
	return vals, true
}

// String renders c as "r, g, b".
func (c RGB) String() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// String renders c as "h, s%, l%".
func (c HSL) String() string {
	return fmt.Sprintf("%d, %d%%, %d%%", c.H, c.S, c.L)
}

// Parse parses text in the given notation and returns it as RGB.
// Surrounding whitespace is ignored.
func Parse(format Format, text string) (RGB, error) {
	text = strings.TrimSpace(text)

	var (
		c  RGB
		ok bool
	)
	switch format {
	case FormatHex:
		c, ok = HexToRGB(text)
	case FormatRGB:
		c, ok = ParseRGB(text)
	case FormatHSL:
		var hsl HSL
		hsl, ok = ParseHSL(text)
		c = HSLToRGB(hsl)
	default:
		return RGB{}, fmt.Errorf("unknown format %d: %w", int(format), ErrInvalid)
	}

	if !ok {
		return RGB{}, fmt.Errorf("%q is not a valid %s color: %w", text, format, ErrInvalid)
	}
	return c, nil
}

// ParseAny detects the notation of text (hex first, then RGB, then HSL) and
// returns the color along with the detected format.
func ParseAny(text string) (RGB, Format, error) {
	text = strings.TrimSpace(text)
	for _, f := range []Format{FormatHex, FormatRGB, FormatHSL} {
		if c, err := Parse(f, text); err == nil {
			return c, f, nil
		}
	}
	return RGB{}, 0, fmt.Errorf("%q is not a hex, RGB or HSL color: %w", text, ErrInvalid)
}

// DetectFormat guesses the notation of text from its shape alone, so
// "999, 0, 0" is RGB even though it is out of range. Text shaped like
// neither RGB nor HSL is treated as hex.
func DetectFormat(text string) Format {
	text = strings.TrimSpace(text)
	switch {
	case hslPattern.MatchString(text):
		return FormatHSL
	case rgbPattern.MatchString(text):
		return FormatRGB
	default:
		return FormatHex
	}
}

// ParseFormat maps a format name ("hex", "rgb", "hsl", any case) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hex":
		return FormatHex, nil
	case "rgb":
		return FormatRGB, nil
	case "hsl":
		return FormatHSL, nil
	default:
		return 0, fmt.Errorf("unknown color format %q: must be hex, rgb or hsl", name)
	}
}

// Text holds the canonical rendering of one color in all three notations.
type Text struct {
	Hex string `json:"hex" yaml:"hex"`
	RGB string `json:"rgb" yaml:"rgb"`
	HSL string `json:"hsl" yaml:"hsl"`
}

// Describe renders c in all three notations.
func Describe(c RGB) Text {
	return Text{
		Hex: RGBToHex(c),
		RGB: c.String(),
		HSL: RGBToHSL(c).String(),
	}
}
