// Package colorspace converts between hex, RGB and HSL color notations.
//
// All values are sRGB with 8-bit channels; HSL uses integer degrees and
// percents. Conversions round to the nearest integer, so RGB -> HSL -> RGB is
// lossy by a few units for colors that do not sit on an HSL percent step.
package colorspace

import (
	"errors"
	"image/color"
)

const (
	// ChannelMax is the largest value of an RGB channel.
	ChannelMax = 255
	// HueMax is the largest hue in degrees.
	HueMax = 360
	// PercentMax is the largest saturation or lightness.
	PercentMax = 100
)

// ErrInvalid is returned (wrapped) when text is not a valid color in any
// supported notation.
var ErrInvalid = errors.New("invalid color")

// Format identifies one of the three text notations.
type Format int

const (
	FormatHex Format = iota
	FormatRGB
	FormatHSL
)

// String returns the display name used in UI labels and "Invalid <Format>"
// markers.
func (f Format) String() string {
	switch f {
	case FormatHex:
		return "Hex"
	case FormatRGB:
		return "RGB"
	case FormatHSL:
		return "HSL"
	default:
		return "Unknown"
	}
}

// RGB is an 8-bit sRGB color. Channels are kept as int so out-of-range
// intermediates can be clamped by the formatter.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HSL is a hue/saturation/lightness color with H in [0,360] and S, L in
// [0,100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// RGBA implements color.Color. The color is always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(clampChannel(c.R))
	g = uint32(clampChannel(c.G))
	b = uint32(clampChannel(c.B))
	r |= r << 8
	g |= g << 8
	b |= b << 8
	a = 0xffff
	return
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clampChannel(c.R)),
		G: uint8(clampChannel(c.G)),
		B: uint8(clampChannel(c.B)),
		A: 0xff,
	}
}

// InRange reports whether every channel is within [0, 255].
func (c RGB) InRange() bool {
	return inRange(c.R, ChannelMax) && inRange(c.G, ChannelMax) && inRange(c.B, ChannelMax)
}

// InRange reports whether the hue is within [0, 360] and saturation and
// lightness within [0, 100].
func (c HSL) InRange() bool {
	return inRange(c.H, HueMax) && inRange(c.S, PercentMax) && inRange(c.L, PercentMax)
}

func inRange(v, hi int) bool {
	return v >= 0 && v <= hi
}

// clampChannel clamps an int value to the channel range [0, 255].
func clampChannel(x int) int {
	if x < 0 {
		return 0
	}
	if x > ChannelMax {
		return ChannelMax
	}
	return x
}
