package colorspace

import "math"

// RGBToHSL converts c to HSL using the min/max channel algorithm.
//
// When several channels share the maximum, the hue branch is chosen in the
// order R, G, B. Grays (max == min) get hue and saturation 0.
func RGBToHSL(c RGB) HSL {
	r := float64(c.R) / ChannelMax
	g := float64(c.G) / ChannelMax
	b := float64(c.B) / ChannelMax

	maxv := math.Max(r, math.Max(g, b))
	minv := math.Min(r, math.Min(g, b))
	l := (maxv + minv) / 2

	var h, s float64
	if maxv != minv {
		d := maxv - minv
		if l > 0.5 {
			s = d / (2 - maxv - minv)
		} else {
			s = d / (maxv + minv)
		}

		switch maxv {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		case b:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return HSL{
		H: round(h * HueMax),
		S: round(s * PercentMax),
		L: round(l * PercentMax),
	}
}

// HSLToRGB converts c to RGB. Zero saturation yields a gray at the given
// lightness.
func HSLToRGB(c HSL) RGB {
	h := float64(c.H) / HueMax
	s := float64(c.S) / PercentMax
	l := float64(c.L) / PercentMax

	if s == 0 {
		v := round(l * ChannelMax)
		return RGB{R: v, G: v, B: v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return RGB{
		R: round(hueToChannel(p, q, h+1.0/3) * ChannelMax),
		G: round(hueToChannel(p, q, h) * ChannelMax),
		B: round(hueToChannel(p, q, h-1.0/3) * ChannelMax),
	}
}

// hueToChannel evaluates one channel of the HSL piecewise ramp at position t,
// wrapped into the unit interval.
func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}

	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// round rounds half away from zero. All inputs here are non-negative, where
// this matches rounding half up.
func round(x float64) int {
	return int(math.Round(x))
}
