package pnm

import "math"

// Pixel is an RGB pixel with 8-bit channels.
//
// Pixel implements color.Color and is always fully opaque.
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r = uint32(p.R)
	r |= r << 8
	g = uint32(p.G)
	g |= g << 8
	b = uint32(p.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// HueUndefined is the hue of an achromatic pixel (r == g == b).
const HueUndefined = -1.0

// HSLPixel is a pixel in HSL color space. S and L are in [0,1]; H is in
// [0,1) or HueUndefined.
type HSLPixel struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Achromatic reports whether the hue is undefined.
func (h HSLPixel) Achromatic() bool {
	return h.H == HueUndefined
}

// Negative returns p with every channel complemented (v becomes 255-v).
func Negative(p Pixel) Pixel {
	return Pixel{R: p.R ^ 0xff, G: p.G ^ 0xff, B: p.B ^ 0xff}
}

// RGBToHSL converts an RGB pixel to HSL.
//
// With M, m the largest and smallest channel and C = M - m:
//
//	C == 0          h undefined
//	M == r          h = ((g - b) / C) mod 6
//	M == b          h = (r - g) / C + 4
//	otherwise (g)   h = (b - r) / C + 2
//
// h is then divided by 6, l = (M + m) / 510 and s = C / (1 - |2l - 1|) / 255.
func RGBToHSL(p Pixel) HSLPixel {
	r, g, b := float64(p.R), float64(p.G), float64(p.B)
	mx := math.Max(r, math.Max(g, b))
	mn := math.Min(r, math.Min(g, b))
	c := mx - mn

	var out HSLPixel
	switch {
	case c == 0:
		out.H = HueUndefined
	case mx == r:
		out.H = wrapHue((g-b)/c) / 6
	case mx == b:
		out.H = ((r-g)/c + 4) / 6
	default:
		out.H = ((b-r)/c + 2) / 6
	}

	out.L = (mx + mn) / 510
	if c != 0 {
		out.S = c / (1 - math.Abs(2*out.L-1)) / 255
	}
	return out
}

// wrapHue folds h into [0,6) by whole turns.
func wrapHue(h float64) float64 {
	for h < 0 {
		h += 6
	}
	for h >= 6 {
		h -= 6
	}
	return h
}

// HSLToRGB converts an HSL pixel back to RGB. Channels are truncated toward
// zero after clamping to [0,255]; RGBToHSL followed by HSLToRGB reproduces
// the input within one unit per channel.
func HSLToRGB(in HSLPixel) Pixel {
	c := (1 - math.Abs(2*in.L-1)) * in.S

	var r, g, b float64
	if !in.Achromatic() {
		hh := in.H * 6
		if in.H == 1 {
			hh = 0
		}
		folded := hh
		if hh > 4 {
			folded = hh - 4
		} else if hh > 2 {
			folded = hh - 2
		}
		x := c * (1 - math.Abs(folded-1))

		switch {
		case hh < 1:
			r, g, b = c, x, 0
		case hh < 2:
			r, g, b = x, c, 0
		case hh < 3:
			r, g, b = 0, c, x
		case hh < 4:
			r, g, b = 0, x, c
		case hh < 5:
			r, g, b = x, 0, c
		default:
			r, g, b = c, 0, x
		}
	}

	m := in.L - 0.5*c
	return Pixel{R: toChannel(r + m), G: toChannel(g + m), B: toChannel(b + m)}
}

// toChannel scales a unit value to 0-255 and truncates.
func toChannel(v float64) uint8 {
	v *= 255
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
