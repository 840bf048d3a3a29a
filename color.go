package vvg

import (
	"image/color"
	"math"
)

// Color is a straight-alpha color with components in [0, 1].
// It is laid out exactly as the vec4<f32> the fill shader reads.
type Color struct {
	R, G, B, A float32
}

// RGBA creates a color from float components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB creates an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA8 creates a color from 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// FromColor converts a standard color.Color to a straight-alpha Color.
func FromColor(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

// NRGBA converts the color to a standard color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Equal reports whether both colors are bit-for-bit identical.
// Paint classification depends on this exact comparison: -0 and +0
// differ, and NaN payloads are compared by bits.
func (c Color) Equal(o Color) bool {
	return math.Float32bits(c.R) == math.Float32bits(o.R) &&
		math.Float32bits(c.G) == math.Float32bits(o.G) &&
		math.Float32bits(c.B) == math.Float32bits(o.B) &&
		math.Float32bits(c.A) == math.Float32bits(o.A)
}

func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
