package vvg

import "math"

// gradientLarge is the half-extent used to make linear gradients
// effectively infinite along their normal.
const gradientLarge = 1e5

// Paint describes how a fill, stroke or triangle batch is shaded.
//
// A paint with a nonzero Image samples that texture; otherwise a paint
// whose InnerColor equals OuterColor is a solid color and anything else is
// a gradient evaluated over a rounded box of half-size Extent.
type Paint struct {
	// Transform maps paint space to canvas space.
	Transform Matrix

	// Extent is the half-size of the gradient box or the image size.
	Extent [2]float32

	// Radius is the corner radius of box gradients.
	Radius float32

	// Feather controls the width of the gradient transition.
	Feather float32

	InnerColor Color
	OuterColor Color

	// Image is the texture id, 0 for none.
	Image int
}

// Scissor clips drawing to a transformed rectangle.
//
// An extent below -0.5 in either dimension disables clipping.
type Scissor struct {
	Transform Matrix
	Extent    [2]float32
}

// Bounds is an axis aligned rectangle given as minX, minY, maxX, maxY.
type Bounds [4]float32

// ColorPaint returns a solid color paint.
func ColorPaint(c Color) Paint {
	return Paint{
		Transform:  Identity(),
		Feather:    1,
		InnerColor: c,
		OuterColor: c,
	}
}

// LinearGradient returns a paint that blends from inner at (sx, sy) to
// outer at (ex, ey).
func LinearGradient(sx, sy, ex, ey float32, inner, outer Color) Paint {
	dx, dy := float64(ex-sx), float64(ey-sy)
	d := math.Hypot(dx, dy)
	if d > 0.0001 {
		dx /= d
		dy /= d
	} else {
		dx, dy = 0, 1
	}
	return Paint{
		Transform: Matrix{
			A: dy, B: dx, C: float64(sx) - dx*gradientLarge,
			D: -dx, E: dy, F: float64(sy) - dy*gradientLarge,
		},
		Extent:     [2]float32{gradientLarge, float32(gradientLarge + d*0.5)},
		Feather:    float32(math.Max(1, d)),
		InnerColor: inner,
		OuterColor: outer,
	}
}

// RadialGradient returns a paint that blends from inner at radius inr to
// outer at radius outr around (cx, cy).
func RadialGradient(cx, cy, inr, outr float32, inner, outer Color) Paint {
	r := (inr + outr) * 0.5
	return Paint{
		Transform:  Translate(float64(cx), float64(cy)),
		Extent:     [2]float32{r, r},
		Radius:     r,
		Feather:    max(1, outr-inr),
		InnerColor: inner,
		OuterColor: outer,
	}
}

// BoxGradient returns a paint shaped as a feathered rounded rectangle,
// useful for drop shadows and highlights.
func BoxGradient(x, y, w, h, r, f float32, inner, outer Color) Paint {
	return Paint{
		Transform:  Translate(float64(x+w*0.5), float64(y+h*0.5)),
		Extent:     [2]float32{w * 0.5, h * 0.5},
		Radius:     r,
		Feather:    max(1, f),
		InnerColor: inner,
		OuterColor: outer,
	}
}

// ImagePattern returns a paint that repeats texture image with its top-left
// corner at (ox, oy), size (w, h) and the given rotation in radians.
func ImagePattern(ox, oy, w, h, angle float32, image int, alpha float32) Paint {
	m := Rotate(float64(angle))
	m.C, m.F = float64(ox), float64(oy)
	white := RGBA(1, 1, 1, alpha)
	return Paint{
		Transform:  m,
		Extent:     [2]float32{w, h},
		InnerColor: white,
		OuterColor: white,
		Image:      image,
	}
}

// NoScissor returns a scissor that clips nothing.
func NoScissor() Scissor {
	return Scissor{Extent: [2]float32{-1, -1}}
}

// RectScissor returns a scissor for the axis aligned rectangle (x, y, w, h)
// transformed by m.
func RectScissor(m Matrix, x, y, w, h float32) Scissor {
	w, h = max(0, w), max(0, h)
	return Scissor{
		Transform: m.Multiply(Translate(float64(x+w*0.5), float64(y+h*0.5))),
		Extent:    [2]float32{w * 0.5, h * 0.5},
	}
}

// Disabled reports whether the scissor clips nothing.
func (s Scissor) Disabled() bool {
	return s.Extent[0] < -0.5 || s.Extent[1] < -0.5
}
