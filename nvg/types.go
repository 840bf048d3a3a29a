package nvg

import "github.com/gogpu/vvg"

// Texture types accepted by RenderCreateTexture.
const (
	TextureAlpha = 0x01
	TextureRGBA  = 0x02
)

// Color is a straight-alpha RGBA color.
type Color struct {
	R, G, B, A float32
}

// Paint is the NanoVG paint layout.
type Paint struct {
	Xform      [6]float32
	Extent     [2]float32
	Radius     float32
	Feather    float32
	InnerColor Color
	OuterColor Color
	Image      int
}

// Scissor is the NanoVG scissor layout. A negative extent disables it.
type Scissor struct {
	Xform  [6]float32
	Extent [2]float32
}

// Vertex is a NanoVG vertex.
type Vertex = vvg.Vertex

// Path is one tessellated NanoVG path.
type Path struct {
	Fill   []Vertex
	Stroke []Vertex
	Closed bool
	NBevel int
	Convex bool
}

// Matrix converts a NanoVG transform.
func Matrix(t [6]float32) vvg.Matrix {
	return vvg.Matrix{
		A: float64(t[0]), B: float64(t[2]), C: float64(t[4]),
		D: float64(t[1]), E: float64(t[3]), F: float64(t[5]),
	}
}

func (c Color) vvg() vvg.Color {
	return vvg.RGBA(c.R, c.G, c.B, c.A)
}

func (p *Paint) vvg() vvg.Paint {
	return vvg.Paint{
		Transform:  Matrix(p.Xform),
		Extent:     p.Extent,
		Radius:     p.Radius,
		Feather:    p.Feather,
		InnerColor: p.InnerColor.vvg(),
		OuterColor: p.OuterColor.vvg(),
		Image:      p.Image,
	}
}

func (s *Scissor) vvg() vvg.Scissor {
	return vvg.Scissor{Transform: Matrix(s.Xform), Extent: s.Extent}
}

// textureFormat maps a NanoVG texture type. Anything but alpha is RGBA.
func textureFormat(typ int) vvg.TextureFormat {
	if typ == TextureAlpha {
		return vvg.TextureAlpha
	}
	return vvg.TextureRGBA
}
