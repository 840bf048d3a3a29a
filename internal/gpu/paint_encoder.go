//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/vvg"
)

// textureFormatLookup resolves a texture id to its pixel format.
type textureFormatLookup func(id int) (vvg.TextureFormat, bool)

// encodePaint converts a paint, scissor and stroke parameters into the
// uniform record of one draw entry.
//
// fringe must be positive. A paint referencing an unknown texture returns
// vvg.ErrTextureNotFound.
func encodePaint(view [2]float32, paint *vvg.Paint, scissor *vvg.Scissor,
	fringe, strokeWidth float32, lookup textureFormatLookup,
) (UniformRecord, error) {
	u := UniformRecord{
		ViewSize:   view,
		InnerColor: paint.InnerColor,
		OuterColor: paint.OuterColor,
	}

	switch {
	case paint.Image != 0:
		format, ok := lookup(paint.Image)
		if !ok {
			return UniformRecord{}, fmt.Errorf("%w: paint image %d", vvg.ErrTextureNotFound, paint.Image)
		}
		u.PaintKind = PaintTexture
		u.TexKind = TexAlpha
		if format == vvg.TextureRGBA {
			u.TexKind = TexRGBA
		}
	case paint.InnerColor.Equal(paint.OuterColor):
		u.PaintKind = PaintColor
	default:
		u.PaintKind = PaintGradient
	}

	u.ScissorMat = scissorMatrix(scissor, fringe)
	u.ScissorMat[0][3] = paint.Radius
	u.ScissorMat[1][3] = paint.Feather
	u.ScissorMat[2][3] = strokeWidth

	u.PaintMat = inverseBlock(paint.Transform)
	u.PaintMat[3][0] = paint.Extent[0]
	u.PaintMat[3][1] = paint.Extent[1]
	u.PaintMat[0][3] = (strokeWidth*0.5 + fringe*0.5) / fringe

	return u, nil
}

// scissorMatrix packs the inverse scissor transform, its extent and the
// antialiasing scale. A disabled scissor fills the fourth row with ones,
// which the shader evaluates as fully inside.
func scissorMatrix(s *vvg.Scissor, fringe float32) [4][4]float32 {
	if s.Disabled() {
		var m [4][4]float32
		m[3] = [4]float32{1, 1, 1, 1}
		return m
	}
	m := inverseBlock(s.Transform)
	m[3][0] = s.Extent[0]
	m[3][1] = s.Extent[1]
	sx, sy := s.Transform.RowScale()
	m[3][2] = float32(sx) / fringe
	m[3][3] = float32(sy) / fringe
	return m
}

// inverseBlock stores the inverse of t in the upper-left 3x3 block.
// A singular transform packs the identity.
func inverseBlock(t vvg.Matrix) [4][4]float32 {
	inv, _ := t.Invert()
	var m [4][4]float32
	m[0][0] = float32(inv.A)
	m[0][1] = float32(inv.D)
	m[1][0] = float32(inv.B)
	m[1][1] = float32(inv.E)
	m[2][0] = float32(inv.C)
	m[2][1] = float32(inv.F)
	m[2][2] = 1
	return m
}
