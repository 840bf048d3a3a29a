//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/vvg"
)

// PaintKind selects the shading branch of the fill shader.
type PaintKind uint32

const (
	PaintColor    PaintKind = 1
	PaintGradient PaintKind = 2
	PaintTexture  PaintKind = 3
)

// String returns the paint kind name.
func (k PaintKind) String() string {
	switch k {
	case PaintColor:
		return "color"
	case PaintGradient:
		return "gradient"
	case PaintTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// TexKind tells the shader how to interpret sampled texels.
type TexKind uint32

const (
	TexNone  TexKind = 0
	TexRGBA  TexKind = 1
	TexAlpha TexKind = 2
)

// uniformRecordSize is the byte size of one encoded UniformRecord.
// Layout (offsets in bytes, 16-byte alignment for vectors and matrix
// columns):
//
//	view_size    vec2<f32>    0
//	paint_kind   u32          8
//	tex_kind     u32         12
//	inner_color  vec4<f32>   16
//	outer_color  vec4<f32>   32
//	scissor_mat  mat4x4<f32> 48
//	paint_mat    mat4x4<f32> 112
const uniformRecordSize = 176

// UniformRecord is the per-entry shader uniform.
//
// The matrices are indexed [i][j] and uploaded i-major, so ScissorMat[i]
// becomes column i of the WGSL mat4x4. The upper-left 3x3 block holds an
// inverse affine transform; the remaining cells carry auxiliary scalars.
type UniformRecord struct {
	ViewSize   [2]float32
	PaintKind  PaintKind
	TexKind    TexKind
	InnerColor vvg.Color
	OuterColor vvg.Color
	ScissorMat [4][4]float32
	PaintMat   [4][4]float32
}

// encode writes the record into dst, which must hold uniformRecordSize bytes.
func (u *UniformRecord) encode(dst []byte) {
	_ = dst[uniformRecordSize-1]
	le := binary.LittleEndian
	putF := func(off int, v float32) { le.PutUint32(dst[off:], math.Float32bits(v)) }
	putColor := func(off int, c vvg.Color) {
		putF(off, c.R)
		putF(off+4, c.G)
		putF(off+8, c.B)
		putF(off+12, c.A)
	}
	putMat := func(off int, m *[4][4]float32) {
		for i := range 4 {
			for j := range 4 {
				putF(off+(i*4+j)*4, m[i][j])
			}
		}
	}

	putF(0, u.ViewSize[0])
	putF(4, u.ViewSize[1])
	le.PutUint32(dst[8:], uint32(u.PaintKind))
	le.PutUint32(dst[12:], uint32(u.TexKind))
	putColor(16, u.InnerColor)
	putColor(32, u.OuterColor)
	putMat(48, &u.ScissorMat)
	putMat(112, &u.PaintMat)
}

// uniformStride returns the distance between consecutive records in the
// uniform buffer. Bind group offsets must be multiples of the device's
// minimum uniform buffer offset alignment.
func uniformStride(alignment uint32) uint64 {
	return alignUp(uniformRecordSize, uint64(max(alignment, 1)))
}

// alignUp rounds n up to the next multiple of a.
func alignUp(n, a uint64) uint64 {
	return (n + a - 1) / a * a
}
