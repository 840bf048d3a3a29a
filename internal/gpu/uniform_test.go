//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/gogpu/vvg"
)

func TestUniformRecordEncode(t *testing.T) {
	u := UniformRecord{
		ViewSize:   [2]float32{800, 600},
		PaintKind:  PaintGradient,
		TexKind:    TexAlpha,
		InnerColor: vvg.RGBA(0.1, 0.2, 0.3, 0.4),
		OuterColor: vvg.RGBA(0.5, 0.6, 0.7, 0.8),
	}
	u.ScissorMat[0][1] = 2
	u.ScissorMat[3][2] = 7
	u.PaintMat[1][0] = 3
	u.PaintMat[3][3] = 9

	buf := make([]byte, uniformRecordSize)
	u.encode(buf)

	floats := []struct {
		off  int
		want float32
	}{
		{0, 800},
		{4, 600},
		{16, 0.1},
		{28, 0.4},
		{32, 0.5},
		{44, 0.8},
		{48 + (0*4+1)*4, 2},
		{48 + (3*4+2)*4, 7},
		{112 + (1*4+0)*4, 3},
		{112 + (3*4+3)*4, 9},
	}
	for _, f := range floats {
		if got := f32At(buf, f.off); got != f.want {
			t.Errorf("float at %d = %v, want %v", f.off, got, f.want)
		}
	}
	if got := u32At(buf, 8); got != uint32(PaintGradient) {
		t.Errorf("paint kind = %d, want %d", got, PaintGradient)
	}
	if got := u32At(buf, 12); got != uint32(TexAlpha) {
		t.Errorf("tex kind = %d, want %d", got, TexAlpha)
	}
}

func TestUniformStride(t *testing.T) {
	tests := []struct {
		alignment uint32
		want      uint64
	}{
		{0, uniformRecordSize},
		{1, uniformRecordSize},
		{16, uniformRecordSize},
		{64, 192},
		{256, 256},
	}
	for _, tt := range tests {
		if got := uniformStride(tt.alignment); got != tt.want {
			t.Errorf("uniformStride(%d) = %d, want %d", tt.alignment, got, tt.want)
		}
	}
}

func TestPaintKindString(t *testing.T) {
	for k, want := range map[PaintKind]string{
		PaintColor:    "color",
		PaintGradient: "gradient",
		PaintTexture:  "texture",
	} {
		if got := k.String(); got != want {
			t.Errorf("PaintKind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
