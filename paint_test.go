package vvg

import (
	"math"
	"testing"
)

func TestColorPaintIsSolid(t *testing.T) {
	p := ColorPaint(RGB(0.2, 0.4, 0.6))
	if !p.InnerColor.Equal(p.OuterColor) {
		t.Error("ColorPaint inner and outer colors differ")
	}
	if p.Image != 0 {
		t.Errorf("Image = %d, want 0", p.Image)
	}
	if !p.Transform.IsIdentity() {
		t.Errorf("Transform = %+v, want identity", p.Transform)
	}
}

func TestLinearGradient(t *testing.T) {
	tests := []struct {
		name           string
		sx, sy, ex, ey float32
		feather        float32
	}{
		{"horizontal", 0, 0, 100, 0, 100},
		{"vertical", 10, 10, 10, 60, 50},
		{"degenerate", 5, 5, 5, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := LinearGradient(tt.sx, tt.sy, tt.ex, tt.ey, RGB(1, 0, 0), RGB(0, 0, 1))
			if p.Feather != tt.feather {
				t.Errorf("Feather = %v, want %v", p.Feather, tt.feather)
			}
			if p.Extent[0] != gradientLarge {
				t.Errorf("Extent[0] = %v, want %v", p.Extent[0], gradientLarge)
			}
			if p.InnerColor.Equal(p.OuterColor) {
				t.Error("gradient colors compare equal")
			}
			// The gradient's linear part is a rotation.
			if det := p.Transform.Determinant(); math.Abs(det-1) > 1e-9 {
				t.Errorf("Determinant = %v, want 1", det)
			}
		})
	}
}

func TestRadialAndBoxGradient(t *testing.T) {
	r := RadialGradient(50, 60, 10, 30, RGB(1, 1, 1), RGB(0, 0, 0))
	if r.Radius != 20 || r.Extent != [2]float32{20, 20} || r.Feather != 20 {
		t.Errorf("RadialGradient = %+v", r)
	}
	if x, y := r.Transform.TransformPoint(0, 0); x != 50 || y != 60 {
		t.Errorf("RadialGradient center = (%v, %v), want (50, 60)", x, y)
	}

	b := BoxGradient(0, 0, 40, 20, 4, 0.5, RGB(1, 1, 1), RGB(0, 0, 0))
	if b.Extent != [2]float32{20, 10} || b.Feather != 1 || b.Radius != 4 {
		t.Errorf("BoxGradient = %+v", b)
	}
}

func TestImagePattern(t *testing.T) {
	p := ImagePattern(10, 20, 64, 32, 0, 7, 0.5)
	if p.Image != 7 {
		t.Errorf("Image = %d, want 7", p.Image)
	}
	if p.Extent != [2]float32{64, 32} {
		t.Errorf("Extent = %v, want [64 32]", p.Extent)
	}
	if p.InnerColor.A != 0.5 {
		t.Errorf("alpha = %v, want 0.5", p.InnerColor.A)
	}
	if x, y := p.Transform.TransformPoint(0, 0); x != 10 || y != 20 {
		t.Errorf("origin = (%v, %v), want (10, 20)", x, y)
	}
}

func TestScissor(t *testing.T) {
	if !NoScissor().Disabled() {
		t.Error("NoScissor() should be disabled")
	}
	s := RectScissor(Identity(), 10, 20, 100, 50)
	if s.Disabled() {
		t.Error("RectScissor should be enabled")
	}
	if s.Extent != [2]float32{50, 25} {
		t.Errorf("Extent = %v, want [50 25]", s.Extent)
	}
	if x, y := s.Transform.TransformPoint(0, 0); x != 60 || y != 45 {
		t.Errorf("center = (%v, %v), want (60, 45)", x, y)
	}
	if neg := RectScissor(Identity(), 0, 0, -5, 10); neg.Extent[0] != 0 {
		t.Errorf("negative width extent = %v, want 0", neg.Extent[0])
	}
}
