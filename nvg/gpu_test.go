//go:build !nogpu

package nvg_test

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/vvg/gpu"
	"github.com/gogpu/vvg/nvg"
)

func TestAdapterOnNoopDevice(t *testing.T) {
	dev, err := gpu.OpenDevice(gputypes.BackendEmpty)
	if err != nil {
		t.Fatal(err)
	}
	r, err := gpu.NewOffscreen(dev.Device, dev.Queue, 64, 64)
	if err != nil {
		dev.Destroy()
		t.Fatal(err)
	}
	p := nvg.New(r, true, dev).Params()

	img := p.RenderCreateTexture(nvg.TextureRGBA, 2, 2, 0, make([]byte, 16))
	if img <= 0 {
		t.Fatalf("texture handle = %d", img)
	}

	p.RenderViewport(64, 64, 1)
	paint := nvg.Paint{
		Xform:      [6]float32{1, 0, 0, 1, 0, 0},
		Extent:     [2]float32{2, 2},
		InnerColor: nvg.Color{R: 1, G: 1, B: 1, A: 1},
		OuterColor: nvg.Color{R: 1, G: 1, B: 1, A: 1},
		Image:      img,
	}
	scissor := nvg.Scissor{Extent: [2]float32{-1, -1}}
	p.RenderFill(&paint, &scissor, 1, [4]float32{}, []nvg.Path{{
		Fill: []nvg.Vertex{vvg.V(0, 0, 0.5, 1), vvg.V(8, 0, 0.5, 1), vvg.V(8, 8, 0.5, 1)},
	}})
	p.RenderFlush()

	if s := r.Stats(); s.Entries != 1 || s.Draws != 1 {
		t.Errorf("stats = %+v", s)
	}
	p.RenderDelete()
	if dev.Device != nil {
		t.Error("owned device not destroyed by RenderDelete")
	}
}
