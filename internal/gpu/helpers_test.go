//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a device on the noop backend. Noop buffers keep
// their contents in memory, so uploads can be inspected with readBuffer.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// readBuffer returns a copy of the first size bytes of buf.
func readBuffer(t *testing.T, device hal.Device, buf hal.Buffer, size uint64) []byte {
	t.Helper()
	m, err := device.MapBuffer(buf, 0, size)
	if err != nil {
		t.Fatalf("MapBuffer: %v", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(m.Ptr), size))
	if err := device.UnmapBuffer(buf); err != nil {
		t.Fatalf("UnmapBuffer: %v", err)
	}
	return out
}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func u32At(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

// fakePass records the commands of a render pass as strings.
type fakePass struct {
	calls []string
}

var _ passRecorder = (*fakePass)(nil)

func (p *fakePass) SetPipeline(pipeline hal.RenderPipeline) {
	p.calls = append(p.calls, fmt.Sprintf("pipeline %v", pipeline))
}

func (p *fakePass) SetBindGroup(index uint32, _ hal.BindGroup, _ []uint32) {
	p.calls = append(p.calls, fmt.Sprintf("bind %d", index))
}

func (p *fakePass) SetVertexBuffer(slot uint32, _ hal.Buffer, offset uint64) {
	p.calls = append(p.calls, fmt.Sprintf("vertices %d %d", slot, offset))
}

func (p *fakePass) SetIndexBuffer(_ hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.calls = append(p.calls, fmt.Sprintf("indices %v %d", format, offset))
}

func (p *fakePass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.calls = append(p.calls, fmt.Sprintf("draw %d %d %d %d", vertexCount, instanceCount, firstVertex, firstInstance))
}

func (p *fakePass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.calls = append(p.calls, fmt.Sprintf("drawIndexed %d %d %d %d %d", indexCount, instanceCount, firstIndex, baseVertex, firstInstance))
}

// count returns how many recorded calls start with prefix.
func (p *fakePass) count(prefix string) int {
	n := 0
	for _, c := range p.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// fakePipeline is a distinguishable hal.RenderPipeline for emitter tests.
type fakePipeline struct {
	noop.Resource
	name string
}

func (p *fakePipeline) String() string { return p.name }

func fakePipelines() [variantCount]hal.RenderPipeline {
	var out [variantCount]hal.RenderPipeline
	for v := variantFan; v < variantCount; v++ {
		out[v] = &fakePipeline{name: v.String()}
	}
	return out
}

// triangle returns a path with three fill vertices.
func triangle(x, y float32) vvg.Path {
	return vvg.Path{Fill: []vvg.Vertex{
		vvg.V(x, y, 0.5, 1),
		vvg.V(x+10, y, 0.5, 1),
		vvg.V(x, y+10, 0.5, 1),
	}}
}

// quadPath returns a path with a four vertex fan and a stroke fringe strip.
func quadPath() vvg.Path {
	return vvg.Path{
		Fill: []vvg.Vertex{
			vvg.V(0, 0, 0.5, 1), vvg.V(10, 0, 0.5, 1),
			vvg.V(10, 10, 0.5, 1), vvg.V(0, 10, 0.5, 1),
		},
		Stroke: []vvg.Vertex{
			vvg.V(0, 0, 0, 1), vvg.V(-1, -1, 1, 1),
			vvg.V(10, 0, 0, 1), vvg.V(11, -1, 1, 1),
		},
	}
}
