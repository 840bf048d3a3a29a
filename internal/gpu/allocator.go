//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// growBuffer is a GPU buffer whose capacity never shrinks. When a frame
// needs more than the current capacity the buffer is replaced by one of
// exactly the required size; contents are not preserved.
type growBuffer struct {
	device hal.Device
	label  string
	usage  gputypes.BufferUsage

	buf      hal.Buffer
	capacity uint64
	grows    int
}

func newGrowBuffer(device hal.Device, label string, usage gputypes.BufferUsage) *growBuffer {
	return &growBuffer{device: device, label: label, usage: usage | gputypes.BufferUsageCopyDst}
}

// ensure guarantees capacity >= size and reports whether the buffer was
// reallocated.
func (b *growBuffer) ensure(size uint64) (bool, error) {
	if size <= b.capacity {
		return false, nil
	}
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  size,
		Usage: b.usage,
	})
	if err != nil {
		return false, fmt.Errorf("create %s (%d bytes): %w", b.label, size, err)
	}
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
	}
	slogger().Debug("vvg: buffer grown", "buffer", b.label, "from", b.capacity, "to", size)
	b.buf = buf
	b.capacity = size
	b.grows++
	return true, nil
}

func (b *growBuffer) destroy() {
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
}

// fanIndexBuffer holds the shared triangle-fan index pattern
// (0,1,2, 0,2,3, ...) used to draw convex fills with a triangle list.
type fanIndexBuffer struct {
	*growBuffer
	queue hal.Queue

	// vertices is the largest fan the pattern covers.
	vertices int
}

// fanIndexCount returns the number of list indices for a fan of n vertices.
func fanIndexCount(n int) uint32 {
	if n < 3 {
		return 0
	}
	return uint32(3 * (n - 2))
}

// fanIndices builds the index pattern for a fan of n vertices.
func fanIndices(n int) []byte {
	count := fanIndexCount(n)
	out := make([]byte, 4*count)
	k := 0
	for i := 1; i+1 < n; i++ {
		binary.LittleEndian.PutUint32(out[k:], 0)
		binary.LittleEndian.PutUint32(out[k+4:], uint32(i))
		binary.LittleEndian.PutUint32(out[k+8:], uint32(i+1))
		k += 12
	}
	return out
}

// ensure makes the pattern cover fans of up to n vertices.
func (f *fanIndexBuffer) ensure(n int) error {
	if n <= f.vertices {
		return nil
	}
	data := fanIndices(n)
	if _, err := f.growBuffer.ensure(uint64(len(data))); err != nil {
		return err
	}
	if err := f.queue.WriteBuffer(f.buf, 0, data); err != nil {
		return fmt.Errorf("upload %s: %w", f.label, err)
	}
	f.vertices = n
	return nil
}

// descriptorPool hands out one bind group per draw entry.
//
// WebGPU bind groups are individual objects; the pool bounds how many may
// be allocated between resets, mirroring a fixed-size descriptor pool. A
// pool cannot free single sets: reset releases all of them at once.
type descriptorPool struct {
	device hal.Device
	layout hal.BindGroupLayout
	label  string

	capacity int
	sets     []hal.BindGroup

	grows  int
	resets int
}

// prepare readies the pool for n allocations. If n exceeds the capacity
// the pool grows to exactly n, otherwise it is reset. Either way every set
// allocated before is released.
func (p *descriptorPool) prepare(n int) bool {
	p.reset()
	if n <= p.capacity {
		p.resets++
		return false
	}
	slogger().Debug("vvg: descriptor pool grown", "from", p.capacity, "to", n)
	p.capacity = n
	p.grows++
	return true
}

// allocate creates a bind group from the pool.
func (p *descriptorPool) allocate(entries []gputypes.BindGroupEntry) (hal.BindGroup, error) {
	if len(p.sets) >= p.capacity {
		return nil, fmt.Errorf("%w: capacity %d", ErrPoolExhausted, p.capacity)
	}
	g, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   fmt.Sprintf("%s_%d", p.label, len(p.sets)),
		Layout:  p.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("allocate %s set %d: %w", p.label, len(p.sets), err)
	}
	p.sets = append(p.sets, g)
	return g, nil
}

// allocated returns the number of live sets.
func (p *descriptorPool) allocated() int { return len(p.sets) }

func (p *descriptorPool) reset() {
	for _, g := range p.sets {
		p.device.DestroyBindGroup(g)
	}
	clear(p.sets)
	p.sets = p.sets[:0]
}

func (p *descriptorPool) destroy() {
	p.reset()
	p.capacity = 0
}

// Capacities reports the grow-only resource capacities of a renderer.
type Capacities struct {
	UniformBytes   uint64
	VertexBytes    uint64
	FanIndexBytes  uint64
	DescriptorSets int
	BufferGrowths  int
	PoolGrowths    int
	PoolResets     int
}
