//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"
)

// FrameStats describes the last flushed frame.
type FrameStats struct {
	EmitStats
	Capacities

	// Vertices is the number of vertices uploaded.
	Vertices int

	// Mode is the submission policy of the target.
	Mode RenderMode
}

// Renderer implements [vvg.Backend] on a wgpu hal device.
//
// It owns its textures, buffers, pipelines and descriptor pool. The device,
// the queue and a target built on a borrowed surface or view are not
// destroyed by the renderer; a target passed to NewRenderer is.
//
// Renderer is safe for concurrent use, but frames are strictly sequential:
// a frame opened by one goroutine is shared by all of them.
type Renderer struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	target Target
	opts   vvg.Options

	textures  *textureRegistry
	pipelines *pipelineSet
	uniforms  *growBuffer
	vertices  *growBuffer
	fan       *fanIndexBuffer
	pool      *descriptorPool

	stride uint64

	session frameSession

	// Scratch upload buffers, reused between frames.
	uniformScratch []byte
	vertexScratch  []byte

	stats     FrameStats
	destroyed bool
}

var _ vvg.Backend = (*Renderer)(nil)

// NewRenderer creates a renderer drawing into target. The renderer takes
// ownership of target.
func NewRenderer(device hal.Device, queue hal.Queue, target Target, opts vvg.Options) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if target == nil {
		return nil, fmt.Errorf("vvg/gpu: nil target")
	}
	label := opts.Label
	r := &Renderer{
		device: device,
		queue:  queue,
		target: target,
		opts:   opts,
		stride: uniformStride(gputypes.DefaultLimits().MinUniformBufferOffsetAlignment),
	}

	textures, err := newTextureRegistry(device, queue, label)
	if err != nil {
		return nil, err
	}
	r.textures = textures

	pipelines, err := newPipelineSet(device, label, target.Format(), opts.EdgeAA, opts.PrecompileShaders)
	if err != nil {
		textures.destroy()
		return nil, err
	}
	r.pipelines = pipelines

	r.uniforms = newGrowBuffer(device, label+"_uniforms", gputypes.BufferUsageUniform)
	r.vertices = newGrowBuffer(device, label+"_vertices", gputypes.BufferUsageVertex)
	r.fan = &fanIndexBuffer{
		growBuffer: newGrowBuffer(device, label+"_fan_indices", gputypes.BufferUsageIndex),
		queue:      queue,
	}
	r.pool = &descriptorPool{device: device, layout: pipelines.bindLayout, label: label + "_paint_set"}

	r.session.edgeAA = opts.EdgeAA
	r.session.lookup = textures.formatOf

	w, h := target.Size()
	slogger().Debug("vvg: renderer created",
		"mode", target.Mode(), "format", target.Format(), "width", w, "height", h,
		"edgeAA", opts.EdgeAA, "uniformStride", r.stride)
	return r, nil
}

// Target returns the render target.
func (r *Renderer) Target() Target { return r.target }

// Options returns the configuration the renderer was created with.
func (r *Renderer) Options() vvg.Options { return r.opts }

// Start implements [vvg.Backend].
func (r *Renderer) Start(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return vvg.ErrDestroyed
	}
	return r.session.start(width, height)
}

// Fill implements [vvg.Backend].
func (r *Renderer) Fill(paint vvg.Paint, scissor vvg.Scissor, fringe float32, _ vvg.Bounds, paths []vvg.Path) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return vvg.ErrDestroyed
	}
	return r.session.fill(&paint, &scissor, fringe, paths)
}

// Stroke implements [vvg.Backend].
func (r *Renderer) Stroke(paint vvg.Paint, scissor vvg.Scissor, fringe, strokeWidth float32, paths []vvg.Path) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return vvg.ErrDestroyed
	}
	return r.session.stroke(&paint, &scissor, fringe, strokeWidth, paths)
}

// Triangles implements [vvg.Backend].
func (r *Renderer) Triangles(paint vvg.Paint, scissor vvg.Scissor, vertices []vvg.Vertex) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return vvg.ErrDestroyed
	}
	return r.session.triangles(&paint, &scissor, vertices)
}

// Cancel implements [vvg.Backend]. No GPU state is touched.
func (r *Renderer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.cancel()
}

// Flush implements [vvg.Backend].
//
// The batch is uploaded and recorded into a single render pass. The
// session is closed whether or not the flush succeeds. Flushing without
// an open frame does nothing.
func (r *Renderer) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return vvg.ErrDestroyed
	}
	defer r.session.clear()

	entries := r.session.entries
	if len(entries) == 0 {
		return nil
	}
	if err := r.target.Begin(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	if err := r.reserve(); err != nil {
		return err
	}
	if err := r.writeUniforms(); err != nil {
		return err
	}

	res := emitResources{
		pipelines:  r.pipelines.pipelines,
		vertices:   r.vertices.buf,
		fanIndices: r.fan.buf,
	}
	var emitted EmitStats
	err := r.target.Render(func(pass hal.RenderPassEncoder) {
		emitted = emitBatch(pass, &res, entries)
	})
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	r.stats = FrameStats{
		EmitStats:  emitted,
		Capacities: r.capacities(),
		Vertices:   len(r.session.vertices),
		Mode:       r.target.Mode(),
	}
	slogger().Debug("vvg: frame flushed",
		"entries", emitted.Entries, "draws", emitted.Draws,
		"pipelineSwitches", emitted.PipelineSwitches, "vertices", r.stats.Vertices)
	return nil
}

// reserve grows every per-frame resource to fit the open batch.
func (r *Renderer) reserve() error {
	n := len(r.session.entries)
	if _, err := r.uniforms.ensure(uint64(n) * r.stride); err != nil {
		return err
	}
	// Keep at least one vertex so the buffer exists for entries without
	// geometry.
	vertexBytes := max(len(r.session.vertices), 1) * vvg.VertexSize
	if _, err := r.vertices.ensure(uint64(vertexBytes)); err != nil {
		return err
	}
	if err := r.fan.ensure(r.session.maxFanVertices()); err != nil {
		return err
	}
	r.pool.prepare(n)
	return nil
}

// writeUniforms encodes one uniform record per entry at its aligned slot,
// allocates the entry's bind group and uploads uniforms and vertices.
func (r *Renderer) writeUniforms() error {
	entries := r.session.entries
	size := int(uint64(len(entries)) * r.stride)
	if cap(r.uniformScratch) < size {
		r.uniformScratch = make([]byte, size)
	}
	r.uniformScratch = r.uniformScratch[:size]
	clear(r.uniformScratch)

	for i := range entries {
		e := &entries[i]
		offset := uint64(i) * r.stride
		e.uniform.encode(r.uniformScratch[offset:])
		// The texture may have been deleted after the entry was recorded.
		view, err := r.textures.viewFor(e.texture)
		if err != nil {
			return err
		}
		bg, err := r.pool.allocate(r.pipelines.bindEntries(r.uniforms.buf, offset, view))
		if err != nil {
			return err
		}
		e.bindGroup = bg
	}

	if err := r.queue.WriteBuffer(r.uniforms.buf, 0, r.uniformScratch); err != nil {
		return fmt.Errorf("upload uniforms: %w", err)
	}
	r.vertexScratch = r.session.vertexBytes(r.vertexScratch)
	if len(r.vertexScratch) > 0 {
		if err := r.queue.WriteBuffer(r.vertices.buf, 0, r.vertexScratch); err != nil {
			return fmt.Errorf("upload vertices: %w", err)
		}
	}
	return nil
}

func (r *Renderer) capacities() Capacities {
	return Capacities{
		UniformBytes:   r.uniforms.capacity,
		VertexBytes:    r.vertices.capacity,
		FanIndexBytes:  r.fan.capacity,
		DescriptorSets: r.pool.capacity,
		BufferGrowths:  r.uniforms.grows + r.vertices.grows + r.fan.grows,
		PoolGrowths:    r.pool.grows,
		PoolResets:     r.pool.resets,
	}
}

// Stats returns statistics of the last flushed frame with the current
// resource capacities.
func (r *Renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	if !r.destroyed {
		s.Capacities = r.capacities()
	}
	return s
}

// CreateTexture implements [vvg.Backend].
func (r *Renderer) CreateTexture(format vvg.TextureFormat, width, height int, data []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return 0, vvg.ErrDestroyed
	}
	t, err := r.textures.create(format, width, height, data)
	if err != nil {
		return 0, err
	}
	return t.id, nil
}

// DeleteTexture implements [vvg.Backend]. A presented frame still in
// flight may sample the texture, so it is retired first.
func (r *Renderer) DeleteTexture(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return false
	}
	if _, ok := r.textures.lookup(id); !ok {
		return false
	}
	if err := r.target.Begin(); err != nil {
		slogger().Warn("vvg: wait for in-flight frame before texture delete", "id", id, "err", err)
	}
	return r.textures.remove(id)
}

// UpdateTexture implements [vvg.Backend].
func (r *Renderer) UpdateTexture(id, x, y, w, h int, data []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return false, vvg.ErrDestroyed
	}
	return r.textures.update(id, x, y, w, h, data)
}

// TextureSize implements [vvg.Backend].
func (r *Renderer) TextureSize(id int) (width, height int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return 0, 0, false
	}
	t, ok := r.textures.lookup(id)
	if !ok {
		return 0, 0, false
	}
	return t.width, t.height, true
}

// Texture returns the texture with the given id for direct updates.
func (r *Renderer) Texture(id int) (*Texture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil, false
	}
	return r.textures.lookup(id)
}

// Destroy implements [vvg.Backend]. It is safe to call more than once.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.session.clear()

	// The target waits for its in-flight frame before the buffers the
	// frame reads are released.
	r.target.Destroy()
	r.pool.destroy()
	r.fan.destroy()
	r.vertices.destroy()
	r.uniforms.destroy()
	r.pipelines.destroy()
	r.textures.destroy()
	slogger().Debug("vvg: renderer destroyed")
}
