//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pipelineVariant is one of the three pipelines sharing the fill shader.
type pipelineVariant int

const (
	variantNone pipelineVariant = iota

	// variantFan draws convex fills.
	variantFan

	// variantStrip draws antialiasing fringes and strokes.
	variantStrip

	// variantList draws flat triangle lists.
	variantList

	variantCount
)

// String returns the variant name.
func (v pipelineVariant) String() string {
	switch v {
	case variantFan:
		return "fan"
	case variantStrip:
		return "strip"
	case variantList:
		return "list"
	default:
		return "none"
	}
}

// passRecorder is the subset of hal.RenderPassEncoder used to replay a
// batch.
type passRecorder interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

var _ passRecorder = (hal.RenderPassEncoder)(nil)

// emitResources are the GPU objects a batch is replayed against.
type emitResources struct {
	pipelines  [variantCount]hal.RenderPipeline
	vertices   hal.Buffer
	fanIndices hal.Buffer
}

// EmitStats counts the commands recorded for one frame.
type EmitStats struct {
	Entries          int
	Draws            int
	PipelineBinds    int
	PipelineSwitches int
}

// emitter tracks the bound pipeline while replaying a batch.
type emitter struct {
	pass  passRecorder
	res   *emitResources
	bound pipelineVariant

	indexBound bool
	stats      EmitStats
}

// emitBatch records the draws of entries into pass. The vertex buffer is
// bound once, each entry binds its own bind group, and a pipeline is only
// bound when the next draw needs a different variant.
func emitBatch(pass passRecorder, res *emitResources, entries []drawEntry) EmitStats {
	e := emitter{pass: pass, res: res}
	pass.SetVertexBuffer(0, res.vertices, 0)

	for i := range entries {
		entry := &entries[i]
		pass.SetBindGroup(0, entry.bindGroup, nil)
		e.stats.Entries++

		if entry.isList {
			if entry.triangles.count > 0 {
				e.use(variantList)
				pass.Draw(uint32(entry.triangles.count), 1, uint32(entry.triangles.offset), 0)
				e.stats.Draws++
			}
			continue
		}
		for _, p := range entry.paths {
			if n := fanIndexCount(p.fillCount); n > 0 {
				e.use(variantFan)
				e.bindFanIndices()
				pass.DrawIndexed(n, 1, 0, int32(p.fillOffset), 0)
				e.stats.Draws++
			}
			if p.strokeCount > 0 {
				e.use(variantStrip)
				pass.Draw(uint32(p.strokeCount), 1, uint32(p.strokeOffset), 0)
				e.stats.Draws++
			}
		}
	}
	return e.stats
}

// use binds the pipeline for v unless it is already bound.
func (e *emitter) use(v pipelineVariant) {
	if e.bound == v {
		return
	}
	if e.bound != variantNone {
		e.stats.PipelineSwitches++
	}
	e.pass.SetPipeline(e.res.pipelines[v])
	e.bound = v
	e.stats.PipelineBinds++
}

func (e *emitter) bindFanIndices() {
	if e.indexBound {
		return
	}
	e.pass.SetIndexBuffer(e.res.fanIndices, gputypes.IndexFormatUint32, 0)
	e.indexBound = true
}
