//go:build !nogpu

// Package gpu implements the vvg draw-call batching renderer on top of
// gogpu/wgpu's HAL.
//
// # Architecture Overview
//
// A frame flows through five cooperating parts:
//
//	Backend calls -> frameSession -> flush -> emitBatch -> Target
//
//   - frameSession: accumulates draw entries and the shared vertex sequence
//     between Start and Flush/Cancel. Each entry carries one UniformRecord
//     produced by encodePaint.
//   - encodePaint: classifies paints (color, gradient, texture) and packs
//     the scissor and paint transforms into two 4x4 matrices.
//   - growBuffer / descriptorPool: grow-only capacity for the uniform,
//     vertex and fan-index buffers and for per-entry bind groups.
//   - textureRegistry: textures keyed by strictly increasing integer ids,
//     plus a 2x2 dummy bound for untextured entries.
//   - emitBatch: replays the batch into a render pass, switching between
//     the fan, strip and list pipelines only when the variant changes.
//
// Two targets consume the recorded pass:
//
//   - OffscreenTarget: blocking-submit. One command buffer is recorded,
//     submitted, and Flush waits for the GPU to finish.
//   - SurfaceTarget: presentation-synchronized. The frame is submitted and
//     presented without waiting. One frame stays in flight; the next flush
//     waits for it before the shared buffers are rewritten.
//
// # Fan Emulation
//
// WebGPU has no triangle-fan topology. The fan pipeline uses a triangle
// list driven by a shared index buffer holding (0, i, i+1) triples, and
// each fan draw offsets into the vertex buffer with baseVertex, so the
// vertex sequence keeps the layout the frontend produced.
package gpu
