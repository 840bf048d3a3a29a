//go:build !nogpu

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"
)

// RenderMode identifies how a target hands a recorded frame to the GPU.
type RenderMode int

const (
	// RenderModeBlocking records one command buffer, submits it, and waits
	// for the device to finish before returning.
	RenderModeBlocking RenderMode = iota

	// RenderModePresent submits and presents without waiting. The next
	// frame waits for the previous one before its buffers are rewritten.
	RenderModePresent
)

// String returns the mode name.
func (m RenderMode) String() string {
	if m == RenderModePresent {
		return "present"
	}
	return "blocking-submit"
}

// Target receives the render pass of each flushed frame.
type Target interface {
	// Mode reports how frames are submitted.
	Mode() RenderMode

	// Format is the color format the pipelines render into.
	Format() gputypes.TextureFormat

	// Size returns the target size in pixels.
	Size() (width, height uint32)

	// Begin blocks until GPU work of earlier frames no longer reads the
	// renderer's buffers. Called before a flush uploads anything.
	Begin() error

	// Render records one render pass through record and submits it.
	Render(record func(pass hal.RenderPassEncoder)) error

	// Destroy releases resources owned by the target.
	Destroy()
}

// clearValue converts a vvg color to a render pass clear value.
func clearValue(c vvg.Color) gputypes.Color {
	return gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// waitForSubmission blocks until submission index has completed. There is
// no timeout: a hung device blocks the caller.
func waitForSubmission(device hal.Device, queue hal.Queue, index uint64) error {
	if queue.PollCompleted() >= index {
		return nil
	}
	if err := device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for submission %d: %w", index, err)
	}
	return nil
}

// beginPass starts the single render pass of a frame with a full-size
// viewport and scissor rect.
func beginPass(encoder hal.CommandEncoder, label string, view hal.TextureView, clear gputypes.Color, w, h uint32) hal.RenderPassEncoder {
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	pass.SetViewport(0, 0, float32(w), float32(h), 0, 1)
	pass.SetScissorRect(0, 0, w, h)
	return pass
}

// colorRange covers the single mip level and layer of a target texture.
var colorRange = hal.TextureRange{
	Aspect:          gputypes.TextureAspectAll,
	MipLevelCount:   1,
	ArrayLayerCount: 1,
}

// OffscreenTarget renders into a texture with the blocking-submit policy:
// Render returns only after the GPU finished the frame.
type OffscreenTarget struct {
	device hal.Device
	queue  hal.Queue
	label  string

	width  uint32
	height uint32
	format gputypes.TextureFormat
	clear  gputypes.Color

	tex  hal.Texture
	view hal.TextureView

	// owned is false when the view was supplied by the caller.
	owned bool

	submissions uint64
}

// NewOffscreenTarget creates a target backed by a new RGBA8 texture that
// can be read back with ReadPixels.
func NewOffscreenTarget(device hal.Device, queue hal.Queue, width, height uint32, opts vvg.Options) (*OffscreenTarget, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if width == 0 || height == 0 {
		return nil, ErrTargetSize
	}
	t := &OffscreenTarget{
		device: device,
		queue:  queue,
		label:  opts.Label + "_offscreen",
		width:  width,
		height: height,
		format: gputypes.TextureFormatRGBA8Unorm,
		clear:  clearValue(opts.ClearColor),
		owned:  true,
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         t.label + "_color",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen color texture: %w", err)
	}
	t.tex = tex
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         t.label + "_color_view",
		Format:        t.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create offscreen color view: %w", err)
	}
	t.view = view
	return t, nil
}

// NewOffscreenTargetForView creates a blocking target rendering into a
// view owned by the caller. The view is never destroyed by the target.
func NewOffscreenTargetForView(device hal.Device, queue hal.Queue, view hal.TextureView,
	width, height uint32, format gputypes.TextureFormat, opts vvg.Options,
) (*OffscreenTarget, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if width == 0 || height == 0 {
		return nil, ErrTargetSize
	}
	return &OffscreenTarget{
		device: device,
		queue:  queue,
		label:  opts.Label + "_offscreen",
		width:  width,
		height: height,
		format: format,
		clear:  clearValue(opts.ClearColor),
		view:   view,
	}, nil
}

// Mode implements Target.
func (t *OffscreenTarget) Mode() RenderMode { return RenderModeBlocking }

// Format implements Target.
func (t *OffscreenTarget) Format() gputypes.TextureFormat { return t.format }

// Size implements Target.
func (t *OffscreenTarget) Size() (uint32, uint32) { return t.width, t.height }

// Begin implements Target. Earlier frames already completed in Render.
func (t *OffscreenTarget) Begin() error { return nil }

// Submissions returns the number of frames submitted to the GPU.
func (t *OffscreenTarget) Submissions() uint64 { return t.submissions }

// Render implements Target.
func (t *OffscreenTarget) Render(record func(pass hal.RenderPassEncoder)) error {
	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: t.label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding(t.label + "_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := beginPass(encoder, t.label+"_pass", t.view, t.clear, t.width, t.height)
	record(pass)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	return t.submitAndWait(cmdBuf)
}

// submitAndWait submits one command buffer and blocks until it completes.
func (t *OffscreenTarget) submitAndWait(cmdBuf hal.CommandBuffer) error {
	// Off-screen work must not consume swapchain semaphores of a host
	// compositor sharing the queue.
	t.queue.SetSwapchainSuppressed(true)
	index, err := t.queue.Submit([]hal.CommandBuffer{cmdBuf})
	t.queue.SetSwapchainSuppressed(false)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	t.submissions++
	return waitForSubmission(t.device, t.queue, index)
}

// ReadPixels copies the target texture back to the CPU as tightly packed
// RGBA8 rows. Only targets that own their texture can be read.
func (t *OffscreenTarget) ReadPixels() ([]byte, error) {
	if !t.owned {
		return nil, fmt.Errorf("vvg/gpu: target renders into a borrowed view")
	}
	bytesPerRow := t.width * 4
	// Buffer copies require rows aligned to 256 bytes.
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(t.height)

	staging, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: t.label + "_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer t.device.DestroyBuffer(staging)

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: t.label + "_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding(t.label + "_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Range:   colorRange,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: alignedBytesPerRow, RowsPerImage: t.height},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Range:   colorRange,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	if err := t.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	mapping, err := t.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(mapping.Ptr), stagingSize)
	pixels := make([]byte, uint64(bytesPerRow)*uint64(t.height))
	for row := range t.height {
		copy(pixels[row*bytesPerRow:(row+1)*bytesPerRow], src[row*alignedBytesPerRow:])
	}
	if err := t.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return pixels, nil
}

// Destroy implements Target.
func (t *OffscreenTarget) Destroy() {
	if !t.owned {
		t.view = nil
		return
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// inflightFrame is a presented frame whose GPU work may still run.
type inflightFrame struct {
	index   uint64
	encoder hal.CommandEncoder
	view    hal.TextureView
}

// SurfaceTarget renders into an already configured presentation surface.
// Frames are submitted and presented without waiting; Begin waits for
// the previous frame before the renderer rewrites its shared buffers.
//
// The surface, device and queue are borrowed and never destroyed.
type SurfaceTarget struct {
	device  hal.Device
	queue   hal.Queue
	surface hal.Surface
	label   string

	width  uint32
	height uint32
	format gputypes.TextureFormat
	clear  gputypes.Color

	inflight  *inflightFrame
	presented uint64
}

// NewSurfaceTarget wraps a configured surface of the given size and format.
func NewSurfaceTarget(device hal.Device, queue hal.Queue, surface hal.Surface,
	width, height uint32, format gputypes.TextureFormat, opts vvg.Options,
) (*SurfaceTarget, error) {
	if device == nil || queue == nil || surface == nil {
		return nil, ErrNilDevice
	}
	if width == 0 || height == 0 {
		return nil, ErrTargetSize
	}
	return &SurfaceTarget{
		device:  device,
		queue:   queue,
		surface: surface,
		label:   opts.Label + "_surface",
		width:   width,
		height:  height,
		format:  format,
		clear:   clearValue(opts.ClearColor),
	}, nil
}

// Mode implements Target.
func (s *SurfaceTarget) Mode() RenderMode { return RenderModePresent }

// Format implements Target.
func (s *SurfaceTarget) Format() gputypes.TextureFormat { return s.format }

// Size implements Target.
func (s *SurfaceTarget) Size() (uint32, uint32) { return s.width, s.height }

// Presented returns the number of frames presented.
func (s *SurfaceTarget) Presented() uint64 { return s.presented }

// Begin implements Target by retiring the in-flight frame.
func (s *SurfaceTarget) Begin() error {
	if s.inflight == nil {
		return nil
	}
	if err := waitForSubmission(s.device, s.queue, s.inflight.index); err != nil {
		return err
	}
	s.retire()
	return nil
}

func (s *SurfaceTarget) retire() {
	f := s.inflight
	if f == nil {
		return
	}
	s.device.DestroyTextureView(f.view)
	f.encoder.Destroy()
	s.inflight = nil
}

// Render implements Target.
func (s *SurfaceTarget) Render(record func(pass hal.RenderPassEncoder)) error {
	acquired, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoFrame, err)
	}
	if acquired == nil || acquired.Texture == nil {
		return ErrNoFrame
	}
	if acquired.Suboptimal {
		slogger().Debug("vvg: surface texture is suboptimal")
	}
	frame := acquired.Texture

	view, err := s.device.CreateTextureView(frame, &hal.TextureViewDescriptor{
		Label:         s.label + "_frame_view",
		Format:        s.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.surface.DiscardTexture(frame)
		return fmt.Errorf("create surface view: %w", err)
	}

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: s.label + "_encoder",
	})
	if err != nil {
		s.device.DestroyTextureView(view)
		s.surface.DiscardTexture(frame)
		return fmt.Errorf("create command encoder: %w", err)
	}
	fail := func(err error) error {
		encoder.Destroy()
		s.device.DestroyTextureView(view)
		s.surface.DiscardTexture(frame)
		return err
	}
	if err := encoder.BeginEncoding(s.label + "_frame"); err != nil {
		return fail(fmt.Errorf("begin encoding: %w", err))
	}

	pass := beginPass(encoder, s.label+"_pass", view, s.clear, s.width, s.height)
	record(pass)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fail(fmt.Errorf("end encoding: %w", err))
	}
	index, err := s.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fail(fmt.Errorf("submit: %w", err))
	}
	s.inflight = &inflightFrame{index: index, encoder: encoder, view: view}

	if err := s.queue.Present(s.surface, frame, nil); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	s.presented++
	return nil
}

// Destroy implements Target. The surface itself is left to its owner.
func (s *SurfaceTarget) Destroy() {
	if s.inflight != nil {
		if err := waitForSubmission(s.device, s.queue, s.inflight.index); err != nil {
			slogger().Warn("vvg: wait for in-flight frame", "err", err)
		}
		s.retire()
	}
}
