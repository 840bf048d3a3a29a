//go:build !nogpu

// Package gpu creates vvg renderers on wgpu hal devices.
//
// A renderer draws into one of two kinds of target:
//
//   - an off-screen texture ([NewOffscreen], [NewFromProvider]): every
//     Flush submits one command buffer and blocks until the GPU is done,
//     after which the pixels can be read back with [ReadImage];
//   - a presentation surface ([NewSurface]): Flush submits and presents
//     without waiting, and the next frame waits for the previous one.
//
// Devices, queues and surfaces passed in are borrowed; the renderer only
// releases what it created itself.
//
// Usage:
//
//	dev, err := gpu.OpenDevice(gputypes.BackendVulkan)
//	if err != nil {
//	    return err
//	}
//	defer dev.Destroy()
//
//	r, err := gpu.NewOffscreen(dev.Device, dev.Queue, 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer r.Destroy()
package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	gpuimpl "github.com/gogpu/vvg/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// Renderer is a [vvg.Backend] drawing with a wgpu hal device.
type Renderer = gpuimpl.Renderer

// FrameStats describes the last flushed frame of a Renderer.
type FrameStats = gpuimpl.FrameStats

// Texture is a texture owned by a Renderer.
type Texture = gpuimpl.Texture

// NewOffscreen creates a renderer drawing into a new width×height RGBA8
// texture. Flush blocks until the frame is complete.
func NewOffscreen(device hal.Device, queue hal.Queue, width, height int, opts ...vvg.Option) (*Renderer, error) {
	o := vvg.ApplyOptions(opts...)
	w, h, err := targetSize(width, height)
	if err != nil {
		return nil, err
	}
	target, err := gpuimpl.NewOffscreenTarget(device, queue, w, h, o)
	if err != nil {
		return nil, err
	}
	r, err := gpuimpl.NewRenderer(device, queue, target, o)
	if err != nil {
		target.Destroy()
		return nil, err
	}
	return r, nil
}

// NewOffscreenView creates a renderer drawing into a texture view owned by
// the caller, such as a host application's frame texture.
func NewOffscreenView(device hal.Device, queue hal.Queue, view hal.TextureView,
	width, height int, format gputypes.TextureFormat, opts ...vvg.Option,
) (*Renderer, error) {
	o := vvg.ApplyOptions(opts...)
	w, h, err := targetSize(width, height)
	if err != nil {
		return nil, err
	}
	target, err := gpuimpl.NewOffscreenTargetForView(device, queue, view, w, h, format, o)
	if err != nil {
		return nil, err
	}
	return gpuimpl.NewRenderer(device, queue, target, o)
}

// NewSurface configures surface for width×height presentation in format
// and creates a renderer presenting to it. The surface stays owned by the
// caller, who reconfigures it on resize.
func NewSurface(device hal.Device, queue hal.Queue, surface hal.Surface,
	width, height int, format gputypes.TextureFormat, opts ...vvg.Option,
) (*Renderer, error) {
	o := vvg.ApplyOptions(opts...)
	w, h, err := targetSize(width, height)
	if err != nil {
		return nil, err
	}
	if device == nil || surface == nil {
		return nil, gpuimpl.ErrNilDevice
	}
	err = surface.Configure(device, &hal.SurfaceConfiguration{
		Width:       w,
		Height:      h,
		Format:      format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	target, err := gpuimpl.NewSurfaceTarget(device, queue, surface, w, h, format, o)
	if err != nil {
		return nil, err
	}
	return gpuimpl.NewRenderer(device, queue, target, o)
}

// NewFromProvider creates an off-screen renderer on a device shared by an
// external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func NewFromProvider(provider any, width, height int, opts ...vvg.Option) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("vvg/gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("vvg/gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("vvg/gpu: provider HalQueue is not hal.Queue")
	}
	if dp, ok := provider.(gpucontext.DeviceProvider); ok {
		vvg.Logger().Debug("vvg: using shared device",
			"surfaceFormat", dp.SurfaceFormat(), "adapter", dp.AdapterInfo().Name)
	}
	return NewOffscreen(device, queue, width, height, opts...)
}

// ReadImage copies the last flushed frame of an off-screen renderer into
// an image.
func ReadImage(r *Renderer) (*image.NRGBA, error) {
	target, ok := r.Target().(*gpuimpl.OffscreenTarget)
	if !ok {
		return nil, fmt.Errorf("vvg/gpu: renderer does not draw off-screen")
	}
	pixels, err := target.ReadPixels()
	if err != nil {
		return nil, err
	}
	w, h := target.Size()
	return &image.NRGBA{
		Pix:    pixels,
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}, nil
}

func targetSize(width, height int) (uint32, uint32, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: target %dx%d", vvg.ErrInvalidSize, width, height)
	}
	return uint32(width), uint32(height), nil
}
