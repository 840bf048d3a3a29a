// Package vvg is a draw-call batching backend for immediate-mode 2D vector
// graphics.
//
// A vector-graphics frontend (nanovg style) tessellates paths into flat
// vertex lists and hands them to a [Backend] together with the paint,
// scissor and antialiasing parameters of each call. The backend
// accumulates a whole frame, encodes every call into a fixed-size shader
// uniform record, grows its GPU buffers on demand and replays the batch
// with as few pipeline switches as possible.
//
// # Quick Start
//
//	device, _ := gpu.OpenDevice(gputypes.BackendVulkan)
//	defer device.Destroy()
//
//	r, _ := gpu.NewOffscreen(device.Device, device.Queue, 800, 600)
//	defer r.Destroy()
//
//	_ = r.Start(800, 600)
//	_ = r.Fill(vvg.ColorPaint(vvg.RGBA(1, 0, 0, 1)), vvg.NoScissor(), 1, bounds, paths)
//	_ = r.Flush()
//
// # Frame Lifecycle
//
// A frame is opened with Start and closed with Flush or Cancel. Fill,
// Stroke and Triangles are only valid while a frame is open and return
// [ErrInvalidState] otherwise. Cancel discards the CPU-side batch without
// touching the GPU.
//
// # Textures
//
// Textures are identified by positive integer ids assigned from a strictly
// increasing counter. Id 0 means "no texture" and ids are never reused.
//
// # Logging
//
// vvg produces no log output by default. Use [SetLogger] to enable it.
package vvg
