//go:build !nogpu

package gpu

import "errors"

// Renderer errors. Caller-contract errors live in the vvg package.
var (
	// ErrNilDevice is returned when a renderer or target is created without
	// a device or queue.
	ErrNilDevice = errors.New("vvg/gpu: device and queue are required")

	// ErrPoolExhausted is returned when more bind groups are allocated than
	// the descriptor pool was sized for.
	ErrPoolExhausted = errors.New("vvg/gpu: descriptor pool exhausted")

	// ErrNoFrame is returned when a surface target fails to provide a
	// frame to render into.
	ErrNoFrame = errors.New("vvg/gpu: no surface frame available")

	// ErrTargetSize is returned when a target has zero width or height.
	ErrTargetSize = errors.New("vvg/gpu: target size must be non-zero")
)
