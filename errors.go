package vvg

import "errors"

// Errors returned by Backend implementations.
var (
	// ErrInvalidState is returned when a draw call is made outside an open
	// frame.
	ErrInvalidState = errors.New("vvg: invalid frame state")

	// ErrInvalidFringe is returned when a draw call passes a non-positive
	// fringe width.
	ErrInvalidFringe = errors.New("vvg: fringe must be positive")

	// ErrTextureNotFound is returned when a paint references an unknown
	// texture id.
	ErrTextureNotFound = errors.New("vvg: texture not found")

	// ErrInvalidSize is returned for zero or negative texture or viewport
	// dimensions.
	ErrInvalidSize = errors.New("vvg: invalid size")

	// ErrInvalidData is returned when pixel data does not match the
	// texture size and format.
	ErrInvalidData = errors.New("vvg: invalid pixel data")

	// ErrDestroyed is returned when a destroyed backend is used.
	ErrDestroyed = errors.New("vvg: backend destroyed")
)
