package vvg

// Backend is the draw-call surface a vector-graphics frontend renders
// through.
//
// Implementations are not safe for concurrent use; callers serialize all
// calls. At most one frame is open at a time.
type Backend interface {
	// Start opens a frame of the given viewport size, discarding any batch
	// left over from a previous frame.
	Start(width, height int) error

	// Fill records one filled draw entry covering all paths. The fringe
	// width doubles as the stroke width for coverage. bounds is reserved.
	Fill(paint Paint, scissor Scissor, fringe float32, bounds Bounds, paths []Path) error

	// Stroke records one stroked draw entry covering all paths.
	Stroke(paint Paint, scissor Scissor, fringe, strokeWidth float32, paths []Path) error

	// Triangles records one flat-shaded triangle list.
	Triangles(paint Paint, scissor Scissor, vertices []Vertex) error

	// Cancel discards the open frame without GPU work.
	Cancel()

	// Flush uploads and renders the open frame and closes it.
	// A frame with no entries is a no-op.
	Flush() error

	// CreateTexture allocates a texture and returns its id (always > 0).
	// data may be nil; otherwise it must cover the whole image tightly
	// packed.
	CreateTexture(format TextureFormat, width, height int, data []byte) (int, error)

	// DeleteTexture releases a texture. It reports false for unknown ids.
	DeleteTexture(id int) bool

	// UpdateTexture replaces the region (x, y, w, h) of a texture. data
	// covers the whole image tightly packed; only the region is uploaded.
	// It reports false for unknown ids.
	UpdateTexture(id, x, y, w, h int, data []byte) (bool, error)

	// TextureSize returns the size of a texture.
	TextureSize(id int) (width, height int, ok bool)

	// Destroy releases all GPU resources owned by the backend.
	Destroy()
}
