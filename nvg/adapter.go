package nvg

import (
	"errors"
	"fmt"

	"github.com/gogpu/vvg"
)

// ErrDeleted is reported by Err for callbacks made after RenderDelete.
var ErrDeleted = errors.New("nvg: adapter deleted")

// Destroyer releases a resource handed to an Adapter.
type Destroyer interface {
	Destroy()
}

// Params is the render parameter table of a NanoVG context.
type Params struct {
	UserPtr       any
	EdgeAntiAlias bool

	RenderCreate         func() int
	RenderCreateTexture  func(typ, w, h, imageFlags int, data []byte) int
	RenderDeleteTexture  func(image int) int
	RenderUpdateTexture  func(image, x, y, w, h int, data []byte) int
	RenderGetTextureSize func(image int) (w, h, ok int)
	RenderViewport       func(width, height float32, devicePixelRatio float32)
	RenderCancel         func()
	RenderFlush          func()
	RenderFill           func(paint *Paint, scissor *Scissor, fringe float32, bounds [4]float32, paths []Path)
	RenderStroke         func(paint *Paint, scissor *Scissor, fringe, strokeWidth float32, paths []Path)
	RenderTriangles      func(paint *Paint, scissor *Scissor, verts []Vertex, fringe float32)
	RenderDelete         func()
}

// Adapter forwards NanoVG render callbacks to a vvg.Backend.
//
// The backend and any resources passed to New are owned by the adapter and
// destroyed by RenderDelete, backend first. Anything not passed in, such as
// a device shared with a host application, is never touched.
//
// An Adapter is not safe for concurrent use, like the context driving it.
type Adapter struct {
	backend vvg.Backend
	edgeAA  bool
	owned   []Destroyer

	paths   []vvg.Path
	lastErr error
	deleted bool
}

// New returns an adapter driving backend. owned resources are destroyed in
// order after the backend by RenderDelete.
func New(backend vvg.Backend, edgeAA bool, owned ...Destroyer) *Adapter {
	return &Adapter{backend: backend, edgeAA: edgeAA, owned: owned}
}

// Params returns the parameter table bound to a.
func (a *Adapter) Params() *Params {
	return &Params{
		UserPtr:              a,
		EdgeAntiAlias:        a.edgeAA,
		RenderCreate:         a.RenderCreate,
		RenderCreateTexture:  a.CreateTexture,
		RenderDeleteTexture:  a.DeleteTexture,
		RenderUpdateTexture:  a.UpdateTexture,
		RenderGetTextureSize: a.TextureSize,
		RenderViewport:       a.Viewport,
		RenderCancel:         a.Cancel,
		RenderFlush:          a.Flush,
		RenderFill:           a.Fill,
		RenderStroke:         a.Stroke,
		RenderTriangles:      a.Triangles,
		RenderDelete:         a.Delete,
	}
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() vvg.Backend { return a.backend }

// Err returns the last error reported by the backend, or nil.
func (a *Adapter) Err() error { return a.lastErr }

func (a *Adapter) fail(op string, err error) {
	if err == nil {
		return
	}
	a.lastErr = fmt.Errorf("nvg %s: %w", op, err)
	vvg.Logger().Warn("vvg: render callback failed", "op", op, "err", err)
}

func (a *Adapter) usable() bool {
	if a.deleted {
		a.lastErr = ErrDeleted
		return false
	}
	return true
}

// RenderCreate reports whether the backend is ready.
func (a *Adapter) RenderCreate() int {
	return b2i(a.backend != nil && a.usable())
}

// CreateTexture creates a texture and returns its handle, or 0 on failure.
// imageFlags are not supported and ignored.
func (a *Adapter) CreateTexture(typ, w, h, _ int, data []byte) int {
	if !a.usable() {
		return 0
	}
	id, err := a.backend.CreateTexture(textureFormat(typ), w, h, data)
	if err != nil {
		a.fail("createTexture", err)
		return 0
	}
	return id
}

// DeleteTexture releases a texture.
func (a *Adapter) DeleteTexture(image int) int {
	if image <= 0 || !a.usable() {
		return 0
	}
	return b2i(a.backend.DeleteTexture(image))
}

// UpdateTexture replaces a region of a texture; data covers the whole
// image.
func (a *Adapter) UpdateTexture(image, x, y, w, h int, data []byte) int {
	if image <= 0 || !a.usable() {
		return 0
	}
	ok, err := a.backend.UpdateTexture(image, x, y, w, h, data)
	if err != nil {
		a.fail("updateTexture", err)
		return 0
	}
	return b2i(ok)
}

// TextureSize returns the width and height of a texture.
func (a *Adapter) TextureSize(image int) (w, h, ok int) {
	if image <= 0 || !a.usable() {
		return 0, 0, 0
	}
	width, height, found := a.backend.TextureSize(image)
	if !found {
		return 0, 0, 0
	}
	return width, height, 1
}

// Viewport opens a frame. The size is truncated to whole pixels; the
// device pixel ratio is not used.
func (a *Adapter) Viewport(width, height, _ float32) {
	if !a.usable() {
		return
	}
	a.fail("viewport", a.backend.Start(int(width), int(height)))
}

// Cancel drops the open frame.
func (a *Adapter) Cancel() {
	if !a.usable() {
		return
	}
	a.backend.Cancel()
}

// Flush renders the open frame.
func (a *Adapter) Flush() {
	if !a.usable() {
		return
	}
	a.fail("flush", a.backend.Flush())
}

// Fill records filled paths.
func (a *Adapter) Fill(paint *Paint, scissor *Scissor, fringe float32, bounds [4]float32, paths []Path) {
	if !a.usable() {
		return
	}
	a.fail("fill", a.backend.Fill(paint.vvg(), scissor.vvg(), fringe, vvg.Bounds(bounds), a.convert(paths)))
}

// Stroke records stroked paths.
func (a *Adapter) Stroke(paint *Paint, scissor *Scissor, fringe, strokeWidth float32, paths []Path) {
	if !a.usable() {
		return
	}
	a.fail("stroke", a.backend.Stroke(paint.vvg(), scissor.vvg(), fringe, strokeWidth, a.convert(paths)))
}

// Triangles records a triangle list. The fringe is not used.
func (a *Adapter) Triangles(paint *Paint, scissor *Scissor, verts []Vertex, _ float32) {
	if !a.usable() {
		return
	}
	a.fail("triangles", a.backend.Triangles(paint.vvg(), scissor.vvg(), verts))
}

// Delete destroys the backend and the owned resources. Later callbacks
// are ignored.
func (a *Adapter) Delete() {
	if a.deleted {
		return
	}
	a.deleted = true
	a.backend.Destroy()
	for _, d := range a.owned {
		d.Destroy()
	}
	a.owned = nil
}

// convert reuses a scratch slice; the backend copies vertices before
// returning.
func (a *Adapter) convert(paths []Path) []vvg.Path {
	a.paths = a.paths[:0]
	for i := range paths {
		a.paths = append(a.paths, vvg.Path{Fill: paths[i].Fill, Stroke: paths[i].Stroke})
	}
	return a.paths
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
