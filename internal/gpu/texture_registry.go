//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"
)

// dummyTextureID marks the placeholder texture. It is never handed out.
const dummyTextureID = -1

// Texture is a sampled image owned by a textureRegistry.
//
// Texture implements gpucontext.Texture, gpucontext.TextureUpdater and
// gpucontext.TextureRegionUpdater so hosts can stream pixels into it
// directly.
type Texture struct {
	id     int
	width  int
	height int
	format vvg.TextureFormat

	queue hal.Queue
	tex   hal.Texture
	view  hal.TextureView
}

var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// ID returns the texture id.
func (t *Texture) ID() int { return t.id }

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture pixel format.
func (t *Texture) Format() vvg.TextureFormat { return t.format }

// UpdateData replaces the whole image. data must be tightly packed.
func (t *Texture) UpdateData(data []byte) error {
	return t.update(0, 0, t.width, t.height, data)
}

// UpdateRegion replaces the sub-rectangle (x, y, w, h). data holds only
// that rectangle, tightly packed.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	if err := t.checkRegion(x, y, w, h); err != nil {
		return err
	}
	if len(data) != t.format.DataSize(w, h) {
		return fmt.Errorf("%w: region %dx%d needs %d bytes, got %d",
			vvg.ErrInvalidData, w, h, t.format.DataSize(w, h), len(data))
	}
	return t.write(x, y, w, h, data, 0, w)
}

// update replaces the sub-rectangle (x, y, w, h) reading it out of data,
// which covers the whole image tightly packed.
func (t *Texture) update(x, y, w, h int, data []byte) error {
	if err := t.checkRegion(x, y, w, h); err != nil {
		return err
	}
	if len(data) != t.format.DataSize(t.width, t.height) {
		return fmt.Errorf("%w: image %dx%d needs %d bytes, got %d",
			vvg.ErrInvalidData, t.width, t.height, t.format.DataSize(t.width, t.height), len(data))
	}
	offset := uint64((y*t.width + x) * t.format.BytesPerPixel())
	return t.write(x, y, w, h, data, offset, t.width)
}

func (t *Texture) checkRegion(x, y, w, h int) error {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("%w: region (%d,%d %dx%d) outside %dx%d texture",
			vvg.ErrInvalidSize, x, y, w, h, t.width, t.height)
	}
	return nil
}

// write uploads a w×h region whose first texel sits at offset in data and
// whose rows are rowPixels texels apart.
func (t *Texture) write(x, y, w, h int, data []byte, offset uint64, rowPixels int) error {
	if t.tex == nil {
		return fmt.Errorf("%w: texture %d was deleted", vvg.ErrTextureNotFound, t.id)
	}
	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: t.tex,
			Origin:  hal.Origin3D{X: uint32(x), Y: uint32(y)},
			Aspect:  gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       offset,
			BytesPerRow:  uint32(rowPixels * t.format.BytesPerPixel()),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("write texture %d: %w", t.id, err)
	}
	return nil
}

// halFormat maps a vvg texture format to the GPU format.
func halFormat(f vvg.TextureFormat) gputypes.TextureFormat {
	if f == vvg.TextureAlpha {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// textureRegistry owns every texture of a renderer, keyed by ids from a
// strictly increasing counter. Ids are never reused.
type textureRegistry struct {
	device hal.Device
	queue  hal.Queue
	label  string

	lastID   int
	textures []*Texture

	// dummy is bound for entries without a texture.
	dummy *Texture
}

func newTextureRegistry(device hal.Device, queue hal.Queue, label string) (*textureRegistry, error) {
	r := &textureRegistry{device: device, queue: queue, label: label}
	white := []byte{
		255, 255, 255, 255, 255, 255, 255, 255,
		255, 255, 255, 255, 255, 255, 255, 255,
	}
	dummy, err := r.allocate(dummyTextureID, vvg.TextureRGBA, 2, 2, white)
	if err != nil {
		return nil, fmt.Errorf("create dummy texture: %w", err)
	}
	r.dummy = dummy
	return r, nil
}

// create allocates a texture and assigns it the next id.
func (r *textureRegistry) create(format vvg.TextureFormat, w, h int, data []byte) (*Texture, error) {
	if format.BytesPerPixel() == 0 {
		return nil, fmt.Errorf("%w: unsupported format %v", vvg.ErrInvalidData, format)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: texture %dx%d", vvg.ErrInvalidSize, w, h)
	}
	if data != nil && len(data) != format.DataSize(w, h) {
		return nil, fmt.Errorf("%w: texture %dx%d %v needs %d bytes, got %d",
			vvg.ErrInvalidData, w, h, format, format.DataSize(w, h), len(data))
	}

	t, err := r.allocate(r.lastID+1, format, w, h, data)
	if err != nil {
		return nil, err
	}
	r.lastID = t.id
	r.textures = append(r.textures, t)
	slogger().Debug("vvg: texture created", "id", t.id, "format", format, "width", w, "height", h)
	return t, nil
}

func (r *textureRegistry) allocate(id int, format vvg.TextureFormat, w, h int, data []byte) (*Texture, error) {
	label := fmt.Sprintf("%s_texture_%d", r.label, id)
	if id == dummyTextureID {
		label = r.label + "_dummy_texture"
	}
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        halFormat(format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", label, err)
	}
	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        halFormat(format),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %q: %w", label, err)
	}

	t := &Texture{
		id:     id,
		width:  w,
		height: h,
		format: format,
		queue:  r.queue,
		tex:    tex,
		view:   view,
	}
	if data != nil {
		if err := t.UpdateData(data); err != nil {
			r.release(t)
			return nil, err
		}
	}
	return t, nil
}

// lookup returns the texture with the given id. Zero, negative and
// deleted ids are not found.
func (r *textureRegistry) lookup(id int) (*Texture, bool) {
	if id <= 0 {
		return nil, false
	}
	for _, t := range r.textures {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// formatOf is the textureFormatLookup used by the paint encoder.
func (r *textureRegistry) formatOf(id int) (vvg.TextureFormat, bool) {
	t, ok := r.lookup(id)
	if !ok {
		return 0, false
	}
	return t.format, true
}

// remove destroys the texture and reports whether it existed.
func (r *textureRegistry) remove(id int) bool {
	for i, t := range r.textures {
		if t.id == id {
			r.release(t)
			r.textures = append(r.textures[:i], r.textures[i+1:]...)
			slogger().Debug("vvg: texture deleted", "id", id)
			return true
		}
	}
	return false
}

// update replaces a region of a texture from full-image data. It reports
// false without error when the id is unknown.
func (r *textureRegistry) update(id, x, y, w, h int, data []byte) (bool, error) {
	t, ok := r.lookup(id)
	if !ok {
		return false, nil
	}
	if err := t.update(x, y, w, h, data); err != nil {
		return true, err
	}
	return true, nil
}

// viewFor returns the view to bind for an entry's texture id. Id 0 binds
// the dummy texture; an id that is no longer registered is not found.
func (r *textureRegistry) viewFor(id int) (hal.TextureView, error) {
	if id == 0 {
		return r.dummy.view, nil
	}
	t, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: paint image %d", vvg.ErrTextureNotFound, id)
	}
	return t.view, nil
}

func (r *textureRegistry) release(t *Texture) {
	if t.view != nil {
		r.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		r.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// destroy releases every texture including the dummy.
func (r *textureRegistry) destroy() {
	for _, t := range r.textures {
		r.release(t)
	}
	r.textures = nil
	if r.dummy != nil {
		r.release(r.dummy)
		r.dummy = nil
	}
}
