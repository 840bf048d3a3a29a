//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"
)

type textureWrite struct {
	origin hal.Origin3D
	layout hal.ImageDataLayout
	size   hal.Extent3D
	bytes  int
}

// recordingQueue captures texture uploads, which the noop queue drops.
type recordingQueue struct {
	hal.Queue
	writes []textureWrite
}

func (q *recordingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	q.writes = append(q.writes, textureWrite{origin: dst.Origin, layout: *layout, size: *size, bytes: len(data)})
	return q.Queue.WriteTexture(dst, data, layout, size)
}

func newTestRegistry(t *testing.T) (*textureRegistry, *recordingQueue) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)
	rq := &recordingQueue{Queue: queue}
	r, err := newTextureRegistry(device, rq, "test")
	if err != nil {
		t.Fatalf("newTextureRegistry: %v", err)
	}
	t.Cleanup(r.destroy)
	rq.writes = nil
	return r, rq
}

func TestTextureRegistryIDs(t *testing.T) {
	r, _ := newTestRegistry(t)

	a, err := r.create(vvg.TextureRGBA, 4, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() != 1 {
		t.Errorf("first id = %d, want 1", a.ID())
	}
	if !r.remove(1) {
		t.Error("remove(1) = false, want true")
	}
	if r.remove(1) {
		t.Error("second remove(1) = true, want false")
	}
	b, err := r.create(vvg.TextureAlpha, 2, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.ID() != 2 {
		t.Errorf("id after delete = %d, want 2 (ids are never reused)", b.ID())
	}
	if _, ok := r.lookup(1); ok {
		t.Error("deleted texture still found")
	}
}

func TestTextureRegistryCreateValidation(t *testing.T) {
	r, _ := newTestRegistry(t)
	tests := []struct {
		name   string
		format vvg.TextureFormat
		w, h   int
		data   []byte
		want   error
	}{
		{"zero width", vvg.TextureRGBA, 0, 4, nil, vvg.ErrInvalidSize},
		{"negative height", vvg.TextureAlpha, 4, -1, nil, vvg.ErrInvalidSize},
		{"short data", vvg.TextureRGBA, 2, 2, make([]byte, 15), vvg.ErrInvalidData},
		{"unknown format", vvg.TextureFormat(9), 2, 2, nil, vvg.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.create(tt.format, tt.w, tt.h, tt.data); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if r.lastID != 0 {
		t.Errorf("failed creates consumed ids: lastID = %d", r.lastID)
	}
}

func TestTextureRegistryInitialData(t *testing.T) {
	r, q := newTestRegistry(t)
	if _, err := r.create(vvg.TextureAlpha, 3, 2, make([]byte, 6)); err != nil {
		t.Fatal(err)
	}
	if len(q.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(q.writes))
	}
	w := q.writes[0]
	if w.size.Width != 3 || w.size.Height != 2 || w.layout.BytesPerRow != 3 || w.layout.Offset != 0 {
		t.Errorf("initial upload = %+v", w)
	}
}

func TestTextureRegistryPartialUpdate(t *testing.T) {
	r, q := newTestRegistry(t)
	tex, err := r.create(vvg.TextureRGBA, 8, 4, nil)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := r.update(tex.ID(), 2, 1, 3, 2, make([]byte, 8*4*4))
	if !ok || err != nil {
		t.Fatalf("update = %v, %v", ok, err)
	}
	if len(q.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(q.writes))
	}
	w := q.writes[0]
	if w.origin.X != 2 || w.origin.Y != 1 {
		t.Errorf("origin = %+v, want (2, 1)", w.origin)
	}
	if w.size.Width != 3 || w.size.Height != 2 {
		t.Errorf("size = %+v, want 3x2", w.size)
	}
	// Rows are read from the full image: pitch is the image row.
	if w.layout.BytesPerRow != 32 || w.layout.Offset != (1*8+2)*4 {
		t.Errorf("layout = %+v, want pitch 32 offset 40", w.layout)
	}

	if err := tex.UpdateRegion(0, 0, 2, 2, make([]byte, 16)); err != nil {
		t.Fatalf("UpdateRegion: %v", err)
	}
	if w := q.writes[1]; w.layout.BytesPerRow != 8 || w.layout.Offset != 0 {
		t.Errorf("region layout = %+v, want tight rows", w.layout)
	}
}

func TestTextureRegistryUpdateErrors(t *testing.T) {
	r, _ := newTestRegistry(t)
	tex, err := r.create(vvg.TextureAlpha, 4, 4, nil)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := r.update(99, 0, 0, 1, 1, make([]byte, 16))
	if ok || err != nil {
		t.Errorf("update unknown id = %v, %v; want false, nil", ok, err)
	}
	if _, err := r.update(tex.ID(), 3, 3, 2, 2, make([]byte, 16)); !errors.Is(err, vvg.ErrInvalidSize) {
		t.Errorf("out of bounds region: err = %v, want ErrInvalidSize", err)
	}
	if _, err := r.update(tex.ID(), 0, 0, 1, 1, make([]byte, 4)); !errors.Is(err, vvg.ErrInvalidData) {
		t.Errorf("short data: err = %v, want ErrInvalidData", err)
	}

	r.remove(tex.ID())
	if err := tex.UpdateData(make([]byte, 16)); !errors.Is(err, vvg.ErrTextureNotFound) {
		t.Errorf("update after delete: err = %v, want ErrTextureNotFound", err)
	}
}

func TestTextureRegistryDummy(t *testing.T) {
	r, _ := newTestRegistry(t)
	if r.dummy == nil || r.dummy.Width() != 2 || r.dummy.Height() != 2 {
		t.Fatalf("dummy = %+v, want 2x2", r.dummy)
	}
	if _, ok := r.lookup(dummyTextureID); ok {
		t.Error("dummy texture must not be reachable by id")
	}
	if _, ok := r.lookup(0); ok {
		t.Error("id 0 must be invalid")
	}
	if v, err := r.viewFor(0); err != nil || v != r.dummy.view {
		t.Errorf("viewFor(0) = %v, %v; entries without texture must bind the dummy view", v, err)
	}

	tex, err := r.create(vvg.TextureRGBA, 1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := r.viewFor(tex.ID()); err != nil || v != tex.view {
		t.Errorf("viewFor(%d) = %v, %v; want the texture's view", tex.ID(), v, err)
	}
	r.remove(tex.ID())
	if _, err := r.viewFor(tex.ID()); !errors.Is(err, vvg.ErrTextureNotFound) {
		t.Errorf("viewFor deleted id: err = %v, want ErrTextureNotFound", err)
	}
	if f, ok := r.formatOf(tex.ID()); !ok || f != vvg.TextureRGBA {
		t.Errorf("formatOf = %v, %v", f, ok)
	}
}
