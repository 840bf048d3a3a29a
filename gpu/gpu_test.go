//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
)

func openNoop(t *testing.T) *Device {
	t.Helper()
	dev, err := OpenDevice(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}
	t.Cleanup(dev.Destroy)
	return dev
}

func drawFrame(t *testing.T, r *Renderer, w, h int) {
	t.Helper()
	if err := r.Start(w, h); err != nil {
		t.Fatal(err)
	}
	path := vvg.Path{Fill: []vvg.Vertex{
		vvg.V(0, 0, 0.5, 1), vvg.V(10, 0, 0.5, 1), vvg.V(10, 10, 0.5, 1), vvg.V(0, 10, 0.5, 1),
	}}
	if err := r.Fill(vvg.ColorPaint(vvg.RGB(1, 0, 0)), vvg.NoScissor(), 1, vvg.Bounds{}, []vvg.Path{path}); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestNewOffscreen(t *testing.T) {
	dev := openNoop(t)

	r, err := NewOffscreen(dev.Device, dev.Queue, 32, 16, vvg.WithLabel("test"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	if r.Options().Label != "test" {
		t.Errorf("Label = %q, want %q", r.Options().Label, "test")
	}
	drawFrame(t, r, 32, 16)
	if s := r.Stats(); s.Entries != 1 || s.Draws != 1 {
		t.Errorf("stats = %+v", s)
	}

	img, err := ReadImage(r)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 || len(img.Pix) != 32*16*4 {
		t.Errorf("image bounds = %v, %d bytes", img.Bounds(), len(img.Pix))
	}
}

func TestNewOffscreenInvalid(t *testing.T) {
	dev := openNoop(t)
	if _, err := NewOffscreen(dev.Device, dev.Queue, 0, 10); !errors.Is(err, vvg.ErrInvalidSize) {
		t.Errorf("zero width: err = %v, want ErrInvalidSize", err)
	}
	if _, err := NewOffscreen(nil, dev.Queue, 10, 10); err == nil {
		t.Error("nil device should fail")
	}
}

func TestNewSurface(t *testing.T) {
	dev := openNoop(t)
	surface, err := dev.Instance.CreateSurface(0, 0)
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewSurface(dev.Device, dev.Queue, surface, 64, 48, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	drawFrame(t, r, 64, 48)
	drawFrame(t, r, 64, 48)
	if _, err := ReadImage(r); err == nil {
		t.Error("ReadImage on a surface renderer should fail")
	}
}

type fakeProvider struct {
	device, queue any
}

func (p fakeProvider) HalDevice() any { return p.device }
func (p fakeProvider) HalQueue() any  { return p.queue }

func TestNewFromProvider(t *testing.T) {
	dev := openNoop(t)

	r, err := NewFromProvider(fakeProvider{dev.Device, dev.Queue}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	drawFrame(t, r, 8, 8)
	r.Destroy()

	// The shared device must outlive the renderer.
	again, err := NewOffscreen(dev.Device, dev.Queue, 4, 4)
	if err != nil {
		t.Fatalf("device unusable after renderer destroy: %v", err)
	}
	again.Destroy()

	tests := []struct {
		name     string
		provider any
	}{
		{"no hal methods", struct{}{}},
		{"wrong device type", fakeProvider{"device", dev.Queue}},
		{"wrong queue type", fakeProvider{dev.Device, 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFromProvider(tt.provider, 8, 8); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOpenDeviceUnknownBackend(t *testing.T) {
	if _, err := OpenDevice(gputypes.Backend(200)); err == nil {
		t.Error("expected error for an unregistered backend")
	}
}
