//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"

	// Backends selectable by OpenDevice.
	_ "github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device is a hal device opened by OpenDevice. Renderers created on it
// must be destroyed before the device.
type Device struct {
	Instance hal.Instance
	Device   hal.Device
	Queue    hal.Queue
	Info     gputypes.AdapterInfo
}

// OpenDevice opens a device on the given backend, preferring a discrete or
// integrated GPU. gputypes.BackendEmpty selects the no-op backend, which
// records nothing and is useful for headless tests.
func OpenDevice(backend gputypes.Backend) (*Device, error) {
	api, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("vvg/gpu: %v backend not available", backend)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("vvg/gpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	vvg.Logger().Info("vvg: device opened", "backend", backend, "adapter", selected.Info.Name)
	return &Device{
		Instance: instance,
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Info:     selected.Info,
	}, nil
}

// Destroy waits for the device to go idle and releases it.
func (d *Device) Destroy() {
	if d.Device != nil {
		if err := d.Device.WaitIdle(); err != nil {
			vvg.Logger().Warn("vvg: wait idle before destroy", "err", err)
		}
		d.Device.Destroy()
		d.Device = nil
		d.Queue = nil
	}
	if d.Instance != nil {
		d.Instance.Destroy()
		d.Instance = nil
	}
}
