package vvg

// Option configures a renderer during creation.
//
// Example:
//
//	r, err := gpu.NewOffscreen(device, queue, 800, 600,
//	    vvg.WithEdgeAA(false),
//	    vvg.WithClearColor(vvg.RGB(1, 1, 1)),
//	)
type Option func(*Options)

// Options holds renderer configuration. Use [DefaultOptions] and the With*
// functions rather than building it directly.
type Options struct {
	// EdgeAA enables fringe antialiasing: fill fringe vertices are drawn
	// and the fragment stage computes stroke coverage.
	EdgeAA bool

	// ClearColor is the color the off-screen target is cleared to at the
	// start of every flushed frame.
	ClearColor Color

	// Label prefixes every GPU object label.
	Label string

	// PrecompileShaders compiles the WGSL fill shader to SPIR-V before
	// handing it to the device.
	PrecompileShaders bool
}

// DefaultOptions returns the default renderer configuration.
func DefaultOptions() Options {
	return Options{
		EdgeAA:     true,
		ClearColor: RGBA(0, 0, 0, 1),
		Label:      "vvg",
	}
}

// ApplyOptions returns the defaults with opts applied in order.
func ApplyOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithEdgeAA toggles fringe antialiasing.
func WithEdgeAA(enabled bool) Option {
	return func(o *Options) {
		o.EdgeAA = enabled
	}
}

// WithClearColor sets the off-screen clear color.
func WithClearColor(c Color) Option {
	return func(o *Options) {
		o.ClearColor = c
	}
}

// WithLabel sets the GPU object label prefix.
func WithLabel(label string) Option {
	return func(o *Options) {
		o.Label = label
	}
}

// WithPrecompiledShaders enables WGSL to SPIR-V compilation at renderer
// creation.
func WithPrecompiledShaders(enabled bool) Option {
	return func(o *Options) {
		o.PrecompileShaders = enabled
	}
}
