//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"
)

// fillVertexLayout describes vvg.Vertex:
//
//	position  (vec2<f32>) = 8 bytes  (location 0)
//	tex_coord (vec2<f32>) = 8 bytes  (location 1)
func fillVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vvg.VertexSize,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

// fillBlendState blends straight-alpha color over the target and writes
// the source alpha.
func fillBlendState() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// variantTopology returns the primitive topology of a pipeline variant.
// Fans are drawn as indexed triangle lists.
func variantTopology(v pipelineVariant) gputypes.PrimitiveTopology {
	if v == variantStrip {
		return gputypes.PrimitiveTopologyTriangleStrip
	}
	return gputypes.PrimitiveTopologyTriangleList
}

// pipelineSet owns the shader, layouts, sampler and the three pipeline
// variants. The variants share everything except topology.
type pipelineSet struct {
	device hal.Device
	label  string
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	pipelines  [variantCount]hal.RenderPipeline
}

// newPipelineSet compiles the fill shader and creates all pipelines for
// render targets of the given format.
func newPipelineSet(device hal.Device, label string, format gputypes.TextureFormat, edgeAA, precompile bool) (*pipelineSet, error) {
	p := &pipelineSet{device: device, label: label, format: format}
	if err := p.create(edgeAA, precompile); err != nil {
		p.destroy()
		return nil, err
	}
	slogger().Debug("vvg: pipelines created", "format", format, "edgeAA", edgeAA, "spirv", precompile)
	return p, nil
}

func (p *pipelineSet) create(edgeAA, precompile bool) error {
	source, err := fillShaderSourceFor(edgeAA, precompile)
	if err != nil {
		return err
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.label + "_fill_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("create fill shader module: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: FrameUniforms (uniform buffer, vertex+fragment)
	//   Binding 1: paint texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.label + "_fill_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: uniformRecordSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create fill bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_fill_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create fill pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        p.label + "_paint_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create paint sampler: %w", err)
	}
	p.sampler = sampler

	for v := variantFan; v < variantCount; v++ {
		pipeline, err := p.createVariant(v)
		if err != nil {
			return err
		}
		p.pipelines[v] = pipeline
	}
	return nil
}

func (p *pipelineSet) createVariant(v pipelineVariant) (hal.RenderPipeline, error) {
	blend := fillBlendState()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("%s_fill_%s_pipeline", p.label, v),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    fillVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: variantTopology(v),
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", v, err)
	}
	return pipeline, nil
}

// bindEntries returns the bind group entries of one draw entry.
func (p *pipelineSet) bindEntries(uniforms hal.Buffer, offset uint64, view hal.TextureView) []gputypes.BindGroupEntry {
	return []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: uniforms.NativeHandle(),
			Offset: offset,
			Size:   uniformRecordSize,
		}},
		{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
		{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: p.sampler.NativeHandle()}},
	}
}

// destroy releases all GPU objects. Safe to call on a partially created set.
func (p *pipelineSet) destroy() {
	for v, pipeline := range p.pipelines {
		if pipeline != nil {
			p.device.DestroyRenderPipeline(pipeline)
			p.pipelines[v] = nil
		}
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
