//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texresolve"
	"github.com/gogpu/texresolve/render"
)

// Pipeline errors.
var (
	// ErrNilDevice is returned when a pipeline is created without a device.
	ErrNilDevice = errors.New("gpu: nil hal device")

	// ErrNotInitialized is returned when the pipeline is used before Init.
	ErrNotInitialized = errors.New("gpu: resolve pipeline not initialized")

	// ErrEmptyQuad is returned when a quad covers no pixels.
	ErrEmptyQuad = errors.New("gpu: empty quad")
)

// Bind group layout slots of the resolve shader.
const (
	TextureBinding = 0
	SamplerBinding = 1
)

// quadVertexStride is the byte stride per vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0, clip space)
//	uv       (vec2<f32>) = 8 bytes (location 1)
const quadVertexStride = 16

// QuadVertexCount is the number of vertices of one quad (two triangles).
const QuadVertexCount = 6

// ResolvePipeline manages the GPU objects of the texture resolve stage: a
// render pipeline whose fragment shader outputs the sampled color with
// alpha 1.0. Blending is disabled so the output replaces the target.
//
// Samplers are cached per texresolve.Sampler value. ResolvePipeline is
// safe for concurrent use.
type ResolvePipeline struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	format     gputypes.TextureFormat

	vertBuf  hal.Buffer
	samplers map[texresolve.Sampler]hal.Sampler
}

// NewResolvePipeline creates a pipeline for device and queue. GPU objects
// are created by Init.
func NewResolvePipeline(device hal.Device, queue hal.Queue) *ResolvePipeline {
	return &ResolvePipeline{
		device:   device,
		queue:    queue,
		samplers: make(map[texresolve.Sampler]hal.Sampler),
	}
}

// Init compiles the shader and creates the render pipeline for targets of
// the given color format. Calling Init again with the same format is a
// no-op; a different format recreates the pipeline.
func (p *ResolvePipeline) Init(format gputypes.TextureFormat) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.device == nil {
		return ErrNilDevice
	}
	if p.pipeline != nil {
		if p.format == format {
			return nil
		}
		p.destroyPipeline()
	}
	if err := p.createPipeline(format); err != nil {
		p.destroyPipeline()
		return err
	}
	texresolve.Logger().Debug("gpu: resolve pipeline created", "format", format)
	return nil
}

// IsInitialized reports whether Init has succeeded.
func (p *ResolvePipeline) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pipeline != nil
}

// Format returns the color target format of the pipeline.
func (p *ResolvePipeline) Format() gputypes.TextureFormat {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.format
}

// BindGroupLayout returns the layout bind groups must be created with.
func (p *ResolvePipeline) BindGroupLayout() hal.BindGroupLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindLayout
}

func (p *ResolvePipeline) createPipeline(format gputypes.TextureFormat) error {
	if resolveShaderSource == "" {
		return fmt.Errorf("gpu: texture_resolve shader source is empty")
	}

	shader, err := p.device.CreateShaderModule(shaderModuleDescriptor())
	if err != nil {
		return fmt.Errorf("gpu: compile texture_resolve shader: %w", err)
	}
	p.shader = shader

	// Binding 0: source texture (texture_2d, fragment)
	// Binding 1: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "texture_resolve_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    TextureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "texture_resolve_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "texture_resolve_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: VertexEntryPoint,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	p.format = format
	return nil
}

// UploadTexture copies every mip level of tex into a new GPU texture.
// The caller owns the result and must Destroy it.
func (p *ResolvePipeline) UploadTexture(tex *texresolve.Texture) (*Texture, error) {
	if p.device == nil {
		return nil, ErrNilDevice
	}
	t, err := uploadTexture(p.device, p.queue, tex)
	if err != nil {
		return nil, err
	}
	texresolve.Logger().Debug("gpu: texture uploaded",
		"width", t.width,
		"height", t.height,
		"levels", t.levels,
	)
	return t, nil
}

// Sampler returns the hal sampler for s, creating it on first use.
// Samplers are owned by the pipeline and destroyed with it.
func (p *ResolvePipeline) Sampler(s texresolve.Sampler) (hal.Sampler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.device == nil {
		return nil, ErrNilDevice
	}
	if cached, ok := p.samplers[s]; ok {
		return cached, nil
	}
	sampler, err := p.device.CreateSampler(SamplerDescriptor(s))
	if err != nil {
		return nil, fmt.Errorf("gpu: create sampler: %w", err)
	}
	p.samplers[s] = sampler
	return sampler, nil
}

// UploadQuad writes the vertices of q, in a target of the given size, to
// the pipeline's vertex buffer. Texture coordinates at the corners come
// from q.Transform, so the rasterizer interpolates the same coordinates
// the CPU renderer computes at each pixel center.
func (p *ResolvePipeline) UploadQuad(q render.Quad, targetW, targetH int) error {
	data, ok := QuadVertices(q, targetW, targetH)
	if !ok {
		return ErrEmptyQuad
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pipeline == nil {
		return ErrNotInitialized
	}
	if p.vertBuf == nil {
		buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "texture_resolve_vertices",
			Size:  uint64(len(data)),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("gpu: create vertex buffer: %w", err)
		}
		p.vertBuf = buf
	}
	p.queue.WriteBuffer(p.vertBuf, 0, data)
	return nil
}

// RecordDraw records the resolve draw into an existing render pass.
// bindGroup must hold the source view at TextureBinding and the sampler at
// SamplerBinding. RecordDraw does nothing before Init and UploadQuad.
func (p *ResolvePipeline) RecordDraw(rp hal.RenderPassEncoder, bindGroup hal.BindGroup, vertexCount uint32) {
	p.mu.Lock()
	pipeline, vertBuf := p.pipeline, p.vertBuf
	p.mu.Unlock()

	if pipeline == nil || vertBuf == nil || vertexCount == 0 {
		return
	}
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, vertBuf, 0)
	rp.Draw(vertexCount, 1, 0, 0)
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times.
func (p *ResolvePipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyPipeline()
	if p.device == nil {
		return
	}
	if p.vertBuf != nil {
		p.device.DestroyBuffer(p.vertBuf)
		p.vertBuf = nil
	}
	for key, s := range p.samplers {
		p.device.DestroySampler(s)
		delete(p.samplers, key)
	}
}

// destroyPipeline releases pipeline objects in reverse creation order.
func (p *ResolvePipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
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

// quadVertexLayout matches VertexInput in texture_resolve.wgsl.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
			},
		},
	}
}

// QuadVertices serializes q as two triangles in clip space for a target of
// the given size. It reports false if q covers no pixels.
func QuadVertices(q render.Quad, targetW, targetH int) ([]byte, bool) {
	if targetW <= 0 || targetH <= 0 {
		return nil, false
	}
	m, ok := q.Transform()
	if !ok {
		return nil, false
	}

	x0, y0 := float64(q.Dst.Min.X), float64(q.Dst.Min.Y)
	x1, y1 := float64(q.Dst.Max.X), float64(q.Dst.Max.Y)
	corners := [4][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	order := [QuadVertexCount]int{0, 1, 2, 2, 3, 0}

	data := make([]byte, QuadVertexCount*quadVertexStride)
	sx, sy := 2/float64(targetW), 2/float64(targetH)
	for i, c := range order {
		px, py := corners[c][0], corners[c][1]
		uv := m.Apply(px, py)
		writeQuadVertex(data[i*quadVertexStride:],
			float32(px*sx-1), float32(1-py*sy),
			float32(uv.U), float32(uv.V),
		)
	}
	return data, true
}

// writeQuadVertex writes a single vertex into buf.
func writeQuadVertex(buf []byte, x, y, u, v float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(u))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v))
}
