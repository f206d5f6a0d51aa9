//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/texresolve"
	"github.com/gogpu/texresolve/render"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newSourceTexture(t *testing.T, w, h int, opts ...texresolve.TextureOption) *texresolve.Texture {
	t.Helper()
	buf, err := texresolve.NewImageBuf(w, h, texresolve.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImageBuf failed: %v", err)
	}
	for y := range h {
		for x := range w {
			_ = buf.SetRGBA(x, y, uint8(x*10), uint8(y*10), 200, 128) //nolint:gosec // test sizes are small
		}
	}
	tex, err := texresolve.NewTexture(buf, opts...)
	if err != nil {
		t.Fatalf("NewTexture failed: %v", err)
	}
	return tex
}

func TestShaderSource(t *testing.T) {
	source := ShaderSource()
	required := []string{
		"@vertex",
		"@fragment",
		VertexEntryPoint,
		FragmentEntryPoint,
		"texture_2d<f32>",
		"sampler",
		"textureSample",
		"@binding(0)",
		"@binding(1)",
		".rgb, 1.0)",
	}
	for _, req := range required {
		if !strings.Contains(source, req) {
			t.Errorf("shader missing required element: %q", req)
		}
	}
}

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV()
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("CompileSPIRV failed: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("SPIR-V output is empty")
	}
	if words[0] != 0x07230203 {
		t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x07230203", words[0])
	}
}

func TestSamplerDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		sampler texresolve.Sampler
		wantU   gputypes.AddressMode
		wantV   gputypes.AddressMode
		wantMag gputypes.FilterMode
		wantMin gputypes.FilterMode
		wantMip gputypes.FilterMode
		wantLOD [2]float32
	}{
		{
			name:    "zero value",
			wantU:   gputypes.AddressModeClampToEdge,
			wantV:   gputypes.AddressModeClampToEdge,
			wantMag: gputypes.FilterModeNearest,
			wantMin: gputypes.FilterModeNearest,
			wantMip: gputypes.FilterModeNearest,
			wantLOD: [2]float32{0, texresolve.DefaultLODMaxClamp},
		},
		{
			name:    "smooth",
			sampler: texresolve.SmoothSampler(),
			wantU:   gputypes.AddressModeClampToEdge,
			wantV:   gputypes.AddressModeClampToEdge,
			wantMag: gputypes.FilterModeLinear,
			wantMin: gputypes.FilterModeLinear,
			wantMip: gputypes.FilterModeLinear,
			wantLOD: [2]float32{0, texresolve.DefaultLODMaxClamp},
		},
		{
			name: "clamped lod range",
			sampler: func() texresolve.Sampler {
				s := texresolve.SmoothSampler()
				s.LODMinClamp, s.LODMaxClamp = 1, 3
				return s
			}(),
			wantU:   gputypes.AddressModeClampToEdge,
			wantV:   gputypes.AddressModeClampToEdge,
			wantMag: gputypes.FilterModeLinear,
			wantMin: gputypes.FilterModeLinear,
			wantMip: gputypes.FilterModeLinear,
			wantLOD: [2]float32{1, 3},
		},
		{
			name: "repeat mirror",
			sampler: texresolve.Sampler{
				AddressModeU: texresolve.AddressRepeat,
				AddressModeV: texresolve.AddressMirrorRepeat,
				MipmapFilter: texresolve.MipmapNearest,
			},
			wantU:   gputypes.AddressModeRepeat,
			wantV:   gputypes.AddressModeMirrorRepeat,
			wantMag: gputypes.FilterModeNearest,
			wantMin: gputypes.FilterModeNearest,
			wantMip: gputypes.FilterModeNearest,
			wantLOD: [2]float32{0, texresolve.DefaultLODMaxClamp},
		},
		{
			name: "cubic and border fall back",
			sampler: texresolve.Sampler{
				AddressModeU: texresolve.AddressClampToBorder,
				AddressModeV: texresolve.AddressClampToBorder,
				MagFilter:    texresolve.FilterCubic,
				MinFilter:    texresolve.FilterCubic,
			},
			wantU:   gputypes.AddressModeClampToEdge,
			wantV:   gputypes.AddressModeClampToEdge,
			wantMag: gputypes.FilterModeLinear,
			wantMin: gputypes.FilterModeLinear,
			wantMip: gputypes.FilterModeNearest,
			wantLOD: [2]float32{0, texresolve.DefaultLODMaxClamp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := SamplerDescriptor(tt.sampler)
			if desc.AddressModeU != tt.wantU || desc.AddressModeV != tt.wantV {
				t.Errorf("address = (%v, %v), want (%v, %v)", desc.AddressModeU, desc.AddressModeV, tt.wantU, tt.wantV)
			}
			if desc.AddressModeW != tt.wantU {
				t.Errorf("AddressModeW = %v, want %v", desc.AddressModeW, tt.wantU)
			}
			if desc.MagFilter != tt.wantMag || desc.MinFilter != tt.wantMin {
				t.Errorf("filters = (%v, %v), want (%v, %v)", desc.MagFilter, desc.MinFilter, tt.wantMag, tt.wantMin)
			}
			if desc.MipmapFilter != tt.wantMip {
				t.Errorf("MipmapFilter = %v, want %v", desc.MipmapFilter, tt.wantMip)
			}
			if got := [2]float32{desc.LodMinClamp, desc.LodMaxClamp}; got != tt.wantLOD {
				t.Errorf("LOD clamp = %v, want %v", got, tt.wantLOD)
			}
		})
	}
}

func TestResolvePipelineInit(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewResolvePipeline(device, queue)
	defer p.Destroy()

	if p.IsInitialized() {
		t.Error("pipeline should not be initialized before Init()")
	}

	t.Run("first init", func(t *testing.T) {
		if err := p.Init(gputypes.TextureFormatRGBA8Unorm); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if !p.IsInitialized() {
			t.Error("pipeline should be initialized after Init()")
		}
		if p.shader == nil || p.bindLayout == nil || p.pipeLayout == nil {
			t.Error("expected shader and layouts after Init()")
		}
		if p.BindGroupLayout() == nil {
			t.Error("BindGroupLayout() should not be nil after Init()")
		}
	})

	t.Run("double init is safe", func(t *testing.T) {
		first := p.pipeline
		if err := p.Init(gputypes.TextureFormatRGBA8Unorm); err != nil {
			t.Fatalf("second Init() error = %v", err)
		}
		if p.pipeline != first {
			t.Error("Init() with the same format should keep the pipeline")
		}
	})

	t.Run("format change", func(t *testing.T) {
		if err := p.Init(gputypes.TextureFormatBGRA8Unorm); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if p.Format() != gputypes.TextureFormatBGRA8Unorm {
			t.Errorf("Format() = %v, want BGRA8Unorm", p.Format())
		}
	})
}

func TestResolvePipelineNilDevice(t *testing.T) {
	p := NewResolvePipeline(nil, nil)
	defer p.Destroy()

	if err := p.Init(gputypes.TextureFormatRGBA8Unorm); !errors.Is(err, ErrNilDevice) {
		t.Errorf("Init() error = %v, want ErrNilDevice", err)
	}
	if _, err := p.UploadTexture(nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("UploadTexture() error = %v, want ErrNilDevice", err)
	}
	if _, err := p.Sampler(texresolve.Sampler{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("Sampler() error = %v, want ErrNilDevice", err)
	}
}

func TestResolvePipelineDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewResolvePipeline(device, queue)
	if err := p.Init(gputypes.TextureFormatRGBA8Unorm); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := p.Sampler(texresolve.SmoothSampler()); err != nil {
		t.Fatalf("Sampler() error = %v", err)
	}
	if err := p.UploadQuad(render.NewQuad(image.Rect(0, 0, 4, 4)), 4, 4); err != nil {
		t.Fatalf("UploadQuad() error = %v", err)
	}

	p.Destroy()

	if p.IsInitialized() {
		t.Error("pipeline should not be initialized after Destroy()")
	}
	if p.shader != nil || p.bindLayout != nil || p.pipeLayout != nil {
		t.Error("expected nil shader and layouts after Destroy()")
	}
	if p.vertBuf != nil {
		t.Error("expected nil vertex buffer after Destroy()")
	}
	if len(p.samplers) != 0 {
		t.Errorf("expected empty sampler cache, got %d", len(p.samplers))
	}

	// Second destroy is safe.
	p.Destroy()
}

func TestResolvePipelineSamplerCache(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewResolvePipeline(device, queue)
	defer p.Destroy()

	a, err := p.Sampler(texresolve.PixelArtSampler())
	if err != nil {
		t.Fatalf("Sampler() error = %v", err)
	}
	b, err := p.Sampler(texresolve.PixelArtSampler())
	if err != nil {
		t.Fatalf("Sampler() error = %v", err)
	}
	if a != b {
		t.Error("equal samplers should share one hal sampler")
	}
	if _, err := p.Sampler(texresolve.SmoothSampler()); err != nil {
		t.Fatalf("Sampler() error = %v", err)
	}
	if len(p.samplers) != 2 {
		t.Errorf("cache size = %d, want 2", len(p.samplers))
	}
}

func TestUploadTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewResolvePipeline(device, queue)
	defer p.Destroy()

	t.Run("single level", func(t *testing.T) {
		gt, err := p.UploadTexture(newSourceTexture(t, 5, 3))
		if err != nil {
			t.Fatalf("UploadTexture() error = %v", err)
		}
		defer gt.Destroy()

		if gt.Width() != 5 || gt.Height() != 3 || gt.Levels() != 1 {
			t.Errorf("texture = %dx%d with %d levels, want 5x3 with 1", gt.Width(), gt.Height(), gt.Levels())
		}
		if gt.Raw() == nil || gt.View() == nil || gt.BaseView() == nil {
			t.Error("expected texture and views")
		}
	})

	t.Run("mip chain", func(t *testing.T) {
		gt, err := p.UploadTexture(newSourceTexture(t, 8, 8, texresolve.WithMipmaps()))
		if err != nil {
			t.Fatalf("UploadTexture() error = %v", err)
		}
		defer gt.Destroy()

		if gt.Levels() != 4 {
			t.Errorf("Levels() = %d, want 4", gt.Levels())
		}
		if gt.ViewFor(texresolve.PixelArtSampler()) != gt.BaseView() {
			t.Error("MipmapNone should bind the level 0 view")
		}
		if gt.ViewFor(texresolve.SmoothSampler()) != gt.View() {
			t.Error("MipmapLinear should bind the full view")
		}
	})

	t.Run("nil texture", func(t *testing.T) {
		if _, err := p.UploadTexture(nil); !errors.Is(err, texresolve.ErrNilTexture) {
			t.Errorf("error = %v, want ErrNilTexture", err)
		}
	})

	t.Run("released texture", func(t *testing.T) {
		tex := newSourceTexture(t, 2, 2)
		tex.Release()
		if _, err := p.UploadTexture(tex); !errors.Is(err, texresolve.ErrReleasedTexture) {
			t.Errorf("error = %v, want ErrReleasedTexture", err)
		}
	})

	t.Run("destroy twice", func(t *testing.T) {
		gt, err := p.UploadTexture(newSourceTexture(t, 2, 2))
		if err != nil {
			t.Fatalf("UploadTexture() error = %v", err)
		}
		gt.Destroy()
		gt.Destroy()
		if gt.Raw() != nil || gt.View() != nil {
			t.Error("expected nil resources after Destroy()")
		}
	})
}

func TestLevelRGBA8(t *testing.T) {
	buf, err := texresolve.NewImageBuf(2, 1, texresolve.FormatRGBAF32)
	if err != nil {
		t.Fatalf("NewImageBuf failed: %v", err)
	}
	_ = buf.SetTexel(0, 0, [4]float64{1, 0, 0.5, 1})
	_ = buf.SetTexel(1, 0, [4]float64{2, -1, 0, 0})

	got := levelRGBA8(buf)
	want := []byte{255, 0, 128, 255, 255, 0, 0, 0}
	if string(got) != string(want) {
		t.Errorf("levelRGBA8() = %v, want %v", got, want)
	}
}

func TestQuadVertices(t *testing.T) {
	q := render.Quad{
		Dst: image.Rect(0, 0, 32, 64),
		UV0: texresolve.Coord{U: 0, V: 0},
		UV1: texresolve.Coord{U: 1, V: 1},
	}
	data, ok := QuadVertices(q, 64, 64)
	if !ok {
		t.Fatal("QuadVertices() failed")
	}
	if len(data) != QuadVertexCount*quadVertexStride {
		t.Fatalf("len = %d, want %d", len(data), QuadVertexCount*quadVertexStride)
	}

	read := func(i, field int) float32 {
		off := i*quadVertexStride + field*4
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}

	// Vertices 0 and 2 are the top-left and bottom-right corners.
	corners := []struct {
		vertex     int
		x, y, u, v float32
	}{
		{0, -1, 1, 0, 0},
		{2, 0, -1, 1, 1},
	}
	for _, c := range corners {
		got := [4]float32{read(c.vertex, 0), read(c.vertex, 1), read(c.vertex, 2), read(c.vertex, 3)}
		want := [4]float32{c.x, c.y, c.u, c.v}
		if got != want {
			t.Errorf("vertex %d = %v, want %v", c.vertex, got, want)
		}
	}

	if _, ok := QuadVertices(render.Quad{}, 64, 64); ok {
		t.Error("QuadVertices() should fail for an empty quad")
	}
	if _, ok := QuadVertices(q, 0, 64); ok {
		t.Error("QuadVertices() should fail for an empty target")
	}
}

func TestUploadQuadNotInitialized(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewResolvePipeline(device, queue)
	defer p.Destroy()

	err := p.UploadQuad(render.NewQuad(image.Rect(0, 0, 4, 4)), 4, 4)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("UploadQuad() error = %v, want ErrNotInitialized", err)
	}
	if err := p.UploadQuad(render.Quad{}, 4, 4); !errors.Is(err, ErrEmptyQuad) {
		t.Errorf("UploadQuad() error = %v, want ErrEmptyQuad", err)
	}
}

func TestRecordDraw(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewResolvePipeline(device, queue)
	defer p.Destroy()

	if err := p.Init(gputypes.TextureFormatRGBA8Unorm); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := p.UploadQuad(render.NewQuad(image.Rect(0, 0, 16, 16)), 16, 16); err != nil {
		t.Fatalf("UploadQuad() error = %v", err)
	}

	target, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_target",
		Size:          hal.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	defer device.DestroyTexture(target)

	view, err := device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:         "test_target_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateTextureView failed: %v", err)
	}
	defer device.DestroyTextureView(view)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "test_encoder",
	})
	if err != nil {
		t.Fatalf("CreateCommandEncoder failed: %v", err)
	}
	if err := encoder.BeginEncoding("test_resolve"); err != nil {
		t.Fatalf("BeginEncoding failed: %v", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "test_resolve_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	p.RecordDraw(rp, nil, QuadVertexCount)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		t.Fatalf("EndEncoding failed: %v", err)
	}
	device.FreeCommandBuffer(cmdBuf)
}
