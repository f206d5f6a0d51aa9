//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texresolve"
)

// Texture is a texresolve texture uploaded to the GPU as RGBA8Unorm with
// one hal mip level per texresolve level.
type Texture struct {
	device hal.Device

	tex      hal.Texture
	view     hal.TextureView
	baseView hal.TextureView

	width  uint32
	height uint32
	levels uint32
}

// Width returns the width of level 0.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the height of level 0.
func (t *Texture) Height() uint32 { return t.height }

// Levels returns the number of uploaded mip levels.
func (t *Texture) Levels() uint32 { return t.levels }

// Raw returns the underlying hal texture.
func (t *Texture) Raw() hal.Texture { return t.tex }

// View returns a view over all mip levels.
func (t *Texture) View() hal.TextureView { return t.view }

// BaseView returns a view over level 0 only.
func (t *Texture) BaseView() hal.TextureView { return t.baseView }

// ViewFor returns the view to bind with s. Samplers with MipmapNone get
// the level 0 view so the GPU never selects another level.
func (t *Texture) ViewFor(s texresolve.Sampler) hal.TextureView {
	if s.MipmapFilter == texresolve.MipmapNone {
		return t.baseView
	}
	return t.view
}

// Destroy releases the views and the texture. Safe to call multiple times.
func (t *Texture) Destroy() {
	if t.device == nil {
		return
	}
	if t.baseView != nil {
		t.device.DestroyTextureView(t.baseView)
		t.baseView = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// uploadTexture creates the hal texture for tex and writes every level.
func uploadTexture(device hal.Device, queue hal.Queue, tex *texresolve.Texture) (*Texture, error) {
	if tex == nil {
		return nil, texresolve.ErrNilTexture
	}
	if tex.Released() {
		return nil, texresolve.ErrReleasedTexture
	}

	w := uint32(tex.Width())          //nolint:gosec // texture dimensions are positive
	h := uint32(tex.Height())         //nolint:gosec // texture dimensions are positive
	levels := uint32(tex.MipLevels()) //nolint:gosec // level count is small

	raw, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "texture_resolve_source",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create source texture: %w", err)
	}
	t := &Texture{device: device, tex: raw, width: w, height: h, levels: levels}

	for i := range levels {
		level := tex.Level(int(i))
		lw := uint32(level.Width())  //nolint:gosec // level dimensions are positive
		lh := uint32(level.Height()) //nolint:gosec // level dimensions are positive
		queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  raw,
				MipLevel: i,
			},
			levelRGBA8(level),
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  lw * 4,
				RowsPerImage: lh,
			},
			&hal.Extent3D{Width: lw, Height: lh, DepthOrArrayLayers: 1},
		)
	}

	t.view, err = device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         "texture_resolve_source_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: levels,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("gpu: create source view: %w", err)
	}

	t.baseView, err = device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         "texture_resolve_source_base_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("gpu: create source base view: %w", err)
	}
	return t, nil
}

// levelRGBA8 converts one level to tightly packed RGBA8 rows.
// Float texels are clamped to [0, 1].
func levelRGBA8(buf *texresolve.ImageBuf) []byte {
	w, h := buf.Bounds()
	data := make([]byte, w*h*4)
	if buf.Format() == texresolve.FormatRGBA8 {
		for y := range h {
			copy(data[y*w*4:(y+1)*w*4], buf.RowBytes(y))
		}
		return data
	}
	for y := range h {
		for x := range w {
			off := (y*w + x) * 4
			data[off], data[off+1], data[off+2], data[off+3] = buf.GetRGBA(x, y)
		}
	}
	return data
}
