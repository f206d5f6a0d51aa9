package texresolve

import (
	"errors"
	"math"

	intImage "github.com/gogpu/texresolve/internal/image"
)

// Precondition violations reported by ImageBinding.Valid.
var (
	// ErrNilBinding is returned for a nil binding.
	ErrNilBinding = errors.New("texresolve: nil binding")

	// ErrNilTexture is returned when a binding or constructor has no texture data.
	ErrNilTexture = errors.New("texresolve: nil texture")

	// ErrReleasedTexture is returned when the bound texture has been released.
	ErrReleasedTexture = errors.New("texresolve: texture released")
)

// ImageBinding is a read-only, non-owning reference to a texture and the
// sampler used to read it. It implements Binding.
//
// ImageBinding values are immutable; WithGradients and WithLOD return
// modified copies.
type ImageBinding struct {
	tex     *Texture
	sampler Sampler
	addr    intImage.Addressing
	lod     float64
}

// Bind creates a binding of tex sampled with s at LOD 0.
func Bind(tex *Texture, s Sampler) *ImageBinding {
	return &ImageBinding{
		tex:     tex,
		sampler: s,
		addr:    s.addressing(),
	}
}

// Texture returns the bound texture.
func (b *ImageBinding) Texture() *Texture { return b.tex }

// Sampler returns the sampling configuration.
func (b *ImageBinding) Sampler() Sampler { return b.sampler }

// LOD returns the level of detail used for sampling.
func (b *ImageBinding) LOD() float64 { return b.lod }

// WithLOD returns a copy of b that samples at the given level of detail,
// clamped to the sampler's LOD range. The sampler's bias is not applied.
func (b *ImageBinding) WithLOD(lod float64) *ImageBinding {
	c := *b
	c.lod = b.sampler.clampLOD(lod)
	return &c
}

// WithGradients returns a copy of b whose level of detail is derived from
// the screen-space derivatives of the texture coordinate:
//
//	lod = log2(max(|ddx * size|, |ddy * size|)) + LODBias
//
// clamped to the sampler's LOD range.
func (b *ImageBinding) WithGradients(ddx, ddy Coord) *ImageBinding {
	w := float64(b.tex.Width())
	h := float64(b.tex.Height())

	lx := math.Hypot(ddx.U*w, ddx.V*h)
	ly := math.Hypot(ddy.U*w, ddy.V*h)
	rho := math.Max(lx, ly)

	c := *b
	c.lod = b.sampler.clampLOD(math.Log2(rho) + b.sampler.LODBias)
	return &c
}

// Valid reports whether b can be sampled. Hosts call it once before
// dispatching; Sample and Resolve never check.
func (b *ImageBinding) Valid() error {
	if b == nil {
		return ErrNilBinding
	}
	if b.tex == nil || b.tex.buf == nil {
		return ErrNilTexture
	}
	if b.tex.Released() {
		return ErrReleasedTexture
	}
	return nil
}

// Sample implements Binding. The magnification filter is used when the
// LOD is <= 0, the minification filter and the mip chain otherwise.
func (b *ImageBinding) Sample(uv Coord) RGBA {
	s := &b.sampler
	if b.lod <= 0 {
		return b.sampleLevel(0, s.MagFilter, uv)
	}

	levels := b.tex.MipLevels()
	if s.MipmapFilter == MipmapNone || levels == 1 {
		return b.sampleLevel(0, s.MinFilter, uv)
	}

	maxLevel := float64(levels - 1)
	lod := math.Min(b.lod, maxLevel)

	if s.MipmapFilter == MipmapNearest {
		return b.sampleLevel(int(math.Floor(lod+0.5)), s.MinFilter, uv)
	}

	base := math.Floor(lod)
	t := lod - base
	lo := b.sampleLevel(int(base), s.MinFilter, uv)
	if t == 0 {
		return lo
	}
	hi := b.sampleLevel(int(base)+1, s.MinFilter, uv)
	return RGBA{
		R: lo.R + (hi.R-lo.R)*t,
		G: lo.G + (hi.G-lo.G)*t,
		B: lo.B + (hi.B-lo.B)*t,
		A: lo.A + (hi.A-lo.A)*t,
	}
}

func (b *ImageBinding) sampleLevel(level int, filter FilterMode, uv Coord) RGBA {
	return rgbaOf(intImage.Sample(b.tex.Level(level), b.addr, uv.U, uv.V, filter))
}
