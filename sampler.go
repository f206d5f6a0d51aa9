package texresolve

import (
	"math"

	intImage "github.com/gogpu/texresolve/internal/image"
)

// AddressMode determines how coordinates outside [0, 1] are resolved.
type AddressMode = intImage.AddressMode

// Address modes.
const (
	// AddressClampToEdge repeats the edge texels (default).
	AddressClampToEdge = intImage.AddressClampToEdge

	// AddressRepeat tiles the texture.
	AddressRepeat = intImage.AddressRepeat

	// AddressMirrorRepeat tiles the texture, mirroring every other tile.
	AddressMirrorRepeat = intImage.AddressMirrorRepeat

	// AddressClampToBorder returns the sampler's border color outside the
	// texture. GPU samplers without border support clamp to edge instead.
	AddressClampToBorder = intImage.AddressClampToBorder
)

// FilterMode defines how texels are combined within one mip level.
type FilterMode = intImage.FilterMode

// Filter modes.
const (
	// FilterNearest selects the closest texel.
	FilterNearest = intImage.FilterNearest

	// FilterLinear interpolates the 2x2 neighborhood.
	FilterLinear = intImage.FilterLinear

	// FilterCubic performs Catmull-Rom interpolation over a 4x4 neighborhood.
	// CPU only; GPU samplers use linear filtering.
	FilterCubic = intImage.FilterCubic
)

// MipmapFilter defines how mip levels are selected and combined.
type MipmapFilter uint8

const (
	// MipmapNone always samples level 0.
	MipmapNone MipmapFilter = iota

	// MipmapNearest samples the level closest to the computed LOD.
	MipmapNearest

	// MipmapLinear blends the two levels around the computed LOD.
	MipmapLinear
)

// String returns a string representation of the mipmap filter.
func (m MipmapFilter) String() string {
	switch m {
	case MipmapNone:
		return "None"
	case MipmapNearest:
		return "Nearest"
	case MipmapLinear:
		return "Linear"
	default:
		return "Unknown"
	}
}

// BorderColor selects the color returned by AddressClampToBorder.
type BorderColor uint8

const (
	// BorderTransparentBlack is (0, 0, 0, 0).
	BorderTransparentBlack BorderColor = iota

	// BorderOpaqueBlack is (0, 0, 0, 1).
	BorderOpaqueBlack

	// BorderOpaqueWhite is (1, 1, 1, 1).
	BorderOpaqueWhite
)

// RGBA returns the border color value.
func (c BorderColor) RGBA() RGBA {
	switch c {
	case BorderOpaqueBlack:
		return RGBA{A: 1}
	case BorderOpaqueWhite:
		return RGBA{R: 1, G: 1, B: 1, A: 1}
	default:
		return RGBA{}
	}
}

// DefaultLODMaxClamp is the upper LOD clamp used when a sampler leaves
// LODMaxClamp at zero.
const DefaultLODMaxClamp = 32

// Sampler holds the sampling configuration of a binding. The zero value is
// a nearest, clamp-to-edge sampler without mipmapping.
type Sampler struct {
	AddressModeU AddressMode
	AddressModeV AddressMode

	// MagFilter is used when the LOD is <= 0, MinFilter otherwise.
	MagFilter FilterMode
	MinFilter FilterMode

	MipmapFilter MipmapFilter

	// LODMinClamp and LODMaxClamp bound the computed level of detail.
	// A zero LODMaxClamp means DefaultLODMaxClamp.
	LODMinClamp float64
	LODMaxClamp float64

	// LODBias is added to derivative-based LODs before clamping.
	LODBias float64

	Border BorderColor
}

// PixelArtSampler returns a nearest-neighbor, clamp-to-edge sampler.
// Texels stay crisp at every zoom level.
func PixelArtSampler() Sampler {
	return Sampler{
		AddressModeU: AddressClampToEdge,
		AddressModeV: AddressClampToEdge,
		MagFilter:    FilterNearest,
		MinFilter:    FilterNearest,
		MipmapFilter: MipmapNone,
	}
}

// SmoothSampler returns a trilinear, clamp-to-edge sampler.
func SmoothSampler() Sampler {
	return Sampler{
		AddressModeU: AddressClampToEdge,
		AddressModeV: AddressClampToEdge,
		MagFilter:    FilterLinear,
		MinFilter:    FilterLinear,
		MipmapFilter: MipmapLinear,
	}
}

// addressing converts the sampler's address configuration for the filters.
func (s Sampler) addressing() intImage.Addressing {
	return intImage.Addressing{
		U:      s.AddressModeU,
		V:      s.AddressModeV,
		Border: s.Border.RGBA().array(),
	}
}

// clampLOD bounds lod to the sampler's clamp range.
func (s Sampler) clampLOD(lod float64) float64 {
	hi := s.LODMaxClamp
	if hi == 0 {
		hi = DefaultLODMaxClamp
	}
	if math.IsNaN(lod) {
		return s.LODMinClamp
	}
	return math.Min(math.Max(lod, s.LODMinClamp), hi)
}
