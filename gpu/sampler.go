//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texresolve"
)

// SamplerDescriptor converts a texresolve sampler to a hal sampler
// descriptor.
func SamplerDescriptor(s texresolve.Sampler) *hal.SamplerDescriptor {
	mode := addressMode(s.AddressModeU)
	return &hal.SamplerDescriptor{
		Label:        "texture_resolve_sampler",
		AddressModeU: mode,
		AddressModeV: addressMode(s.AddressModeV),
		AddressModeW: mode,
		MagFilter:    filterMode(s.MagFilter),
		MinFilter:    filterMode(s.MinFilter),
		MipmapFilter: mipmapFilter(s.MipmapFilter),
		LodMinClamp:  float32(s.LODMinClamp),
		LodMaxClamp:  float32(lodMaxClamp(s)),
	}
}

func lodMaxClamp(s texresolve.Sampler) float64 {
	if s.LODMaxClamp == 0 {
		return texresolve.DefaultLODMaxClamp
	}
	return s.LODMaxClamp
}

func addressMode(m texresolve.AddressMode) gputypes.AddressMode {
	switch m {
	case texresolve.AddressRepeat:
		return gputypes.AddressModeRepeat
	case texresolve.AddressMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	default:
		// Border addressing clamps to edge.
		return gputypes.AddressModeClampToEdge
	}
}

func filterMode(f texresolve.FilterMode) gputypes.FilterMode {
	switch f {
	case texresolve.FilterLinear, texresolve.FilterCubic:
		return gputypes.FilterModeLinear
	default:
		return gputypes.FilterModeNearest
	}
}

// mipmapFilter maps MipmapNone to nearest. Textures uploaded without a mip
// chain have a single level, so level 0 is always sampled.
func mipmapFilter(m texresolve.MipmapFilter) gputypes.FilterMode {
	if m == texresolve.MipmapLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}
