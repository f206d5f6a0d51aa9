//go:build !nogpu

// Package gpu runs the texture resolve stage as a WGSL fragment program
// through wgpu/hal.
//
// The fragment shader samples the bound texture at the interpolated
// coordinate and outputs the sampled color with alpha set to 1.0, the same
// result texresolve.Resolve gives on the CPU. Sampler configuration maps
// from texresolve.Sampler with SamplerDescriptor. Cubic filtering and
// border addressing have no hal equivalent and fall back to linear
// filtering and clamp-to-edge.
//
// ResolvePipeline owns the shader module, bind group layout, pipeline
// layout and render pipeline. Bind groups are created by the caller with
// the texture view at binding 0 and the sampler at binding 1:
//
//	p := gpu.NewResolvePipeline(device, queue)
//	if err := p.Init(gputypes.TextureFormatRGBA8Unorm); err != nil {
//		return err
//	}
//	defer p.Destroy()
//
//	gt, err := p.UploadTexture(tex)
//	...
//	p.RecordDraw(rp, bindGroup, gpu.QuadVertexCount)
//
// Build with the nogpu tag to exclude this package's hal dependency.
package gpu
