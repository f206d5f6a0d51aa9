// Package texresolve implements the texture-resolve stage of a rendering
// pipeline: given an interpolated texture coordinate and a bound 2D
// texture, it produces the final color of a fragment by sampling the
// texture and forcing full opacity.
//
// # Overview
//
// The stage itself is a single pure function:
//
//	out := texresolve.Resolve(uv, binding) // == RGBA{s.R, s.G, s.B, 1}
//
// Everything around it (texture storage, sampler configuration, mip
// selection, dispatch over pixels) lives in collaborators that can be used
// or replaced independently.
//
// # Quick Start
//
//	import "github.com/gogpu/texresolve"
//
//	tex, err := texresolve.LoadTexture("sprite.png", texresolve.WithMipmaps())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tex.Release()
//
//	b := texresolve.Bind(tex, texresolve.PixelArtSampler())
//	c := texresolve.Resolve(texresolve.Coord{U: 0.5, V: 0.5}, b)
//
// # Bindings
//
// A [Binding] is anything that can be sampled at a normalized coordinate.
// [ImageBinding] is the reference implementation: a non-owning reference
// to a [Texture] plus a [Sampler]. Bindings are immutable, so a single
// binding may be sampled from any number of goroutines.
//
// Level of detail is a property of the binding, not of the call:
// [ImageBinding.WithGradients] derives it from screen-space derivatives and
// [ImageBinding.WithLOD] fixes it explicitly. Without either, level 0 is
// sampled with the magnification filter.
//
// # Alpha
//
// The stage discards the sampled alpha unconditionally. A transparent
// texel resolves to its stored color at full opacity; no premultiplication
// or blending is applied.
//
// # Rendering
//
// The render package dispatches the stage over the pixels of a quad on a
// worker pool, and the gpu package carries the same stage as a WGSL
// fragment program for wgpu.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] to route diagnostics
// to a [log/slog] logger shared by all sub-packages.
package texresolve
