package texresolve

// Binding is a sampleable texture reference. Implementations must be safe
// for concurrent use and must not change between calls.
type Binding interface {
	// Sample returns the filtered color at uv.
	Sample(uv Coord) RGBA
}

// BindingFunc adapts a function to the Binding interface.
type BindingFunc func(uv Coord) RGBA

// Sample implements Binding.
func (f BindingFunc) Sample(uv Coord) RGBA { return f(uv) }

// Resolve is the texture-resolve stage. It samples b at uv and returns the
// sampled red, green and blue channels unchanged with alpha set to 1.
//
// Resolve performs no validation. b must be non-nil and, for an
// [ImageBinding], pass [ImageBinding.Valid]; hosts check this once before
// dispatch.
func Resolve(uv Coord, b Binding) RGBA {
	return b.Sample(uv).Opaque()
}

// ResolveAll applies Resolve to every coordinate in uvs, writing the
// results to dst. dst must be at least as long as uvs.
func ResolveAll(uvs []Coord, b Binding, dst []RGBA) {
	dst = dst[:len(uvs)]
	for i, uv := range uvs {
		dst[i] = Resolve(uv, b)
	}
}
