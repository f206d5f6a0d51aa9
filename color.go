package texresolve

import (
	"image/color"
	"math"
)

// Coord is a normalized texture coordinate. (0, 0) is the top-left corner
// of the texture and (1, 1) the bottom-right corner. Values outside [0, 1]
// are valid and resolved by the sampler's address modes.
type Coord struct {
	U, V float64
}

// Add returns c + d.
func (c Coord) Add(d Coord) Coord {
	return Coord{U: c.U + d.U, V: c.V + d.V}
}

// Scale returns c scaled by s.
func (c Coord) Scale(s float64) Coord {
	return Coord{U: c.U * s, V: c.V * s}
}

// RGBA represents a color with red, green, blue, and alpha components.
// Components of colors sampled from normalized formats are in [0, 1];
// float textures may return values outside that range.
type RGBA struct {
	R, G, B, A float64
}

// Opaque returns c with alpha replaced by 1.
func (c RGBA) Opaque() RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: 1}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: toByte(c.R),
		G: toByte(c.G),
		B: toByte(c.B),
		A: toByte(c.A),
	}
}

// FromColor converts a standard color.Color to straight-alpha RGBA.
func FromColor(c color.Color) RGBA {
	switch v := c.(type) {
	case color.NRGBA:
		return RGBA{
			R: float64(v.R) / 255,
			G: float64(v.G) / 255,
			B: float64(v.B) / 255,
			A: float64(v.A) / 255,
		}
	case color.NRGBA64:
		return RGBA{
			R: float64(v.R) / 65535,
			G: float64(v.G) / 65535,
			B: float64(v.B) / 65535,
			A: float64(v.A) / 65535,
		}
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

// toByte clamps v to [0, 1] and rounds it to the nearest 8-bit code.
func toByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func rgbaOf(t [4]float64) RGBA {
	return RGBA{R: t[0], G: t[1], B: t[2], A: t[3]}
}

func (c RGBA) array() [4]float64 {
	return [4]float64{c.R, c.G, c.B, c.A}
}
