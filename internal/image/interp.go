package image

import "math"

// FilterMode defines how texels are combined for a sample.
type FilterMode uint8

const (
	// FilterNearest selects the texel containing the coordinate.
	FilterNearest FilterMode = iota

	// FilterLinear interpolates the 2x2 texels around the coordinate.
	FilterLinear

	// FilterCubic performs Catmull-Rom interpolation over a 4x4 neighborhood.
	// CPU only; GPU samplers fall back to linear.
	FilterCubic
)

// String returns a string representation of the filter mode.
func (m FilterMode) String() string {
	switch m {
	case FilterNearest:
		return "Nearest"
	case FilterLinear:
		return "Linear"
	case FilterCubic:
		return "Cubic"
	default:
		return "Unknown"
	}
}

// Sample samples img at normalized coordinates (u, v) with the given filter.
// (0,0) is the top-left corner of the first texel and (1,1) the bottom-right
// corner of the last one. Out-of-range coordinates are resolved by a.
func Sample(img *ImageBuf, a Addressing, u, v float64, mode FilterMode) [4]float64 {
	switch mode {
	case FilterLinear:
		return SampleBilinear(img, a, u, v)
	case FilterCubic:
		return SampleBicubic(img, a, u, v)
	default:
		return SampleNearest(img, a, u, v)
	}
}

// SampleNearest returns the texel containing (u, v).
func SampleNearest(img *ImageBuf, a Addressing, u, v float64) [4]float64 {
	w, h := img.Bounds()
	x := int(math.Floor(u * float64(w)))
	y := int(math.Floor(v * float64(h)))
	return a.fetch(img, x, y)
}

// SampleBilinear interpolates the four texels whose centers surround (u, v).
func SampleBilinear(img *ImageBuf, a Addressing, u, v float64) [4]float64 {
	w, h := img.Bounds()

	// Texel centers sit at half-integer positions.
	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5

	fx0 := math.Floor(fx)
	fy0 := math.Floor(fy)
	tx := fx - fx0
	ty := fy - fy0
	x0, y0 := int(fx0), int(fy0)

	t00 := a.fetch(img, x0, y0)
	t10 := a.fetch(img, x0+1, y0)
	t01 := a.fetch(img, x0, y0+1)
	t11 := a.fetch(img, x0+1, y0+1)

	var out [4]float64
	for i := range 4 {
		out[i] = lerp2D(t00[i], t10[i], t01[i], t11[i], tx, ty)
	}
	return out
}

// SampleBicubic performs Catmull-Rom interpolation over the 4x4 texels
// around (u, v). Results for normalized formats are clamped to [0, 1].
func SampleBicubic(img *ImageBuf, a Addressing, u, v float64) [4]float64 {
	w, h := img.Bounds()

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5

	fx0 := math.Floor(fx)
	fy0 := math.Floor(fy)
	tx := fx - fx0
	ty := fy - fy0
	x, y := int(fx0), int(fy0)

	wx := cubicWeights(tx)
	wy := cubicWeights(ty)

	var out [4]float64
	for dy := range 4 {
		for dx := range 4 {
			t := a.fetch(img, x+dx-1, y+dy-1)
			weight := wx[dx] * wy[dy]
			for i := range 4 {
				out[i] += t[i] * weight
			}
		}
	}

	if img.Format().IsNormalized() {
		for i := range out {
			out[i] = clamp01(out[i])
		}
	}
	return out
}

// lerp performs linear interpolation between a and b.
// Written as a + (b-a)*t so that equal endpoints are returned exactly.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

// cubicWeight computes the Catmull-Rom cubic weight for distance t.
func cubicWeight(t float64) float64 {
	// Catmull-Rom spline (Mitchell-Netravali with B=0, C=0.5):
	// |t| < 1: (1.5|t|³ - 2.5|t|² + 1)
	// 1 ≤ |t| < 2: (-0.5|t|³ + 2.5|t|² - 4|t| + 2)
	// |t| ≥ 2: 0
	absT := math.Abs(t)
	if absT < 1 {
		return 1.5*absT*absT*absT - 2.5*absT*absT + 1.0
	}
	if absT < 2 {
		return -0.5*absT*absT*absT + 2.5*absT*absT - 4.0*absT + 2.0
	}
	return 0
}

// cubicWeights returns the weights for the texels at offsets -1, 0, 1, 2.
func cubicWeights(t float64) [4]float64 {
	return [4]float64{
		cubicWeight(t + 1),
		cubicWeight(t),
		cubicWeight(t - 1),
		cubicWeight(t - 2),
	}
}
