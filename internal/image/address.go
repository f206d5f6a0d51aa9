package image

// AddressMode determines how texel indices outside [0, n) are resolved.
//
// Addressing is applied to integer texel indices after the filter footprint
// is computed, so a bilinear footprint straddling an edge blends with the
// wrapped, mirrored, clamped or border texel as a GPU sampler would.
type AddressMode uint8

const (
	// AddressClampToEdge clamps indices to the nearest edge texel (default).
	AddressClampToEdge AddressMode = iota

	// AddressRepeat tiles the image.
	AddressRepeat

	// AddressMirrorRepeat tiles the image, mirroring every other tile.
	AddressMirrorRepeat

	// AddressClampToBorder resolves out-of-range indices to a border color.
	AddressClampToBorder
)

// String returns a string representation of the address mode.
func (m AddressMode) String() string {
	switch m {
	case AddressClampToEdge:
		return "ClampToEdge"
	case AddressRepeat:
		return "Repeat"
	case AddressMirrorRepeat:
		return "MirrorRepeat"
	case AddressClampToBorder:
		return "ClampToBorder"
	default:
		return "Unknown"
	}
}

// Wrap maps texel index i into [0, n) for an axis of n texels.
// ok is false when the index resolves to the border (ClampToBorder only).
func (m AddressMode) Wrap(i, n int) (idx int, ok bool) {
	switch m {
	case AddressRepeat:
		return mod(i, n), true
	case AddressMirrorRepeat:
		p := mod(i, 2*n)
		if p >= n {
			p = 2*n - 1 - p
		}
		return p, true
	case AddressClampToBorder:
		if i < 0 || i >= n {
			return 0, false
		}
		return i, true
	default:
		return clamp(i, 0, n-1), true
	}
}

// Addressing is the per-axis addressing configuration used by the filters.
type Addressing struct {
	U, V AddressMode

	// Border is returned for texels resolved to the border.
	Border [4]float64
}

// fetch returns the texel at (x, y) after addressing.
func (a Addressing) fetch(img *ImageBuf, x, y int) [4]float64 {
	w, h := img.Bounds()
	xi, okx := a.U.Wrap(x, w)
	yi, oky := a.V.Wrap(y, h)
	if !okx || !oky {
		return a.Border
	}
	return img.Texel(xi, yi)
}

// mod returns i modulo n in [0, n) for positive n.
func mod(i, n int) int {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}

// clamp clamps an integer value to [minVal, maxVal].
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
