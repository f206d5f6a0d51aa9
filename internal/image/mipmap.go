package image

import "math"

// MipmapChain holds pre-computed downscaled versions of an image.
//
// Level 0 is the original image; each following level halves both
// dimensions (rounding down, never below 1) until a 1x1 level is reached.
type MipmapChain struct {
	levels []*ImageBuf
	pool   *Pool
}

// GenerateMipmapsWithPool creates a mipmap chain whose generated levels are
// drawn from pool. src becomes level 0 and is not copied.
// Returns nil if src is nil or empty.
func GenerateMipmapsWithPool(src *ImageBuf, pool *Pool) *MipmapChain {
	if src == nil || src.IsEmpty() {
		return nil
	}

	n := MipLevelCount(src.Width(), src.Height())
	chain := &MipmapChain{
		levels: make([]*ImageBuf, n),
		pool:   pool,
	}
	chain.levels[0] = src
	for i := 1; i < n; i++ {
		chain.levels[i] = downsample(chain.levels[i-1], pool)
	}
	return chain
}

// MipLevelCount returns the number of levels in a full chain for an image
// of the given size: 1 + floor(log2(max(width, height))).
func MipLevelCount(width, height int) int {
	maxDim := max(width, height)
	if maxDim <= 0 {
		return 0
	}
	return 1 + int(math.Floor(math.Log2(float64(maxDim))))
}

// downsample creates a half-size version of src with a 2x2 box filter.
// Odd trailing rows and columns reuse the edge texel.
func downsample(src *ImageBuf, pool *Pool) *ImageBuf {
	srcW, srcH := src.Bounds()
	dstW := max(1, srcW/2)
	dstH := max(1, srcH/2)

	dst := pool.Get(dstW, dstH, src.Format())
	if dst == nil {
		return nil
	}

	for dy := range dstH {
		for dx := range dstW {
			sx, sy := dx*2, dy*2
			sx1, sy1 := min(sx+1, srcW-1), min(sy+1, srcH-1)

			t0 := src.Texel(sx, sy)
			t1 := src.Texel(sx1, sy)
			t2 := src.Texel(sx, sy1)
			t3 := src.Texel(sx1, sy1)

			var avg [4]float64
			for i := range 4 {
				avg[i] = (t0[i] + t1[i] + t2[i] + t3[i]) / 4
			}
			_ = dst.SetTexel(dx, dy, avg)
		}
	}
	return dst
}

// Level returns the mipmap at the specified level.
// Level 0 is the original image. Returns nil if level is out of range.
func (m *MipmapChain) Level(n int) *ImageBuf {
	if m == nil || n < 0 || n >= len(m.levels) {
		return nil
	}
	return m.levels[n]
}

// NumLevels returns the total number of levels, or 0 for a nil chain.
func (m *MipmapChain) NumLevels() int {
	if m == nil {
		return 0
	}
	return len(m.levels)
}

// Release returns all generated levels to the pool. Level 0 belongs to the
// caller and is kept. The chain must not be sampled afterwards.
func (m *MipmapChain) Release() {
	if m == nil {
		return
	}
	for i := 1; i < len(m.levels); i++ {
		if m.levels[i] != nil {
			m.pool.Put(m.levels[i])
			m.levels[i] = nil
		}
	}
	m.levels = m.levels[:min(1, len(m.levels))]
}
