package image

import "sync"

// Pool recycles ImageBuf instances grouped by dimensions and format.
// Mip chains draw their generated levels from a pool so that textures which
// are re-uploaded every frame do not reallocate their pyramids.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageBuf
	maxSize int
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a pool that keeps at most maxPerBucket buffers for each
// size and format. Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*ImageBuf),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer of the given size and format, reusing a
// pooled one when available. Returns nil for invalid parameters.
func (p *Pool) Get(width, height int, format Format) *ImageBuf {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		return buf
	}
	p.mu.Unlock()

	buf, err := NewImageBuf(width, height, format)
	if err != nil {
		return nil
	}
	return buf
}

// Put clears buf and keeps it for reuse. Buffers with a padded stride and
// buffers beyond the bucket limit are dropped.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil || buf.stride != buf.format.RowBytes(buf.width) {
		return
	}
	buf.Clear()

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of buffers currently held by the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

var defaultPool = NewPool(8)

// DefaultPool returns the package-level pool shared by textures that
// are not given their own.
func DefaultPool() *Pool {
	return defaultPool
}
