package texresolve

import (
	"fmt"
	"image"
	"sync/atomic"

	intImage "github.com/gogpu/texresolve/internal/image"
)

// Texture is an immutable 2D texture with an optional mip chain.
//
// A Texture must not be modified after creation. Sampling is safe from any
// number of goroutines; Release must not race with sampling.
type Texture struct {
	buf      *ImageBuf
	mips     *intImage.MipmapChain
	released atomic.Bool
}

// TextureOption configures a Texture during creation.
type TextureOption func(*textureOptions)

type textureOptions struct {
	mipmaps bool
	pool    *intImage.Pool
}

// WithMipmaps generates a full mip chain with a 2x2 box filter.
// Samplers with a MipmapFilter other than MipmapNone use it for
// minification.
func WithMipmaps() TextureOption {
	return func(o *textureOptions) {
		o.mipmaps = true
	}
}

// withPool overrides the buffer pool used for generated mip levels.
func withPool(p *intImage.Pool) TextureOption {
	return func(o *textureOptions) {
		o.pool = p
	}
}

// NewTexture creates a texture that samples buf. buf is not copied and
// must not be modified while the texture is in use.
func NewTexture(buf *ImageBuf, opts ...TextureOption) (*Texture, error) {
	if buf == nil || buf.IsEmpty() {
		return nil, ErrNilTexture
	}

	o := textureOptions{pool: intImage.DefaultPool()}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Texture{buf: buf}
	if o.mipmaps {
		t.mips = intImage.GenerateMipmapsWithPool(buf, o.pool)
	}

	Logger().Debug("texture created",
		"width", buf.Width(),
		"height", buf.Height(),
		"format", buf.Format().String(),
		"levels", t.MipLevels(),
	)
	return t, nil
}

// NewTextureFromImage copies img into a new texture.
func NewTextureFromImage(img image.Image, opts ...TextureOption) (*Texture, error) {
	if img == nil {
		return nil, ErrNilTexture
	}
	buf, err := intImage.FromStdImage(img)
	if err != nil {
		return nil, fmt.Errorf("texresolve: convert image: %w", err)
	}
	return NewTexture(buf, opts...)
}

// LoadTexture decodes the image file at path into a new texture.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
func LoadTexture(path string, opts ...TextureOption) (*Texture, error) {
	buf, err := intImage.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("texresolve: load texture: %w", err)
	}
	return NewTexture(buf, opts...)
}

// DecodeTexture decodes encoded image data into a new texture.
// It accepts the same formats as LoadTexture.
func DecodeTexture(data []byte, opts ...TextureOption) (*Texture, error) {
	buf, err := intImage.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("texresolve: decode texture: %w", err)
	}
	return NewTexture(buf, opts...)
}

// Width returns the width of level 0 in texels.
func (t *Texture) Width() int { return t.buf.Width() }

// Height returns the height of level 0 in texels.
func (t *Texture) Height() int { return t.buf.Height() }

// Format returns the pixel format.
func (t *Texture) Format() ImageFormat { return t.buf.Format() }

// Image returns level 0.
func (t *Texture) Image() *ImageBuf { return t.buf }

// MipLevels returns the number of mip levels, 1 without a chain.
func (t *Texture) MipLevels() int {
	if t.mips == nil {
		return 1
	}
	return t.mips.NumLevels()
}

// Level returns mip level n, or nil if n is out of range.
func (t *Texture) Level(n int) *ImageBuf {
	if t.mips == nil {
		if n == 0 {
			return t.buf
		}
		return nil
	}
	return t.mips.Level(n)
}

// Release returns generated mip levels to the pool. The texture must not
// be sampled afterwards; bindings report ErrReleasedTexture from Valid.
// Release is idempotent.
func (t *Texture) Release() {
	if t == nil || !t.released.CompareAndSwap(false, true) {
		return
	}
	if t.mips != nil {
		t.mips.Release()
		t.mips = nil
	}
}

// Released reports whether Release has been called.
func (t *Texture) Released() bool {
	return t.released.Load()
}
