package image

import (
	"encoding/binary"
	"errors"
	"math"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a contiguous pixel buffer with optional row stride.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write
// operations (Set*, Fill, Clear) require external synchronization and must
// not overlap with reads.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

func validate(width, height int, format Format) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	return nil
}

// NewImageBuf creates a new zeroed image buffer with the given dimensions and format.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if err := validate(width, height, format); err != nil {
		return nil, err
	}
	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps existing pixel data without copying.
// The caller must keep data unchanged while the buffer is sampled.
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if err := validate(width, height, format); err != nil {
		return nil, err
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}
	// The last row only needs RowBytes, not a full stride.
	required := stride*(height-1) + format.RowBytes(width)
	if len(data) < required {
		return nil, ErrDataTooSmall
	}
	return &ImageBuf{
		data:   data[:required],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &ImageBuf{
		data:   data,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int { return b.height }

// Stride returns the number of bytes per row (including padding).
func (b *ImageBuf) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *ImageBuf) Format() Format { return b.format }

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) { return b.width, b.height }

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte { return b.data }

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// PixelBytes returns a slice of the raw bytes for pixel (x, y).
// Returns nil if coordinates are out of bounds.
func (b *ImageBuf) PixelBytes(x, y int) []byte {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return nil
	}
	return b.data[offset : offset+b.format.BytesPerPixel()]
}

// SetPixelBytes sets the raw bytes for pixel (x, y).
func (b *ImageBuf) SetPixelBytes(x, y int, pixel []byte) error {
	dst := b.PixelBytes(x, y)
	if dst == nil {
		return ErrOutOfBounds
	}
	copy(dst, pixel)
	return nil
}

// Texel returns the pixel at (x, y) as normalized (r, g, b, a) channels.
//
// Normalized formats return values in [0, 1] computed as stored/max.
// Grayscale formats replicate the value into r, g and b. Formats without
// alpha return a = 1. Out-of-bounds coordinates return all zeros.
func (b *ImageBuf) Texel(x, y int) [4]float64 {
	p := b.PixelBytes(x, y)
	if p == nil {
		return [4]float64{}
	}

	switch b.format {
	case FormatGray8:
		v := unorm8(p[0])
		return [4]float64{v, v, v, 1}
	case FormatGray16:
		v := float64(binary.LittleEndian.Uint16(p)) / 65535
		return [4]float64{v, v, v, 1}
	case FormatRGB8:
		return [4]float64{unorm8(p[0]), unorm8(p[1]), unorm8(p[2]), 1}
	case FormatRGBA8:
		return [4]float64{unorm8(p[0]), unorm8(p[1]), unorm8(p[2]), unorm8(p[3])}
	case FormatBGRA8:
		return [4]float64{unorm8(p[2]), unorm8(p[1]), unorm8(p[0]), unorm8(p[3])}
	case FormatRGBAF32:
		var t [4]float64
		for i := range 4 {
			t[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:])))
		}
		return t
	default:
		return [4]float64{}
	}
}

// SetTexel stores normalized (r, g, b, a) channels at (x, y).
//
// Normalized formats clamp to [0, 1] and round to the nearest code.
// Grayscale formats store 0.299*R + 0.587*G + 0.114*B. Channels the format
// does not store are dropped.
func (b *ImageBuf) SetTexel(x, y int, t [4]float64) error {
	p := b.PixelBytes(x, y)
	if p == nil {
		return ErrOutOfBounds
	}

	switch b.format {
	case FormatGray8:
		p[0] = toUnorm8(luma(t))
	case FormatGray16:
		binary.LittleEndian.PutUint16(p, uint16(math.Round(clamp01(luma(t))*65535)))
	case FormatRGB8:
		p[0], p[1], p[2] = toUnorm8(t[0]), toUnorm8(t[1]), toUnorm8(t[2])
	case FormatRGBA8:
		p[0], p[1], p[2], p[3] = toUnorm8(t[0]), toUnorm8(t[1]), toUnorm8(t[2]), toUnorm8(t[3])
	case FormatBGRA8:
		p[0], p[1], p[2], p[3] = toUnorm8(t[2]), toUnorm8(t[1]), toUnorm8(t[0]), toUnorm8(t[3])
	case FormatRGBAF32:
		for i := range 4 {
			binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(float32(t[i])))
		}
	}
	return nil
}

// GetRGBA returns the color at (x, y) as 8-bit (r, g, b, a).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	if b.PixelOffset(x, y) < 0 {
		return 0, 0, 0, 0
	}
	t := b.Texel(x, y)
	return toUnorm8(t[0]), toUnorm8(t[1]), toUnorm8(t[2]), toUnorm8(t[3])
}

// SetRGBA sets the color at (x, y) from 8-bit (r, g, b, a).
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	return b.SetTexel(x, y, [4]float64{unorm8(r), unorm8(g), unorm8(bl), unorm8(a)})
}

// Clear sets all pixels to zero.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets every pixel to the given normalized color.
func (b *ImageBuf) Fill(t [4]float64) {
	for y := range b.height {
		for x := range b.width {
			_ = b.SetTexel(x, y, t)
		}
	}
}

// SubImage returns a view into a rectangular region of the image.
// The returned ImageBuf shares the underlying data with the original.
// Returns nil if the region is empty or outside the image.
func (b *ImageBuf) SubImage(x, y, width, height int) *ImageBuf {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}

	bpp := b.format.BytesPerPixel()
	offset := y*b.stride + x*bpp
	end := (y+height-1)*b.stride + (x+width)*bpp

	return &ImageBuf{
		data:   b.data[offset:end],
		width:  width,
		height: height,
		stride: b.stride,
		format: b.format,
	}
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}

// IsEmpty returns true if the image has zero dimensions.
func (b *ImageBuf) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}

func unorm8(v uint8) float64 {
	return float64(v) / 255
}

func toUnorm8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func luma(t [4]float64) float64 {
	return 0.299*t[0] + 0.587*t[1] + 0.114*t[2]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
