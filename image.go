package texresolve

import (
	intImage "github.com/gogpu/texresolve/internal/image"
)

// ImageBuf is a public alias for the internal pixel buffer.
// It holds tightly packed or strided pixels in one of the ImageFormat
// layouts.
type ImageBuf = intImage.ImageBuf

// ImageFormat represents a pixel storage format.
type ImageFormat = intImage.Format

// Pixel formats.
const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 = intImage.FormatGray8

	// FormatGray16 is 16-bit little-endian grayscale (2 bytes per pixel).
	FormatGray16 = intImage.FormatGray16

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, alpha reads as 1).
	FormatRGB8 = intImage.FormatRGB8

	// FormatRGBA8 is 32-bit straight-alpha RGBA (4 bytes per pixel).
	FormatRGBA8 = intImage.FormatRGBA8

	// FormatBGRA8 is 32-bit straight-alpha BGRA (4 bytes per pixel).
	FormatBGRA8 = intImage.FormatBGRA8

	// FormatRGBAF32 is 128-bit float RGBA (16 bytes per pixel).
	FormatRGBAF32 = intImage.FormatRGBAF32
)

// NewImageBuf creates a new zeroed image buffer with the given dimensions and format.
func NewImageBuf(width, height int, format ImageFormat) (*ImageBuf, error) {
	return intImage.NewImageBuf(width, height, format)
}

// ImageBufFromRaw wraps existing pixel data without copying.
func ImageBufFromRaw(data []byte, width, height int, format ImageFormat, stride int) (*ImageBuf, error) {
	return intImage.FromRaw(data, width, height, format, stride)
}
