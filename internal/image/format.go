// Package image provides the texel storage behind texresolve textures.
//
// It holds pixel buffers in a small set of storage formats, fetches texels as
// normalized float channels, applies per-axis addressing, performs nearest,
// bilinear and bicubic filtering, and builds box-filtered mip chains.
// Values are returned exactly as stored; no color-space conversion is done.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatGray8 is 8-bit unsigned-normalized grayscale (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatGray16 is 16-bit unsigned-normalized grayscale, little endian
	// (2 bytes per pixel).
	FormatGray16

	// FormatRGB8 is 24-bit unsigned-normalized RGB without alpha
	// (3 bytes per pixel). Alpha reads as 1.
	FormatRGB8

	// FormatRGBA8 is 32-bit unsigned-normalized RGBA, straight alpha
	// (4 bytes per pixel).
	FormatRGBA8

	// FormatBGRA8 is 32-bit unsigned-normalized BGRA, straight alpha
	// (4 bytes per pixel). Common swapchain layout.
	FormatBGRA8

	// FormatRGBAF32 is 128-bit float RGBA, little endian float32 per channel
	// (16 bytes per pixel).
	FormatRGBAF32

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// Channels is the number of stored channels.
	Channels int

	// HasAlpha indicates if the format stores an alpha channel.
	HasAlpha bool

	// IsGrayscale indicates if this is a single-channel gray format.
	IsGrayscale bool

	// IsNormalized indicates unsigned-normalized integer storage. Texels of
	// normalized formats are always within [0, 1].
	IsNormalized bool

	// BitsPerChannel is the number of bits per stored channel.
	BitsPerChannel int
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8:   {BytesPerPixel: 1, Channels: 1, IsGrayscale: true, IsNormalized: true, BitsPerChannel: 8},
	FormatGray16:  {BytesPerPixel: 2, Channels: 1, IsGrayscale: true, IsNormalized: true, BitsPerChannel: 16},
	FormatRGB8:    {BytesPerPixel: 3, Channels: 3, IsNormalized: true, BitsPerChannel: 8},
	FormatRGBA8:   {BytesPerPixel: 4, Channels: 4, HasAlpha: true, IsNormalized: true, BitsPerChannel: 8},
	FormatBGRA8:   {BytesPerPixel: 4, Channels: 4, HasAlpha: true, IsNormalized: true, BitsPerChannel: 8},
	FormatRGBAF32: {BytesPerPixel: 16, Channels: 4, HasAlpha: true, BitsPerChannel: 32},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// Channels returns the number of stored channels.
func (f Format) Channels() int {
	return f.Info().Channels
}

// HasAlpha returns true if this format stores an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsGrayscale returns true if this is a grayscale format.
func (f Format) IsGrayscale() bool {
	return f.Info().IsGrayscale
}

// IsNormalized returns true for unsigned-normalized integer formats.
func (f Format) IsNormalized() bool {
	return f.Info().IsNormalized
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatGray16:
		return "Gray16"
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	case FormatRGBAF32:
		return "RGBAF32"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
