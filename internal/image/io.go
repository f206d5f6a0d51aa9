package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// I/O errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Decode decodes an image from r, auto-detecting the format. PNG, JPEG,
// GIF, BMP, TIFF and WebP are supported.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img)
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// DecodeFile loads and decodes the image at path.
func DecodeFile(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// FromStdImage copies a standard library image into a new ImageBuf.
//
// *image.Gray and *image.Gray16 keep their gray formats; everything else
// becomes straight-alpha RGBA8. Premultiplied sources are un-premultiplied
// by the conversion.
func FromStdImage(img image.Image) (*ImageBuf, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		buf, err := NewImageBuf(width, height, FormatGray8)
		if err != nil {
			return nil, err
		}
		for y := range height {
			start := y * src.Stride
			copy(buf.RowBytes(y), src.Pix[start:start+width])
		}
		return buf, nil

	case *image.Gray16:
		buf, err := NewImageBuf(width, height, FormatGray16)
		if err != nil {
			return nil, err
		}
		for y := range height {
			row := buf.RowBytes(y)
			start := y * src.Stride
			for x := range width {
				// image.Gray16 is big endian, ImageBuf little endian.
				row[x*2] = src.Pix[start+x*2+1]
				row[x*2+1] = src.Pix[start+x*2]
			}
		}
		return buf, nil
	}

	buf, err := NewImageBuf(width, height, FormatRGBA8)
	if err != nil {
		return nil, err
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
		bounds = nrgba.Bounds()
	}
	for y := range height {
		start := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(buf.RowBytes(y), nrgba.Pix[start:start+width*4])
	}
	return buf, nil
}

// ToStdImage converts the buffer to a standard library image.
// Gray formats produce *image.Gray / *image.Gray16, all others *image.NRGBA.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	case FormatGray16:
		gray16 := image.NewGray16(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dst := y * gray16.Stride
			for x := range b.width {
				gray16.Pix[dst+x*2] = row[x*2+1]
				gray16.Pix[dst+x*2+1] = row[x*2]
			}
		}
		return gray16

	case FormatRGBA8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
		}
		return nrgba

	default:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			for x := range b.width {
				r, g, bl, a := b.GetRGBA(x, y)
				nrgba.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: bl, A: a})
			}
		}
		return nrgba
	}
}

// EncodePNG encodes the image as PNG to w.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
